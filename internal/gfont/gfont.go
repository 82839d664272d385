// Package gfont resolves PostScript font names to object.FontFace values,
// backed by github.com/go-text/typesetting for font parsing (spec.md §6's
// font discovery collaborator; the teacher's gui/debugger packages never touch
// fonts, so this is grounded on the go-text stack fyne itself depends on).
package gfont

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"

	"github.com/waavs-go/pslang/internal/object"
)

// face wraps a parsed go-text font plus the metadata the core cares about.
type face struct {
	parsed   *gotext.Font
	unitsPer int32
}

// Provider searches a list of directories for TrueType/OpenType files,
// indexing them by PostScript name on first use. It implements
// vm.FontProvider without importing vm (vm imports object, not the other
// way around, so gfont sits beside vm rather than under it).
type Provider struct {
	mu         sync.Mutex
	searchDirs []string
	cache      map[string]*object.FontFace
}

// NewProvider builds a font provider that searches dirs in order. It has
// no built-in font set and no aliasing of standard font names: a name
// resolves only to a file found in dirs.
func NewProvider(dirs ...string) *Provider {
	return &Provider{searchDirs: dirs, cache: map[string]*object.FontFace{}}
}

// FindFace resolves a PostScript font name (e.g. "Helvetica") to a face.
func (p *Provider) FindFace(psName string) (*object.FontFace, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.cache[psName]; ok {
		return f, nil
	}

	path, err := p.locate(psName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from a configured, trusted search list
	if err != nil {
		return nil, fmt.Errorf("gfont: reading %s: %w", path, err)
	}

	parsed, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gfont: parsing %s: %w", path, err)
	}

	ff := &object.FontFace{
		Dict:           object.NewDict(4),
		PostScriptName: psName,
		Family:         familyOf(parsed, psName),
		Style:          styleOf(psName),
		Weight:         weightOf(psName),
		Backend:        &face{parsed: parsed, unitsPer: int32(parsed.Upem())},
	}
	p.cache[psName] = ff
	return ff, nil
}

// locate walks the configured search directories looking for a file whose
// base name (case-insensitively, ignoring extension) equals or contains
// psName; the first such file in search order wins.
func (p *Provider) locate(psName string) (string, error) {
	want := strings.ToLower(psName)
	for _, dir := range p.searchDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext != ".ttf" && ext != ".otf" && ext != ".ttc" {
				continue
			}
			stem := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			if stem == want || strings.Contains(stem, want) {
				return filepath.Join(dir, e.Name()), nil
			}
		}
	}
	return "", fmt.Errorf("gfont: no face found for %q in %d search path(s)", psName, len(p.searchDirs))
}

func familyOf(f *gotext.Font, fallback string) string {
	if f == nil {
		return fallback
	}
	if d := f.Description(); d.Family != "" {
		return d.Family
	}
	return fallback
}

func styleOf(psName string) string {
	lower := strings.ToLower(psName)
	switch {
	case strings.Contains(lower, "obliq"), strings.Contains(lower, "italic"):
		return "Italic"
	default:
		return "Normal"
	}
}

func weightOf(psName string) int {
	lower := strings.ToLower(psName)
	if strings.Contains(lower, "bold") {
		return 700
	}
	return 400
}

// Backend returns the parsed go-text font behind a FontFace, used by the
// sink package to shape and extract glyph outlines without gfont and sink
// depending on one another.
func Backend(ff *object.FontFace) (*gotext.Font, int32, bool) {
	if ff == nil {
		return nil, 0, false
	}
	b, ok := ff.Backend.(*face)
	if !ok || b == nil {
		return nil, 0, false
	}
	return b.parsed, b.unitsPer, true
}
