package vm

import (
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/gstate"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/pathmodel"
)

// ImageRecord carries the decoded operands of the "image" operator to the
// sink (spec.md §4.9/§6).
type ImageRecord struct {
	Width, Height int
	BitsPerComp   int
	Matrix        geom.Matrix // image space -> user space
	Data          []byte      // packed samples, row-major, BitsPerComp-wide
}

// Sink is the external graphics collaborator (spec.md §6): the core never
// rasterizes or draws glyphs itself, it only calls these methods with
// already-built paths/paints/transforms. A headless VM (tests, `=`-only
// scripts) runs with Sink == nil; operators that need one check first and
// fail with ioerror if absent, never panic.
type Sink interface {
	GSave()
	GRestore()

	SetCTM(m geom.Matrix)

	NewPath()
	Fill(p *pathmodel.Path, paint gstate.Paint, evenOdd bool)
	Stroke(p *pathmodel.Path, st *gstate.State)
	Clip(p *pathmodel.Path, evenOdd bool)
	InitClip()

	Image(rec ImageRecord, paint gstate.Paint)

	SetFont(f *object.Font)
	ShowText(st *gstate.State, text []byte) (advanceX, advanceY float64, err error)
	GetStringWidth(st *gstate.State, text []byte) (advanceX, advanceY float64, err error)
	GetGlyphPath(st *gstate.State, text []byte) (*pathmodel.Path, error)

	ShowPage()
	ErasePage()
}
