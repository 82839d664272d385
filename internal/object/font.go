package object

import "github.com/waavs-go/pslang/internal/geom"

// FontFace is a shared dictionary plus an opaque backend handle (spec.md
// §3, §6's font discovery collaborator). The backend handle is produced by
// package gfont and carried here as an any to avoid object depending on
// gfont (gfont depends on object for the Object/FontFace types it
// populates).
type FontFace struct {
	Dict           *Dict
	PostScriptName string
	Family         string
	Style          string
	Weight         int
	Stretch        string
	Backend        any
}

// Font is a FontFace sized/instantiated at a particular matrix (the result
// of "scalefont"/"makefont").
type Font struct {
	Face    *FontFace
	Matrix  geom.Matrix
	Backend any
}
