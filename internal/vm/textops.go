package vm

import (
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
	"github.com/waavs-go/pslang/internal/resource"
)

// FontProvider is the font-discovery collaborator of spec.md §6: given a
// PostScript face name it returns a FontFace (metadata plus an opaque
// backend handle the Sink understands); VMs built without one (tests,
// non-text scripts) still run, and findfont then fails with
// invalidfileaccess for any name not already in the Font resource category.
type FontProvider interface {
	FindFace(psName string) (*object.FontFace, error)
}

// SetFontProvider attaches the face-name resolution collaborator.
func (v *VM) SetFontProvider(p FontProvider) { v.fonts = p }

func registerTextOps(v *VM) {
	v.def("findfont", func(v *VM) error { return opFindFont(v) })

	v.def("scalefont", func(v *VM) error {
		scale, err := v.popNumber("scalefont")
		if err != nil {
			return err
		}
		fontObj, err := v.Pop()
		if err != nil {
			return err
		}
		if fontObj.Kind != object.FontFaceObj && fontObj.Kind != object.FontObj {
			return perrors.New(perrors.TypeCheck, "scalefont")
		}
		face := faceOf(fontObj)
		v.Push(object.Object{Kind: object.FontObj, Font: &object.Font{
			Face:   face,
			Matrix: geom.Scaling(scale, scale),
		}})
		return nil
	})

	v.def("makefont", func(v *VM) error {
		m, err := v.popMatrix("makefont")
		if err != nil {
			return err
		}
		fontObj, err := v.Pop()
		if err != nil {
			return err
		}
		if fontObj.Kind != object.FontFaceObj && fontObj.Kind != object.FontObj {
			return perrors.New(perrors.TypeCheck, "makefont")
		}
		v.Push(object.Object{Kind: object.FontObj, Font: &object.Font{Face: faceOf(fontObj), Matrix: m}})
		return nil
	})

	v.def("setfont", func(v *VM) error {
		fontObj, err := v.Pop()
		if err != nil {
			return err
		}
		var f *object.Font
		switch fontObj.Kind {
		case object.FontObj:
			f = fontObj.Font
		case object.FontFaceObj:
			f = &object.Font{Face: fontObj.Face, Matrix: geom.Identity()}
		default:
			return perrors.New(perrors.TypeCheck, "setfont")
		}
		v.Gfx.Current().Font = f
		if v.Sink != nil {
			v.Sink.SetFont(f)
		}
		return nil
	})

	v.def("currentfont", func(v *VM) error {
		f := v.Gfx.Current().Font
		if f == nil {
			return perrors.New(perrors.Undefined, "currentfont")
		}
		v.Push(object.Object{Kind: object.FontObj, Font: f})
		return nil
	})

	v.def("show", func(v *VM) error {
		s, err := v.popString("show")
		if err != nil {
			return err
		}
		return v.showText(s.Bytes())
	})

	v.def("stringwidth", func(v *VM) error {
		s, err := v.popString("stringwidth")
		if err != nil {
			return err
		}
		if v.Sink == nil {
			return perrors.New(perrors.IOError, "stringwidth")
		}
		dx, dy, err := v.Sink.GetStringWidth(v.Gfx.Current(), s.Bytes())
		if err != nil {
			return err
		}
		v.Push(object.NewReal(dx))
		v.Push(object.NewReal(dy))
		return nil
	})

	v.def("charpath", func(v *VM) error {
		_, err := v.popBool("charpath") // stroke/fill-path flag, unused by this core's flattened-path model
		if err != nil {
			return err
		}
		s, err := v.popString("charpath")
		if err != nil {
			return err
		}
		if v.Sink == nil {
			return perrors.New(perrors.IOError, "charpath")
		}
		glyphPath, err := v.Sink.GetGlyphPath(v.Gfx.Current(), s.Bytes())
		if err != nil {
			return err
		}
		cur := v.currentPath()
		cur.Segments = append(cur.Segments, glyphPath.Segments...)
		return nil
	})
}

func faceOf(o object.Object) *object.FontFace {
	if o.Kind == object.FontObj {
		return o.Font.Face
	}
	return o.Face
}

// showText renders text at the current point via the sink, then advances
// the current point by the string's advance width (spec.md §4.9's "show"
// contract).
func (v *VM) showText(text []byte) error {
	if v.Sink == nil {
		return perrors.New(perrors.IOError, "show")
	}
	st := v.Gfx.Current()
	p := v.currentPath()
	x, y, ok := p.CurrentPoint()
	if !ok {
		return perrors.New(perrors.NoCurrentPoint, "show")
	}
	dx, dy, err := v.Sink.ShowText(st, text)
	if err != nil {
		return err
	}
	p.MoveTo(st.CTM, x+dx, y+dy)
	return nil
}

// opFindFont resolves a PostScript face name to a FontFace object (spec.md
// §4.10's resource subsystem doubles as the font cache: a face found once
// via the FontProvider is cached under the "Font" resource category).
func opFindFont(v *VM) error {
	key, err := v.popName("findfont")
	if err != nil {
		return err
	}
	if face, err := v.Resources.FindResource(resource.Font, key.Nm); err == nil {
		v.Push(face)
		return nil
	}
	if v.fonts == nil {
		return perrors.New(perrors.InvalidFileAccess, "findfont")
	}
	face, err := v.fonts.FindFace(key.Nm.String())
	if err != nil {
		return perrors.Newf(perrors.InvalidFileAccess, "findfont", "%s", err.Error())
	}
	faceObj := object.Object{Kind: object.FontFaceObj, Face: face}
	v.Resources.DefineResource(resource.Font, key.Nm, faceObj)
	v.Push(faceObj)
	return nil
}
