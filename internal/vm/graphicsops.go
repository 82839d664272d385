package vm

import (
	"github.com/waavs-go/pslang/internal/geom"
	"github.com/waavs-go/pslang/internal/gstate"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/perrors"
)

// registerGraphicsOps installs the graphics-state, matrix, paint, path
// painting, and text operators (spec.md §4.8, §4.9, §6). Operators that
// must reach the external sink (fill/stroke/show/image/...) fail with
// ioerror when no Sink is attached rather than panicking, so headless
// scripts that never touch painting still run to completion.
func registerGraphicsOps(v *VM) {
	registerMatrixOps(v)
	registerPaintOps(v)
	registerPaintingOps(v)
	registerTextOps(v)

	v.def("gsave", func(v *VM) error {
		v.Gfx.Save()
		if v.Sink != nil {
			v.Sink.GSave()
		}
		return nil
	})
	v.def("grestore", func(v *VM) error {
		if !v.Gfx.Restore() {
			return nil
		}
		if v.Sink != nil {
			v.Sink.GRestore()
		}
		return nil
	})

	v.def("setlinewidth", func(v *VM) error {
		w, err := v.popNumber("setlinewidth")
		if err != nil {
			return err
		}
		v.Gfx.Current().LineWidth = w
		return nil
	})
	v.def("currentlinewidth", func(v *VM) error {
		v.Push(object.NewReal(v.Gfx.Current().LineWidth))
		return nil
	})
	v.def("setlinecap", func(v *VM) error {
		c, err := v.popInt("setlinecap")
		if err != nil {
			return err
		}
		v.Gfx.Current().LineCap = gstate.LineCap(c)
		return nil
	})
	v.def("setlinejoin", func(v *VM) error {
		j, err := v.popInt("setlinejoin")
		if err != nil {
			return err
		}
		v.Gfx.Current().LineJoin = gstate.LineJoin(j)
		return nil
	})
	v.def("setmiterlimit", func(v *VM) error {
		m, err := v.popNumber("setmiterlimit")
		if err != nil {
			return err
		}
		v.Gfx.Current().MiterLimit = m
		return nil
	})
	v.def("setflat", func(v *VM) error {
		f, err := v.popNumber("setflat")
		if err != nil {
			return err
		}
		v.Gfx.Current().Flatness = f
		return nil
	})
	v.def("setdash", func(v *VM) error {
		offset, err := v.popNumber("setdash")
		if err != nil {
			return err
		}
		pattern, err := v.popArray("setdash")
		if err != nil {
			return err
		}
		vals := make([]float64, pattern.Length())
		for i := range vals {
			o, _ := pattern.Get(i)
			f, ok := o.AsReal()
			if !ok {
				return perrors.New(perrors.TypeCheck, "setdash")
			}
			vals[i] = f
		}
		st := v.Gfx.Current()
		st.DashPattern = vals
		st.DashOffset = offset
		return nil
	})
}

func registerMatrixOps(v *VM) {
	v.def("matrix", func(v *VM) error {
		v.Push(object.NewMatrix(geom.Identity()))
		return nil
	})
	v.def("currentmatrix", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		if o.Kind != object.MatrixObj {
			return perrors.New(perrors.TypeCheck, "currentmatrix")
		}
		v.Push(object.NewMatrix(v.Gfx.Current().CTM))
		return nil
	})
	v.def("setmatrix", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		if o.Kind != object.MatrixObj {
			return perrors.New(perrors.TypeCheck, "setmatrix")
		}
		v.Gfx.Current().CTM = o.Matrix
		if v.Sink != nil {
			v.Sink.SetCTM(o.Matrix)
		}
		return nil
	})
	v.def("identmatrix", func(v *VM) error {
		o, err := v.Pop()
		if err != nil {
			return err
		}
		if o.Kind != object.MatrixObj {
			return perrors.New(perrors.TypeCheck, "identmatrix")
		}
		v.Push(object.NewMatrix(geom.Identity()))
		return nil
	})
	v.def("invertmatrix", func(v *VM) error {
		_, err := v.Pop() // result matrix operand (unused; we return a fresh one)
		if err != nil {
			return err
		}
		m, err := v.popMatrix("invertmatrix")
		if err != nil {
			return err
		}
		inv, ok := m.Invert()
		if !ok {
			return perrors.New(perrors.UndefinedResult, "invertmatrix")
		}
		v.Push(object.NewMatrix(inv))
		return nil
	})
	v.def("concatmatrix", func(v *VM) error {
		_, err := v.Pop() // result matrix operand
		if err != nil {
			return err
		}
		m2, err := v.popMatrix("concatmatrix")
		if err != nil {
			return err
		}
		m1, err := v.popMatrix("concatmatrix")
		if err != nil {
			return err
		}
		v.Push(object.NewMatrix(m1.Multiply(m2)))
		return nil
	})
	v.def("concat", func(v *VM) error {
		m, err := v.popMatrix("concat")
		if err != nil {
			return err
		}
		st := v.Gfx.Current()
		st.CTM = m.Multiply(st.CTM)
		if v.Sink != nil {
			v.Sink.SetCTM(st.CTM)
		}
		return nil
	})
	v.def("translate", func(v *VM) error { return v.composeCTM("translate", func(ctm geom.Matrix, a, b float64) geom.Matrix { return ctm.Translate(a, b) }) })
	v.def("scale", func(v *VM) error { return v.composeCTM("scale", func(ctm geom.Matrix, a, b float64) geom.Matrix { return ctm.Scale(a, b) }) })
	v.def("rotate", func(v *VM) error {
		angle, err := v.popNumber("rotate")
		if err != nil {
			return err
		}
		st := v.Gfx.Current()
		st.CTM = st.CTM.Rotate(angle)
		if v.Sink != nil {
			v.Sink.SetCTM(st.CTM)
		}
		return nil
	})
	v.def("transform", func(v *VM) error {
		y, err := v.popNumber("transform")
		if err != nil {
			return err
		}
		x, err := v.popNumber("transform")
		if err != nil {
			return err
		}
		tx, ty := v.Gfx.Current().CTM.TransformPoint(x, y)
		v.Push(object.NewReal(tx))
		v.Push(object.NewReal(ty))
		return nil
	})
	v.def("dtransform", func(v *VM) error {
		y, err := v.popNumber("dtransform")
		if err != nil {
			return err
		}
		x, err := v.popNumber("dtransform")
		if err != nil {
			return err
		}
		tx, ty := v.Gfx.Current().CTM.DTransformPoint(x, y)
		v.Push(object.NewReal(tx))
		v.Push(object.NewReal(ty))
		return nil
	})
	v.def("itransform", func(v *VM) error {
		y, err := v.popNumber("itransform")
		if err != nil {
			return err
		}
		x, err := v.popNumber("itransform")
		if err != nil {
			return err
		}
		inv, ok := v.Gfx.Current().CTM.Invert()
		if !ok {
			return perrors.New(perrors.UndefinedResult, "itransform")
		}
		tx, ty := inv.TransformPoint(x, y)
		v.Push(object.NewReal(tx))
		v.Push(object.NewReal(ty))
		return nil
	})
}

func (v *VM) composeCTM(op string, fn func(ctm geom.Matrix, a, b float64) geom.Matrix) error {
	b, err := v.popNumber(op)
	if err != nil {
		return err
	}
	a, err := v.popNumber(op)
	if err != nil {
		return err
	}
	st := v.Gfx.Current()
	st.CTM = fn(st.CTM, a, b)
	if v.Sink != nil {
		v.Sink.SetCTM(st.CTM)
	}
	return nil
}

func (v *VM) popMatrix(op string) (geom.Matrix, error) {
	o, err := v.Pop()
	if err != nil {
		return geom.Matrix{}, err
	}
	if o.Kind != object.MatrixObj {
		return geom.Matrix{}, perrors.New(perrors.TypeCheck, op)
	}
	return o.Matrix, nil
}

func registerPaintOps(v *VM) {
	v.def("setgray", func(v *VM) error {
		g, err := v.popNumber("setgray")
		if err != nil {
			return err
		}
		p := gstate.NewGray(g)
		st := v.Gfx.Current()
		st.FillPaint, st.StrokePaint = p, p
		return nil
	})
	v.def("setrgbcolor", func(v *VM) error {
		nums, err := v.popNumbers("setrgbcolor", 3)
		if err != nil {
			return err
		}
		p := gstate.NewRGB(nums[0], nums[1], nums[2])
		st := v.Gfx.Current()
		st.FillPaint, st.StrokePaint = p, p
		return nil
	})
	v.def("setcmykcolor", func(v *VM) error {
		nums, err := v.popNumbers("setcmykcolor", 4)
		if err != nil {
			return err
		}
		p := gstate.NewCMYK(nums[0], nums[1], nums[2], nums[3])
		st := v.Gfx.Current()
		st.FillPaint, st.StrokePaint = p, p
		return nil
	})
	v.def("currentgray", func(v *VM) error {
		g, _, _ := v.Gfx.Current().FillPaint.RGBA()
		v.Push(object.NewReal(g))
		return nil
	})
	v.def("currentrgbcolor", func(v *VM) error {
		r, g, b := v.Gfx.Current().FillPaint.RGBA()
		v.Push(object.NewReal(r))
		v.Push(object.NewReal(g))
		v.Push(object.NewReal(b))
		return nil
	})
}

func registerPaintingOps(v *VM) {
	needSink := func(op string) error {
		return perrors.New(perrors.IOError, op)
	}

	v.def("fill", func(v *VM) error {
		if v.Sink == nil {
			return needSink("fill")
		}
		st := v.Gfx.Current()
		v.Sink.Fill(st.Path, st.FillPaint, false)
		st.Path = nil
		return nil
	})
	v.def("eofill", func(v *VM) error {
		if v.Sink == nil {
			return needSink("eofill")
		}
		st := v.Gfx.Current()
		v.Sink.Fill(st.Path, st.FillPaint, true)
		st.Path = nil
		return nil
	})
	v.def("stroke", func(v *VM) error {
		if v.Sink == nil {
			return needSink("stroke")
		}
		st := v.Gfx.Current()
		v.Sink.Stroke(st.Path, st)
		st.Path = nil
		return nil
	})
	v.def("clip", func(v *VM) error {
		st := v.Gfx.Current()
		st.Clip = st.Path
		if v.Sink != nil {
			v.Sink.Clip(st.Path, false)
		}
		return nil
	})
	v.def("eoclip", func(v *VM) error {
		st := v.Gfx.Current()
		st.Clip = st.Path
		if v.Sink != nil {
			v.Sink.Clip(st.Path, true)
		}
		return nil
	})
	v.def("initclip", func(v *VM) error {
		v.Gfx.Current().Clip = nil
		if v.Sink != nil {
			v.Sink.InitClip()
		}
		return nil
	})
	v.def("showpage", func(v *VM) error {
		if v.Sink != nil {
			v.Sink.ShowPage()
		}
		return nil
	})
	v.def("erasepage", func(v *VM) error {
		if v.Sink != nil {
			v.Sink.ErasePage()
		}
		return nil
	})

	v.def("image", func(v *VM) error {
		return opImage(v)
	})
}

// opImage reads width height bits-per-component matrix proc (spec.md
// §4.9): it invokes proc repeatedly to collect width*height*bits/8-ish
// bytes of packed sample data, then hands the assembled record to the
// sink.
func opImage(v *VM) error {
	proc, err := v.Pop()
	if err != nil {
		return err
	}
	m, err := v.popMatrix("image")
	if err != nil {
		return err
	}
	bpc, err := v.popInt("image")
	if err != nil {
		return err
	}
	height, err := v.popInt("image")
	if err != nil {
		return err
	}
	width, err := v.popInt("image")
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || bpc <= 0 {
		return perrors.New(perrors.RangeCheck, "image")
	}
	rowBytes := (int(width)*int(bpc) + 7) / 8
	total := rowBytes * int(height)
	data := make([]byte, 0, total)
	for len(data) < total {
		if err := v.ExecuteTop(proc); err != nil {
			return err
		}
		s, err := v.popString("image")
		if err != nil {
			return err
		}
		data = append(data, s.Bytes()...)
	}
	if v.Sink == nil {
		return perrors.New(perrors.IOError, "image")
	}
	v.Sink.Image(ImageRecord{
		Width:       int(width),
		Height:      int(height),
		BitsPerComp: int(bpc),
		Matrix:      m,
		Data:        data,
	}, v.Gfx.Current().FillPaint)
	return nil
}
