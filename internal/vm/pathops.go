package vm

import (
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/pathmodel"
	"github.com/waavs-go/pslang/perrors"
)

// currentPath returns (creating if absent) the current graphics state's
// path, matching the "newpath creates an empty current path" convention.
func (v *VM) currentPath() *pathmodel.Path {
	st := v.Gfx.Current()
	if st.Path == nil {
		st.Path = pathmodel.New()
	}
	return st.Path
}

// registerPathOps installs the path-construction operators of spec.md §4.7
// plus pathbbox/flattenpath/currentpoint.
func registerPathOps(v *VM) {
	v.def("newpath", func(v *VM) error {
		v.Gfx.Current().Path = pathmodel.New()
		return nil
	})

	v.def("currentpoint", func(v *VM) error {
		x, y, ok := v.currentPath().CurrentPoint()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "currentpoint")
		}
		v.Push(object.NewReal(x))
		v.Push(object.NewReal(y))
		return nil
	})

	v.def("moveto", func(v *VM) error {
		y, err := v.popNumber("moveto")
		if err != nil {
			return err
		}
		x, err := v.popNumber("moveto")
		if err != nil {
			return err
		}
		v.currentPath().MoveTo(v.Gfx.Current().CTM, x, y)
		return nil
	})

	v.def("rmoveto", func(v *VM) error {
		dy, err := v.popNumber("rmoveto")
		if err != nil {
			return err
		}
		dx, err := v.popNumber("rmoveto")
		if err != nil {
			return err
		}
		p := v.currentPath()
		x, y, ok := p.CurrentPoint()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "rmoveto")
		}
		p.MoveTo(v.Gfx.Current().CTM, x+dx, y+dy)
		return nil
	})

	v.def("lineto", func(v *VM) error {
		y, err := v.popNumber("lineto")
		if err != nil {
			return err
		}
		x, err := v.popNumber("lineto")
		if err != nil {
			return err
		}
		if !v.currentPath().LineTo(v.Gfx.Current().CTM, x, y) {
			return perrors.New(perrors.NoCurrentPoint, "lineto")
		}
		return nil
	})

	v.def("rlineto", func(v *VM) error {
		dy, err := v.popNumber("rlineto")
		if err != nil {
			return err
		}
		dx, err := v.popNumber("rlineto")
		if err != nil {
			return err
		}
		p := v.currentPath()
		x, y, ok := p.CurrentPoint()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "rlineto")
		}
		p.LineTo(v.Gfx.Current().CTM, x+dx, y+dy)
		return nil
	})

	v.def("curveto", func(v *VM) error {
		nums, err := v.popNumbers("curveto", 6)
		if err != nil {
			return err
		}
		p := v.currentPath()
		if !p.CurveTo(v.Gfx.Current().CTM, nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]) {
			return perrors.New(perrors.NoCurrentPoint, "curveto")
		}
		return nil
	})

	v.def("rcurveto", func(v *VM) error {
		nums, err := v.popNumbers("rcurveto", 6)
		if err != nil {
			return err
		}
		p := v.currentPath()
		x, y, ok := p.CurrentPoint()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "rcurveto")
		}
		ctm := v.Gfx.Current().CTM
		p.CurveTo(ctm, x+nums[0], y+nums[1], x+nums[2], y+nums[3], x+nums[4], y+nums[5])
		return nil
	})

	v.def("closepath", func(v *VM) error {
		v.currentPath().Close()
		return nil
	})

	v.def("arc", func(v *VM) error {
		nums, err := v.popNumbers("arc", 5)
		if err != nil {
			return err
		}
		v.currentPath().Arc(v.Gfx.Current().CTM, nums[0], nums[1], nums[2], nums[3], nums[4])
		return nil
	})

	v.def("arcn", func(v *VM) error {
		nums, err := v.popNumbers("arcn", 5)
		if err != nil {
			return err
		}
		v.currentPath().ArcN(v.Gfx.Current().CTM, nums[0], nums[1], nums[2], nums[3], nums[4])
		return nil
	})

	v.def("arcto", func(v *VM) error {
		nums, err := v.popNumbers("arcto", 5)
		if err != nil {
			return err
		}
		p := v.currentPath()
		x0, y0, ok := p.CurrentPoint()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "arcto")
		}
		xt1, yt1, xt2, yt2, ok := p.ArcTo(v.Gfx.Current().CTM, x0, y0, nums[0], nums[1], nums[2], nums[3], nums[4])
		if !ok {
			return perrors.New(perrors.UndefinedResult, "arcto")
		}
		v.Push(object.NewReal(xt1))
		v.Push(object.NewReal(yt1))
		v.Push(object.NewReal(xt2))
		v.Push(object.NewReal(yt2))
		return nil
	})

	v.def("rectpath", func(v *VM) error {
		nums, err := v.popNumbers("rectpath", 4)
		if err != nil {
			return err
		}
		v.currentPath().RectPath(v.Gfx.Current().CTM, nums[0], nums[1], nums[2], nums[3])
		return nil
	})

	v.def("flattenpath", func(v *VM) error {
		st := v.Gfx.Current()
		st.Path = v.currentPath().Flatten(st.Flatness)
		return nil
	})

	v.def("pathbbox", func(v *VM) error {
		minX, minY, maxX, maxY, ok := v.currentPath().BoundingBox()
		if !ok {
			return perrors.New(perrors.NoCurrentPoint, "pathbbox")
		}
		v.Push(object.NewReal(minX))
		v.Push(object.NewReal(minY))
		v.Push(object.NewReal(maxX))
		v.Push(object.NewReal(maxY))
		return nil
	})
}

// popNumbers pops n numeric operands, returning them in push order
// (operand n pops last and lands at index 0), matching how the
// moveto-style operators read "x y moveto" as [x, y].
func (v *VM) popNumbers(op string, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		f, err := v.popNumber(op)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
