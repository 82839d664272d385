package pathmodel

import (
	"math"
	"testing"

	"github.com/waavs-go/pslang/internal/geom"
)

func TestMoveToCloseReturnsToStart(t *testing.T) {
	p := New()
	ctm := geom.Identity()

	p.MoveTo(ctm, 10, 10)
	p.LineTo(ctm, 100, 10)
	p.LineTo(ctm, 100, 100)
	p.Close()

	x, y, ok := p.CurrentPoint()
	if !ok {
		t.Fatalf("expected current point after close")
	}
	if x != 10 || y != 10 {
		t.Errorf("current point after close = (%v,%v), want (10,10)", x, y)
	}
}

func TestLineToRequiresCurrentPoint(t *testing.T) {
	p := New()
	if p.LineTo(geom.Identity(), 1, 1) {
		t.Errorf("lineto on empty path should fail (nocurrentpoint)")
	}
}

func TestBoundingBoxRectangle(t *testing.T) {
	p := New()
	ctm := geom.Identity()
	p.MoveTo(ctm, 10, 10)
	p.LineTo(ctm, 100, 10)
	p.LineTo(ctm, 100, 100)
	p.Close()

	minX, minY, maxX, maxY, ok := p.BoundingBox()
	if !ok {
		t.Fatalf("expected a bounding box")
	}
	if minX != 10 || minY != 10 || maxX != 100 || maxY != 100 {
		t.Errorf("bbox = (%v,%v,%v,%v), want (10,10,100,100)", minX, minY, maxX, maxY)
	}
}

func TestMoveToBakesInCTMSnapshot(t *testing.T) {
	p := New()
	p.MoveTo(geom.Scaling(2, 2), 5, 5)
	// Changing the CTM afterwards must not retroactively warp the segment.
	p.LineTo(geom.Identity(), 5, 5)

	seg0 := p.Segments[0]
	if seg0.P1.X != 10 || seg0.P1.Y != 10 {
		t.Errorf("moveto segment = %+v, want baked-in (10,10)", seg0.P1)
	}
	seg1 := p.Segments[1]
	if seg1.P1.X != 5 || seg1.P1.Y != 5 {
		t.Errorf("lineto segment = %+v, want (5,5) under identity CTM", seg1.P1)
	}
}

func TestArcFlatteningWithinTolerance(t *testing.T) {
	p := New()
	ctm := geom.Identity()
	const r = 50.0
	p.Arc(ctm, 0, 0, r, 0, 270)

	flat := p.Flatten(0.5)

	cur := Point{r, 0}
	for _, seg := range flat.Segments {
		if seg.Kind != LineTo {
			continue
		}
		// Midpoint of the chord should lie close to the circle of radius r.
		mid := midpoint(cur, seg.P1)
		dist := math.Hypot(mid.X, mid.Y)
		if math.Abs(dist-r) > 1.0 {
			t.Errorf("flattened chord strays too far from arc: |mid|=%v want ~%v", dist, r)
		}
		cur = seg.P1
	}
}

func TestArcToReturnsTangentPoints(t *testing.T) {
	p := New()
	ctm := geom.Identity()
	xt1, yt1, xt2, yt2, ok := p.ArcTo(ctm, 0, 0, 100, 0, 100, 100, 10)
	if !ok {
		t.Fatalf("arcto failed")
	}
	if xt1 <= 0 || xt1 >= 100 {
		t.Errorf("tangent point 1 x=%v out of expected range", xt1)
	}
	if yt1 != 0 {
		t.Errorf("tangent point 1 y=%v, want 0 (on the horizontal leg)", yt1)
	}
	if xt2 != 100 {
		t.Errorf("tangent point 2 x=%v, want 100 (on the vertical leg)", xt2)
	}
	if yt2 <= 0 || yt2 >= 100 {
		t.Errorf("tangent point 2 y=%v out of expected range", yt2)
	}
}
