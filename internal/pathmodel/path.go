// Package pathmodel implements the current-path container used by the path
// construction operators (spec.md §4.7): a sequence of moveto/lineto/
// curveto/arc/close segments, each carrying the CTM-transformed (device
// space) coordinates baked in at construction time, so later changes to the
// graphics state's CTM never retroactively warp already-built segments.
package pathmodel

import (
	"math"

	"github.com/waavs-go/pslang/internal/geom"
)

// SegmentKind identifies what a Segment represents.
type SegmentKind uint8

const (
	MoveTo SegmentKind = iota
	LineTo
	CurveTo     // cubic Bezier: P1, P2, P3 (P0 is the previous segment's endpoint)
	EllipticArc // pre-flattened cubic chain approximating an SVG-style elliptic arc
	Close
)

// Point is a device-space (post-CTM) coordinate pair.
type Point struct{ X, Y float64 }

// Segment is one element of a Path. All coordinates are already transformed
// through the CTM that was current when the segment was appended.
type Segment struct {
	Kind SegmentKind
	// P1, P2, P3 hold up to three control/end points depending on Kind:
	//   MoveTo/LineTo: P1 is the target point.
	//   CurveTo:       P1, P2, P3 are the Bezier control points and endpoint.
	//   Close:         unused.
	P1, P2, P3 Point
	// Beziers holds the flattened cubic chain for an EllipticArc segment;
	// each inner slice is {c1, c2, end} with the running start point being
	// the previous segment's endpoint.
	Beziers [][3]Point
}

// Path is a sequence of path segments plus current-point tracking. Current
// point bookkeeping is user-space (spec.md's GLOSSARY: "a path-local
// notion, not a graphics-state global").
type Path struct {
	Segments []Segment

	hasCurrent       bool
	curX, curY       float64
	startX, startY   float64
}

// New returns an empty path.
func New() *Path { return &Path{} }

// Clone returns a deep copy sharing no backing storage, used by gsave/
// grestore snapshots.
func (p *Path) Clone() *Path {
	c := &Path{
		Segments:   append([]Segment(nil), p.Segments...),
		hasCurrent: p.hasCurrent,
		curX:       p.curX,
		curY:       p.curY,
		startX:     p.startX,
		startY:     p.startY,
	}
	return c
}

// Reset empties the path and clears the current point.
func (p *Path) Reset() {
	p.Segments = p.Segments[:0]
	p.hasCurrent = false
	p.curX, p.curY = 0, 0
	p.startX, p.startY = 0, 0
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool { return len(p.Segments) == 0 }

// HasCurrentPoint reports whether a current point exists (spec.md's
// invariant: "A path with no moveto has no current point").
func (p *Path) HasCurrentPoint() bool { return p.hasCurrent }

// CurrentPoint returns the current point in user space.
func (p *Path) CurrentPoint() (x, y float64, ok bool) {
	return p.curX, p.curY, p.hasCurrent
}

// MoveTo begins a new subpath at (x,y) in user space, transformed by ctm.
func (p *Path) MoveTo(ctm geom.Matrix, x, y float64) {
	dx, dy := ctm.TransformPoint(x, y)
	p.Segments = append(p.Segments, Segment{Kind: MoveTo, P1: Point{dx, dy}})
	p.curX, p.curY = x, y
	p.startX, p.startY = x, y
	p.hasCurrent = true
}

// LineTo appends a line to (x,y) in user space; requires a current point.
func (p *Path) LineTo(ctm geom.Matrix, x, y float64) bool {
	if !p.hasCurrent {
		return false
	}
	dx, dy := ctm.TransformPoint(x, y)
	p.Segments = append(p.Segments, Segment{Kind: LineTo, P1: Point{dx, dy}})
	p.curX, p.curY = x, y
	return true
}

// CurveTo appends a cubic Bezier curve ending at (x3,y3) in user space;
// requires a current point.
func (p *Path) CurveTo(ctm geom.Matrix, x1, y1, x2, y2, x3, y3 float64) bool {
	if !p.hasCurrent {
		return false
	}
	tx1, ty1 := ctm.TransformPoint(x1, y1)
	tx2, ty2 := ctm.TransformPoint(x2, y2)
	tx3, ty3 := ctm.TransformPoint(x3, y3)
	p.Segments = append(p.Segments, Segment{
		Kind: CurveTo,
		P1:   Point{tx1, ty1},
		P2:   Point{tx2, ty2},
		P3:   Point{tx3, ty3},
	})
	p.curX, p.curY = x3, y3
	return true
}

// Close appends a closepath segment, returning the current point to the
// most recent subpath's start; requires a current point.
func (p *Path) Close() bool {
	if !p.hasCurrent {
		return false
	}
	p.Segments = append(p.Segments, Segment{Kind: Close})
	p.curX, p.curY = p.startX, p.startY
	return true
}

// alpha computes the classic circle-to-cubic-bezier control factor for an
// arc span of dTheta radians: alpha = (4/3)*tan(dTheta/4).
func alpha(dTheta float64) float64 {
	return math.Tan(dTheta/4) * 4.0 / 3.0
}

// arcSegmentBezier returns (without appending it) one CurveTo segment
// approximating the circular arc of center (cx,cy), radius r, from angle t0
// to t1 (radians, both already in the space ctm maps from); it does not
// touch current point bookkeeping, callers do that once for the whole arc.
func arcSegmentBezier(ctm geom.Matrix, cx, cy, r, t0, t1 float64) Segment {
	cos0, sin0 := math.Cos(t0), math.Sin(t0)
	cos1, sin1 := math.Cos(t1), math.Sin(t1)
	a := alpha(t1 - t0)

	x0 := cx + r*cos0
	y0 := cy + r*sin0
	x1 := x0 - r*a*sin0
	y1 := y0 + r*a*cos0
	x3 := cx + r*cos1
	y3 := cy + r*sin1
	x2 := x3 + r*a*sin1
	y2 := y3 - r*a*cos1

	tx1, ty1 := ctm.TransformPoint(x1, y1)
	tx2, ty2 := ctm.TransformPoint(x2, y2)
	tx3, ty3 := ctm.TransformPoint(x3, y3)
	return Segment{Kind: CurveTo, P1: Point{tx1, ty1}, P2: Point{tx2, ty2}, P3: Point{tx3, ty3}}
}

// quarterSteps splits [t0,t1] (radians, same sign direction as t1-t0) into
// chunks no larger than pi/2, per spec.md's "subdivided into quarter-arcs"
// rule.
func quarterSteps(t0, t1 float64) []float64 {
	const quarter = math.Pi / 2
	span := t1 - t0
	if span == 0 {
		return []float64{t0, t1}
	}
	steps := int(math.Ceil(math.Abs(span) / quarter))
	if steps < 1 {
		steps = 1
	}
	angles := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		angles[i] = t0 + span*float64(i)/float64(steps)
	}
	return angles
}

// Arc appends an arc (matching the "arc" operator: degrees, 0 pointing
// along +X) of center (cx,cy), radius r, swept from startDeg to endDeg:
// counterclockwise when endDeg > startDeg, clockwise when it is smaller.
// If there is no current point it behaves like moveto to the arc's start
// (spec.md: "Arc is valid even if there is no currentpoint yet"); otherwise
// a line joins the current point to the arc's start.
func (p *Path) Arc(ctm geom.Matrix, cx, cy, r, startDeg, endDeg float64) {
	p.appendArc(ctm, cx, cy, r, startDeg, endDeg, true)
}

// ArcN appends a clockwise arc (matching the "arcn" operator): endDeg is
// lowered by 360 until it is not above startDeg, then the same bezier
// subdivision as Arc runs from startDeg down to endDeg. Unlike Arc it adds
// no line from an existing current point to the arc's start.
func (p *Path) ArcN(ctm geom.Matrix, cx, cy, r, startDeg, endDeg float64) {
	for endDeg > startDeg {
		endDeg -= 360
	}
	p.appendArc(ctm, cx, cy, r, startDeg, endDeg, false)
}

func (p *Path) appendArc(ctm geom.Matrix, cx, cy, r, startDeg, endDeg float64, connectWithLine bool) {
	t0 := startDeg * math.Pi / 180
	t1 := endDeg * math.Pi / 180

	startX := cx + r*math.Cos(t0)
	startY := cy + r*math.Sin(t0)

	if !p.hasCurrent {
		p.MoveTo(ctm, startX, startY)
	} else if connectWithLine {
		p.LineTo(ctm, startX, startY)
	}

	angles := quarterSteps(t0, t1)
	for i := 0; i < len(angles)-1; i++ {
		p.Segments = append(p.Segments, arcSegmentBezier(ctm, cx, cy, r, angles[i], angles[i+1]))
	}

	endX := cx + r*math.Cos(t1)
	endY := cy + r*math.Sin(t1)
	p.curX, p.curY = endX, endY
	p.hasCurrent = true
}

// ArcTo implements the tangent-line construction from spec.md §4.7:
// computes the two tangent lines from the current point through the
// corner (x1,y1), draws a line to the first tangent point, then an
// elliptic-arc segment (approximated as a flattened cubic chain) to the
// second tangent point. Returns the two tangent points for the operator to
// push back onto the operand stack.
func (p *Path) ArcTo(ctm geom.Matrix, x0, y0, x1, y1, x2, y2, r float64) (xt1, yt1, xt2, yt2 float64, ok bool) {
	dx1, dy1 := x0-x1, y0-y1
	len1 := math.Hypot(dx1, dy1)
	if len1 == 0 {
		return 0, 0, 0, 0, false
	}
	vx1, vy1 := dx1/len1, dy1/len1

	dx2, dy2 := x2-x1, y2-y1
	len2 := math.Hypot(dx2, dy2)
	if len2 == 0 {
		return 0, 0, 0, 0, false
	}
	vx2, vy2 := dx2/len2, dy2/len2

	dot := vx1*vx2 + vy1*vy2
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	theta := math.Acos(dot)
	if theta == 0 {
		return 0, 0, 0, 0, false
	}

	d := r / math.Tan(theta/2)
	xt1 = x1 + vx1*d
	yt1 = y1 + vy1*d
	xt2 = x1 + vx2*d
	yt2 = y1 + vy2*d

	dux1, duy1 := x1-xt1, y1-yt1
	u1len := math.Hypot(dux1, duy1)
	dux2, duy2 := x1-xt2, y1-yt2
	u2len := math.Hypot(dux2, duy2)
	if u1len == 0 || u2len == 0 {
		return 0, 0, 0, 0, false
	}
	ux1, uy1 := dux1/u1len, duy1/u1len
	ux2, uy2 := dux2/u2len, duy2/u2len

	bx, by := ux1+ux2, uy1+uy2
	blen := math.Hypot(bx, by)
	if blen == 0 {
		return 0, 0, 0, 0, false
	}
	bx, by = -bx/blen, -by/blen

	h := r / math.Sin(theta/2)
	cx := x1 + bx*h
	cy := y1 + by*h

	cross := (xt1-cx)*(yt2-cy) - (xt2-cx)*(yt1-cy)
	sweepClockwise := cross < 0

	if !p.hasCurrent {
		p.MoveTo(ctm, x0, y0)
	}
	p.LineTo(ctm, xt1, yt1)
	p.ellipticArcTo(ctm, cx, cy, r, xt1, yt1, xt2, yt2, sweepClockwise)

	return xt1, yt1, xt2, yt2, true
}

// ellipticArcTo appends an EllipticArc segment approximating the circular
// arc of center (cx,cy) and radius r from (sx,sy) to (ex,ey), flattened to
// a cubic chain at construction time (the Open Question in spec.md §9 is
// resolved here in favor of an emitted cubic chain rather than a true
// SVG-style elliptic arc representation; see DESIGN.md).
func (p *Path) ellipticArcTo(ctm geom.Matrix, cx, cy, r, sx, sy, ex, ey float64, clockwise bool) {
	t0 := math.Atan2(sy-cy, sx-cx)
	t1 := math.Atan2(ey-cy, ex-cx)
	if clockwise {
		for t1 > t0 {
			t1 -= 2 * math.Pi
		}
	} else {
		for t1 < t0 {
			t1 += 2 * math.Pi
		}
	}

	angles := quarterSteps(t0, t1)
	seg := Segment{Kind: EllipticArc}
	for i := 0; i < len(angles)-1; i++ {
		bez := arcSegmentBezier(ctm, cx, cy, r, angles[i], angles[i+1])
		seg.Beziers = append(seg.Beziers, [3]Point{bez.P1, bez.P2, bez.P3})
	}
	p.Segments = append(p.Segments, seg)
	p.curX, p.curY = ex, ey
	p.hasCurrent = true
}

// RectPath appends a closed rectangle subpath, equivalent to
// "x y moveto w 0 rlineto 0 h rlineto w neg 0 rlineto closepath".
func (p *Path) RectPath(ctm geom.Matrix, x, y, w, h float64) {
	p.MoveTo(ctm, x, y)
	p.LineTo(ctm, x+w, y)
	p.LineTo(ctm, x+w, y+h)
	p.LineTo(ctm, x, y+h)
	p.Close()
}

// BoundingBox visits every segment's control points (spec.md §4.7): for
// curves and elliptic-arc chains it includes the flattened control points,
// which is a safe (if slightly loose for true circular arcs) superset of
// the tight bound; since arcs are flattened into cubic beziers at
// construction time the usual axis-crossing special case is unnecessary.
func (p *Path) BoundingBox() (minX, minY, maxX, maxY float64, ok bool) {
	include := func(pt Point) {
		if !ok {
			minX, maxX = pt.X, pt.X
			minY, maxY = pt.Y, pt.Y
			ok = true
			return
		}
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	for _, seg := range p.Segments {
		switch seg.Kind {
		case MoveTo, LineTo:
			include(seg.P1)
		case CurveTo:
			include(seg.P1)
			include(seg.P2)
			include(seg.P3)
		case EllipticArc:
			for _, b := range seg.Beziers {
				include(b[0])
				include(b[1])
				include(b[2])
			}
		case Close:
			// no new point
		}
	}
	return
}

// Flatten returns a new path with every CurveTo/EllipticArc segment
// replaced by LineTo segments via recursive subdivision, stopping once the
// maximum perpendicular distance from each control point to the chord is
// within flatness (spec.md §4.7's "flattenpath").
func (p *Path) Flatten(flatness float64) *Path {
	out := New()
	var start Point
	var cur Point
	haveCur := false

	emit := func(pt Point) {
		out.Segments = append(out.Segments, Segment{Kind: LineTo, P1: pt})
		cur = pt
	}

	for _, seg := range p.Segments {
		switch seg.Kind {
		case MoveTo:
			out.Segments = append(out.Segments, seg)
			cur = seg.P1
			start = seg.P1
			haveCur = true
		case LineTo:
			out.Segments = append(out.Segments, seg)
			cur = seg.P1
		case CurveTo:
			if haveCur {
				flattenCubic(cur, seg.P1, seg.P2, seg.P3, flatness, emit)
			}
		case EllipticArc:
			if haveCur {
				for _, b := range seg.Beziers {
					flattenCubic(cur, b[0], b[1], b[2], flatness, emit)
				}
			}
		case Close:
			out.Segments = append(out.Segments, seg)
			cur = start
		}
	}
	out.hasCurrent = p.hasCurrent
	out.curX, out.curY = p.curX, p.curY
	out.startX, out.startY = p.startX, p.startY
	return out
}

// flattenCubic recursively subdivides the cubic Bezier (p0,p1,p2,p3) until
// the maximum perpendicular distance from p1/p2 to the chord p0-p3 is
// within flatness, emitting LineTo endpoints via emit.
func flattenCubic(p0, p1, p2, p3 Point, flatness float64, emit func(Point)) {
	if cubicFlatEnough(p0, p1, p2, p3, flatness) {
		emit(p3)
		return
	}
	l0, l1, l2, l3, r0, r1, r2, r3 := splitCubic(p0, p1, p2, p3)
	flattenCubic(l0, l1, l2, l3, flatness, emit)
	flattenCubic(r0, r1, r2, r3, flatness, emit)
}

func cubicFlatEnough(p0, p1, p2, p3 Point, flatness float64) bool {
	return pointLineDistance(p1, p0, p3) <= flatness && pointLineDistance(p2, p0, p3) <= flatness
}

func pointLineDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	// |cross product| / |chord length|
	cross := (p.X-a.X)*dy - (p.Y-a.Y)*dx
	return math.Abs(cross) / length
}

func midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// splitCubic performs De Casteljau subdivision at t=0.5, returning the left
// and right halves' four control points each.
func splitCubic(p0, p1, p2, p3 Point) (l0, l1, l2, l3, r0, r1, r2, r3 Point) {
	p01 := midpoint(p0, p1)
	p12 := midpoint(p1, p2)
	p23 := midpoint(p2, p3)
	p012 := midpoint(p01, p12)
	p123 := midpoint(p12, p23)
	p0123 := midpoint(p012, p123)

	return p0, p01, p012, p0123, p0123, p123, p23, p3
}
