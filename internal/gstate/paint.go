package gstate

// PaintKind tags Paint's color-space union (spec.md §4.8).
type PaintKind uint8

const (
	Gray PaintKind = iota
	RGB
	CMYK
)

// Paint is a tagged union over the three core color spaces. Components
// are stored in [0,1]; operators clamp on the way in.
type Paint struct {
	Kind PaintKind
	G    float64
	R, B float64
	Gr   float64 // green component (named Gr to avoid clashing with G/gray)
	C, M, Y, K   float64
}

// NewGray returns a gray paint.
func NewGray(g float64) Paint { return Paint{Kind: Gray, G: clamp01(g)} }

// NewRGB returns an RGB paint.
func NewRGB(r, g, b float64) Paint {
	return Paint{Kind: RGB, R: clamp01(r), Gr: clamp01(g), B: clamp01(b)}
}

// NewCMYK returns a CMYK paint.
func NewCMYK(c, m, y, k float64) Paint {
	return Paint{Kind: CMYK, C: clamp01(c), M: clamp01(m), Y: clamp01(y), K: clamp01(k)}
}

// RGBA widens any paint kind to its RGB-plus-alpha-1 representation, for
// handing to a graphics sink that only understands RGB.
func (p Paint) RGBA() (r, g, b float64) {
	switch p.Kind {
	case Gray:
		return p.G, p.G, p.G
	case RGB:
		return p.R, p.Gr, p.B
	case CMYK:
		r = 1 - minF(1, p.C+p.K)
		g = 1 - minF(1, p.M+p.K)
		b = 1 - minF(1, p.Y+p.K)
		return
	default:
		return 0, 0, 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
