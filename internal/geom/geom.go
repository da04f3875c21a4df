package geom

// Point is a screen coordinate in pixels.
type Point struct {
	X uint16
	Y uint16
}

type Size struct {
	W uint16
	H uint16
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X uint16
	Y uint16
	W uint16
	H uint16
}

func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Contains reports whether p lies inside r. The far edges are excluded.
func (r Rect) Contains(p Point) bool {
	return uint32(p.X) >= uint32(r.X) && uint32(p.X) < uint32(r.X)+uint32(r.W) &&
		uint32(p.Y) >= uint32(r.Y) && uint32(p.Y) < uint32(r.Y)+uint32(r.H)
}

// Corners returns the upper-left and lower-right corners of r. The
// lower-right corner sits one past the last covered pixel and is widened to
// 32 bits so boxes touching the 16-bit edge do not wrap.
func (r Rect) Corners() (ulX, ulY, lrX, lrY uint32) {
	return uint32(r.X), uint32(r.Y), uint32(r.X) + uint32(r.W), uint32(r.Y) + uint32(r.H)
}
