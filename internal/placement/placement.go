// Package placement picks spawn positions for new targets.
package placement

import (
	"clapshot/internal/geom"
	"clapshot/internal/random"
	"clapshot/internal/targets"
)

// Allocator places fixed-size targets on the screen away from the two digit
// readouts and from each other.
type Allocator struct {
	Screen    geom.Size
	Footprint geom.Size
	// Reserved holds the score readout (top-left) and the countdown readout
	// (top-right).
	Reserved [2]geom.Rect
}

func NewAllocator(screen, footprint, digits geom.Size) *Allocator {
	var countdownX uint16
	if digits.W < screen.W {
		countdownX = screen.W - digits.W
	}
	return &Allocator{
		Screen:    screen,
		Footprint: footprint,
		Reserved: [2]geom.Rect{
			{X: 0, Y: 0, W: digits.W, H: digits.H},
			{X: countdownX, Y: 0, W: digits.W, H: digits.H},
		},
	}
}

// Candidate draws a top-left position that keeps the footprint on screen.
// A footprint as large as the screen always lands at the origin on that axis.
func (a *Allocator) Candidate(src random.Source) geom.Point {
	spanX := span(a.Screen.W, a.Footprint.W)
	spanY := span(a.Screen.H, a.Footprint.H)
	return geom.Point{
		X: uint16(src.Uint32() % spanX),
		Y: uint16(src.Uint32() % spanY),
	}
}

func span(screen, footprint uint16) uint32 {
	if footprint >= screen {
		return 1
	}
	return uint32(screen) - uint32(footprint)
}

// Allocate draws candidates until one is acceptable. There is no retry
// limit: on a screen with no free spot this never returns.
func (a *Allocator) Allocate(src random.Source, hostile, friendly []targets.Target) geom.Point {
	pos := a.Candidate(src)
	for !a.Acceptable(pos, hostile, friendly) {
		pos = a.Candidate(src)
	}
	return pos
}

// Acceptable reports whether a target at pos clears the readouts and every
// existing target. Only the top-left corner is checked against the score
// readout and only the top-right corner against the countdown readout.
func (a *Allocator) Acceptable(pos geom.Point, hostile, friendly []targets.Target) bool {
	x, y := uint32(pos.X), uint32(pos.Y)
	if within(x, y, a.Reserved[0]) || within(x+uint32(a.Footprint.W), y, a.Reserved[1]) {
		return false
	}
	for _, t := range hostile {
		if a.Overlapping(t, pos) {
			return false
		}
	}
	for _, t := range friendly {
		if a.Overlapping(t, pos) {
			return false
		}
	}
	return true
}

// Overlapping reports whether any corner of a footprint placed at pos falls
// inside t, edges included. Shapes that cross without either one holding a
// corner of the candidate are not reported.
func (a *Allocator) Overlapping(t targets.Target, pos geom.Point) bool {
	box := t.Bounds()
	x1, y1 := uint32(pos.X), uint32(pos.Y)
	x2 := x1 + uint32(a.Footprint.W)
	y2 := y1 + uint32(a.Footprint.H)

	return within(x1, y1, box) ||
		within(x2, y2, box) ||
		within(x1, y2, box) ||
		within(x2, y1, box)
}

func within(x, y uint32, r geom.Rect) bool {
	ulX, ulY, lrX, lrY := r.Corners()
	return x >= ulX && x <= lrX && y >= ulY && y <= lrY
}
