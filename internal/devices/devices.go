// Package devices declares the peripherals the engine talks to. Hosts supply
// the implementations: a browser over websocket, a terminal, or fakes in
// tests.
package devices

import (
	"clapshot/internal/assets"
	"clapshot/internal/geom"
	"sync"
	"time"
)

// Color is a 16-bit ARGB1555 value.
type Color uint16

const (
	Neutral = Color(0x8000)
	Green   = Color(0x83E0)
	Red     = Color(0xFC00)
	White   = Color(0xFFFF)
)

// TickSource reports elapsed milliseconds. Values never decrease.
type TickSource interface {
	Ticks() uint64
}

// TouchSource returns the touch points of the current frame, or none.
type TouchSource interface {
	Touches() []geom.Point
}

// Renderer is a fire-and-forget drawing sink.
type Renderer interface {
	DrawAsset(at geom.Point, size geom.Size, id assets.ID)
	ClearRegion(r geom.Rect)
	RenderPixel(at geom.Point, c Color)
}

// DigitDisplay shows a numeric readout in a fixed screen corner.
type DigitDisplay interface {
	Render(value uint16, c Color)
	Size() geom.Size
}

// Clock is a TickSource backed by the wall clock.
type Clock struct {
	start time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) Ticks() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// MaxPendingTouches bounds a TouchQueue between two frames; later touches
// are dropped until the next drain.
const MaxPendingTouches = 64

// TouchQueue collects touches pushed by a host between frames.
type TouchQueue struct {
	mu      sync.Mutex
	pending []geom.Point
}

func NewTouchQueue() *TouchQueue {
	return &TouchQueue{}
}

// Push queues p and reports whether there was room for it.
func (q *TouchQueue) Push(p geom.Point) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) >= MaxPendingTouches {
		return false
	}
	q.pending = append(q.pending, p)
	return true
}

// Touches drains and returns everything pushed since the previous call.
func (q *TouchQueue) Touches() []geom.Point {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.pending
	q.pending = nil
	return batch
}

// Nop discards all drawing.
type Nop struct {
	Footprint geom.Size
}

func (Nop) DrawAsset(geom.Point, geom.Size, assets.ID) {}
func (Nop) ClearRegion(geom.Rect)                      {}
func (Nop) RenderPixel(geom.Point, Color)              {}
func (Nop) Render(uint16, Color)                       {}
func (n Nop) Size() geom.Size                          { return n.Footprint }
