package terminal

import (
	"clapshot/internal/assets"
	"clapshot/internal/devices"
	"clapshot/internal/geom"
	"clapshot/internal/utility"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// One terminal cell covers this many engine pixels.
const (
	PixelsPerCol = 6
	PixelsPerRow = 12
)

// Screen implements devices.Renderer on a tcell screen, scaling engine
// pixels down to cells.
type Screen struct {
	mu     sync.Mutex
	tty    tcell.Screen
	assets assets.Manifest
}

func NewScreen(tty tcell.Screen, manifest assets.Manifest) *Screen {
	return &Screen{tty: tty, assets: manifest}
}

// cells maps a pixel rectangle to the half-open cell range it covers.
// Rectangles at least one cell wide and tall that do not overlap in pixels
// never share a cell.
func cells(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(r.X) / PixelsPerCol
	y0 = int(r.Y) / PixelsPerRow
	x1 = (int(r.X) + int(r.W)) / PixelsPerCol
	y1 = (int(r.Y) + int(r.H)) / PixelsPerRow
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	return x0, y0, x1, y1
}

// PointAt converts a cell position back to the pixel at its center.
func PointAt(col, row int) geom.Point {
	return geom.Point{
		X: uint16(col*PixelsPerCol + PixelsPerCol/2),
		Y: uint16(row*PixelsPerRow + PixelsPerRow/2),
	}
}

func (s *Screen) fill(r geom.Rect, ch rune, style tcell.Style) {
	x0, y0, x1, y1 := cells(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			s.tty.SetContent(x, y, ch, nil, style)
		}
	}
}

func (s *Screen) DrawAsset(at geom.Point, size geom.Size, id assets.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.assets.Lookup(id)
	style := tcell.StyleDefault.Background(tcell.GetColor(a.Color)).Foreground(tcell.ColorBlack)
	r := geom.RectAt(at, size)
	s.fill(r, ' ', style)

	x0, y0, x1, y1 := cells(r)
	for i, ch := range a.Glyph {
		s.tty.SetContent(x0+(x1-x0)/2+i, y0+(y1-y0)/2, ch, nil, style)
	}
	s.tty.Show()
}

func (s *Screen) ClearRegion(r geom.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill(r, ' ', tcell.StyleDefault)
	s.tty.Show()
}

func (s *Screen) RenderPixel(at geom.Point, c devices.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	style := tcell.StyleDefault.Background(tcell.GetColor(utility.ColorHex(c)))
	s.fill(geom.Rect{X: at.X, Y: at.Y, W: 1, H: 1}, ' ', style)
	s.tty.Show()
}

// Display is a numeric readout drawn as right-aligned text in its region.
type Display struct {
	screen    *Screen
	origin    geom.Point
	footprint geom.Size
}

// NewDisplays anchors the score readout top-left and the countdown readout
// top-right.
func NewDisplays(s *Screen, screen, footprint geom.Size) (score, countdown *Display) {
	score = &Display{screen: s, footprint: footprint}
	countdown = &Display{
		screen:    s,
		origin:    geom.Point{X: screen.W - footprint.W},
		footprint: footprint,
	}
	return score, countdown
}

func (d *Display) Render(value uint16, c devices.Color) {
	d.screen.mu.Lock()
	defer d.screen.mu.Unlock()

	r := geom.RectAt(d.origin, d.footprint)
	d.screen.fill(r, ' ', tcell.StyleDefault)

	x0, y0, x1, y1 := cells(r)
	text := strconv.Itoa(int(value))
	style := tcell.StyleDefault.Foreground(tcell.GetColor(utility.ColorHex(c))).Bold(true)
	x := max(x1-len(text), x0)
	for i, ch := range text {
		d.screen.tty.SetContent(x+i, y0+(y1-y0)/2, ch, nil, style)
	}
	d.screen.tty.Show()
}

func (d *Display) Size() geom.Size {
	return d.footprint
}
