package targets

import (
	"clapshot/internal/assets"
	"clapshot/internal/geom"
)

type Target struct {
	X        uint16    `json:"x"`
	Y        uint16    `json:"y"`
	Width    uint16    `json:"w"`
	Height   uint16    `json:"h"`
	Bounty   uint16    `json:"bounty"`
	Birthday uint64    `json:"birthday"`
	Lifetime uint64    `json:"lifetime"`
	Asset    assets.ID `json:"asset"`
}

func New(at geom.Point, size geom.Size, bounty uint16, birthday, lifetime uint64, asset assets.ID) Target {
	return Target{
		X:        at.X,
		Y:        at.Y,
		Width:    size.W,
		Height:   size.H,
		Bounty:   bounty,
		Birthday: birthday,
		Lifetime: lifetime,
		Asset:    asset,
	}
}

func (t Target) Bounds() geom.Rect {
	return geom.Rect{X: t.X, Y: t.Y, W: t.Width, H: t.Height}
}

// Expired reports whether the target has outlived its lifetime at tick.
// A target born after tick is never expired.
func (t Target) Expired(tick uint64) bool {
	return tick >= t.Birthday && tick-t.Birthday > t.Lifetime
}

func (t Target) Contains(p geom.Point) bool {
	return t.Bounds().Contains(p)
}
