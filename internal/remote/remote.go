// Package remote draws a cabinet's screen on connected browsers by sending
// drawing commands through a websocket hub.
package remote

import (
	"clapshot/internal/assets"
	"clapshot/internal/devices"
	"clapshot/internal/gamedata"
	"clapshot/internal/geom"
	"clapshot/internal/utility"
	"clapshot/internal/wshub"
	"encoding/json"
	"log"
)

const (
	SlotScore     = "score"
	SlotCountdown = "countdown"
)

// Renderer implements devices.Renderer for every player on a hub.
type Renderer struct {
	Hub    *wshub.Hub
	Assets assets.Manifest
}

func NewRenderer(hub *wshub.Hub, manifest assets.Manifest) *Renderer {
	return &Renderer{Hub: hub, Assets: manifest}
}

func (r *Renderer) DrawAsset(at geom.Point, size geom.Size, id assets.ID) {
	r.Hub.Broadcast(r.drawMessage(at, size, id))
}

func (r *Renderer) ClearRegion(rect geom.Rect) {
	r.Hub.Broadcast(wshub.ServerMessage{
		Type: "clear",
		X:    int(rect.X),
		Y:    int(rect.Y),
		W:    int(rect.W),
		H:    int(rect.H),
	})
}

func (r *Renderer) RenderPixel(at geom.Point, c devices.Color) {
	r.Hub.Broadcast(wshub.ServerMessage{
		Type:  "pixel",
		X:     int(at.X),
		Y:     int(at.Y),
		Color: utility.ColorHex(c),
	})
}

func (r *Renderer) drawMessage(at geom.Point, size geom.Size, id assets.ID) wshub.ServerMessage {
	a := r.Assets.Lookup(id)
	return wshub.ServerMessage{
		Type:  "draw",
		X:     int(at.X),
		Y:     int(at.Y),
		W:     int(size.W),
		H:     int(size.H),
		Asset: string(id),
		Glyph: a.Glyph,
		Color: a.Color,
	}
}

// Redraw queues the full current screen for a player who just joined.
func (r *Renderer) Redraw(c *wshub.Client, snap gamedata.Snapshot, score, countdown *Display) {
	var msgs []wshub.ServerMessage
	for _, t := range append(snap.Hostile, snap.Friendly...) {
		msgs = append(msgs, r.drawMessage(t.Bounds().Origin(), t.Bounds().Size(), t.Asset))
	}
	msgs = append(msgs,
		score.message(snap.Score, devices.Neutral),
		countdown.message(snap.Countdown, devices.Neutral),
	)

	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			log.Printf("[Remote] Marshal error: %v\n", err)
			return
		}
		select {
		case c.Send <- data:
		default:
			return
		}
	}
}

// Display implements devices.DigitDisplay as a numeric readout on the
// players' screens.
type Display struct {
	Hub       *wshub.Hub
	Slot      string
	Origin    geom.Point
	Footprint geom.Size
}

// NewDisplays returns the score readout anchored top-left and the countdown
// readout anchored top-right of a screen.
func NewDisplays(hub *wshub.Hub, screen, footprint geom.Size) (score, countdown *Display) {
	score = &Display{Hub: hub, Slot: SlotScore, Footprint: footprint}
	countdown = &Display{
		Hub:       hub,
		Slot:      SlotCountdown,
		Origin:    geom.Point{X: screen.W - footprint.W},
		Footprint: footprint,
	}
	return score, countdown
}

func (d *Display) Render(value uint16, c devices.Color) {
	d.Hub.Broadcast(d.message(value, c))
}

func (d *Display) Size() geom.Size {
	return d.Footprint
}

func (d *Display) message(value uint16, c devices.Color) wshub.ServerMessage {
	return wshub.ServerMessage{
		Type:  "digits",
		X:     int(d.Origin.X),
		Y:     int(d.Origin.Y),
		W:     int(d.Footprint.W),
		H:     int(d.Footprint.H),
		Asset: d.Slot,
		Value: int(value),
		Color: utility.ColorHex(c),
	}
}
