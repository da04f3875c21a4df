package events

import "clapshot/internal/targets"

type Kind string

const (
	Spawn     = Kind("spawn")
	Bonus     = Kind("bonus")
	Hit       = Kind("hit")
	Penalty   = Kind("penalty")
	Expire    = Kind("expire")
	Countdown = Kind("countdown")
	Trigger   = Kind("trigger") // every frame the gate is loud
	Shot      = Kind("shot")    // the gate went from quiet to loud
)

// Event is a notable change in a running game. Target is the zero value for
// countdown, trigger and shot events.
type Event struct {
	Kind      Kind           `json:"kind"`
	Tick      uint64         `json:"tick"`
	Target    targets.Target `json:"target"`
	Friendly  bool           `json:"friendly,omitempty"`
	Score     uint16         `json:"score"`
	Countdown uint16         `json:"countdown"`
}

type Bus struct {
	Events chan Event
}

func NewBus() *Bus {
	return &Bus{
		Events: make(chan Event, 256),
	}
}

// Publish queues ev without blocking. Events are dropped when nobody keeps
// up with the queue; the game never waits on its listeners.
func (b *Bus) Publish(ev Event) bool {
	select {
	case b.Events <- ev:
		return true
	default:
		return false
	}
}
