package rooms

import (
	"clapshot/internal/analytics"
	"clapshot/internal/audio"
	"clapshot/internal/broadcast"
	"clapshot/internal/devices"
	"clapshot/internal/gamedata"
	"clapshot/internal/geom"
	"clapshot/internal/remote"
	"clapshot/internal/wshub"
	"context"
	"math"
	"time"
)

// Room is one running cabinet: a game, the devices feeding it and the
// channels watching it.
type Room struct {
	Code        string
	SessionID   string
	Seed        uint32
	Game        *gamedata.Game
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	Renderer    *remote.Renderer
	Score       *remote.Display
	Countdown   *remote.Display
	Touches     *devices.TouchQueue
	Clapper     *audio.Clapper
	Tally       *analytics.Counter
	CreatedAt   time.Time
	HostID      string

	cancel context.CancelFunc
	done   chan struct{}
}

// HandleInput feeds a player message into the cabinet's devices. Input to a
// closed cabinet is ignored.
func (r *Room) HandleInput(msg wshub.ClientMessage) {
	select {
	case <-r.done:
		return
	default:
	}
	switch msg.Type {
	case "touch":
		r.touch(msg.X, msg.Y)
	case "clap":
		r.Clapper.Clap()
	case "shoot":
		// clap first so the burst is already loud when the touch lands
		r.Clapper.Clap()
		r.touch(msg.X, msg.Y)
	}
}

func (r *Room) touch(x, y int) {
	if x < 0 || y < 0 || x > math.MaxUint16 || y > math.MaxUint16 {
		return
	}
	r.Touches.Push(geom.Point{X: uint16(x), Y: uint16(y)})
}

// Join registers a player and queues the current screen for them.
func (r *Room) Join(c *wshub.Client) {
	r.Hub.Register(c)
	r.Renderer.Redraw(c, r.Game.Snapshot(), r.Score, r.Countdown)
}

// Done is closed once the game loop and the event dispatcher have stopped.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) stop() {
	r.cancel()
	<-r.done
}
