package terminal

import (
	"clapshot/internal/analytics"
	"clapshot/internal/assets"
	"clapshot/internal/audio"
	"clapshot/internal/devices"
	"clapshot/internal/events"
	"clapshot/internal/gamedata"
	"clapshot/internal/geom"
	"clapshot/internal/random"
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
)

const help = "click: touch   space: clap   q: quit"

type Options struct {
	Game   gamedata.Config
	Seed   uint32 // 0 draws a fresh seed
	Assets assets.Manifest
	MicWAV string // optional recording mixed under the space-bar clap
}

// Cabinet is a single local game played in a terminal.
type Cabinet struct {
	Game    *gamedata.Game
	Screen  *Screen
	Touches *devices.TouchQueue
	Clapper *audio.Clapper
	Tally   *analytics.Counter
	Seed    uint32

	tty tcell.Screen
	mic *audio.StreamSource
}

// NewCabinet wires a game to an initialised tcell screen.
func NewCabinet(tty tcell.Screen, opts Options) (*Cabinet, error) {
	if opts.Assets == nil {
		opts.Assets = assets.Default()
	}
	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint32()
	}

	clapper := audio.NewClapper(audio.ClapFrames)
	mic := audio.NewStreamSource(clapper)
	if opts.MicWAV != "" {
		var err error
		mic, err = audio.OpenWAV(opts.MicWAV, clapper)
		if err != nil {
			return nil, fmt.Errorf("opening microphone recording: %w", err)
		}
	}

	screen := NewScreen(tty, opts.Assets)
	score, countdown := NewDisplays(screen, opts.Game.Screen, geom.Size{W: 100, H: 40})
	touches := devices.NewTouchQueue()

	game := gamedata.NewGame(opts.Game, gamedata.Devices{
		Clock:            devices.NewClock(),
		Touch:            touches,
		Mic:              mic,
		Renderer:         screen,
		ScoreDisplay:     score,
		CountdownDisplay: countdown,
	}, random.NewMT(seed), events.NewBus())

	return &Cabinet{
		Game:    game,
		Screen:  screen,
		Touches: touches,
		Clapper: clapper,
		Tally:   analytics.NewCounter(),
		Seed:    seed,
		tty:     tty,
		mic:     mic,
	}, nil
}

// HandleEvent applies one terminal event and reports whether the player
// asked to quit.
func (c *Cabinet) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				c.Clapper.Clap()
			case 'q', 'Q':
				return true
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			c.Touches.Push(PointAt(ev.Position()))
		}
	case *tcell.EventResize:
		c.tty.Sync()
	case *tcell.EventInterrupt:
		return true
	}
	return false
}

func (c *Cabinet) drawHelp() {
	row := int(c.Game.Config.Screen.H)/PixelsPerRow + 1
	for i, ch := range help {
		c.tty.SetContent(i, row, ch, nil, tcell.StyleDefault.Dim(true))
	}
	c.tty.Show()
}

// drain feeds the tally until ctx ends.
func (c *Cabinet) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.Game.Events.Events:
			c.Tally.Observe(ev)
			if ev.Kind == events.Hit || ev.Kind == events.Penalty {
				log.Printf("[Term] %s %s at tick %d, score %d\n", ev.Kind, ev.Target.Asset, ev.Tick, ev.Score)
			}
		}
	}
}

// Run plays until the player quits or ctx is cancelled.
func (c *Cabinet) Run(ctx context.Context, frame time.Duration) {
	defer c.mic.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.tty.EnableMouse()
	c.tty.Clear()
	c.drawHelp()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Game.Run(ctx, frame)
	}()
	go c.drain(ctx)
	go func() {
		<-ctx.Done()
		c.tty.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	log.Printf("[Term] cabinet started (seed %d)\n", c.Seed)
	for {
		ev := c.tty.PollEvent()
		if ev == nil || c.HandleEvent(ev) {
			break
		}
	}
	cancel()
	<-done
}
