package gamedata

import (
	"clapshot/internal/audio"
	"clapshot/internal/devices"
	"clapshot/internal/events"
	"clapshot/internal/geom"
	"clapshot/internal/lifecycle"
	"clapshot/internal/placement"
	"clapshot/internal/random"
	"clapshot/internal/scoring"
	"clapshot/internal/targets"
	"context"
	"sync"
	"time"
)

type Config struct {
	Screen        geom.Size
	Footprint     geom.Size
	HostileLimit  int
	FriendlyLimit int
	Countdown     uint16
	Threshold     uint16
}

func DefaultConfig() Config {
	return Config{
		Screen:        geom.Size{W: 480, H: 272},
		Footprint:     geom.Size{W: 50, H: 50},
		HostileLimit:  5,
		FriendlyLimit: 3,
		Countdown:     60,
		Threshold:     audio.DefaultThreshold,
	}
}

// Devices bundles the peripherals a game reads from and draws to.
type Devices struct {
	Clock            devices.TickSource
	Touch            devices.TouchSource
	Mic              audio.Source
	Renderer         devices.Renderer
	ScoreDisplay     devices.DigitDisplay
	CountdownDisplay devices.DigitDisplay
}

type Snapshot struct {
	Tick      uint64           `json:"tick"`
	Score     uint16           `json:"score"`
	Countdown uint16           `json:"countdown"`
	Hostile   []targets.Target `json:"hostile"`
	Friendly  []targets.Target `json:"friendly"`
}

// Game is the whole mutable state of one play session. All exported methods
// lock the game for their full duration, so a step started on one goroutine
// always finishes before a snapshot is taken on another.
type Game struct {
	mu   sync.Mutex
	tick uint64
	loud bool // gate state in the previous frame

	Hostile   *targets.Collection
	Friendly  *targets.Collection
	Lifecycle *lifecycle.Manager
	Tracker   *scoring.Tracker
	Gate      *audio.Gate
	Devices   Devices
	Events    *events.Bus // nil drops all events
	Config    Config
}

func NewGame(cfg Config, dev Devices, src random.Source, bus *events.Bus) *Game {
	alloc := placement.NewAllocator(cfg.Screen, cfg.Footprint, dev.ScoreDisplay.Size())
	return &Game{
		Hostile:   targets.NewCollection(cfg.HostileLimit),
		Friendly:  targets.NewCollection(cfg.FriendlyLimit),
		Lifecycle: lifecycle.NewManager(src, alloc, dev.Renderer),
		Tracker:   scoring.NewTracker(dev.ScoreDisplay, dev.CountdownDisplay, cfg.Countdown),
		Gate:      audio.NewGate(dev.Mic, cfg.Threshold),
		Devices:   dev,
		Events:    bus,
		Config:    cfg,
	}
}

func (g *Game) Init() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Tracker.Init()
}

// Step runs one frame: read the clock and advance the countdown, top up
// both populations, drop expired targets, then resolve shots if the
// microphone fired. The microphone read blocks until a sample is ready.
func (g *Game) Step() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCountdown()
	g.refill()
	g.purge()
	g.processShooting(g.Devices.Touch.Touches())
}

// Run steps the game once per frame until ctx is cancelled. Cancellation is
// only observed between frames.
func (g *Game) Run(ctx context.Context, frame time.Duration) {
	g.Init()
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Step()
		}
	}
}

func (g *Game) UpdateTick(tick uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateTick(tick)
}

func (g *Game) updateTick(tick uint64) {
	if tick > g.tick {
		g.tick = tick
	}
}

func (g *Game) Tick() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

func (g *Game) UpdateCountdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateCountdown()
}

func (g *Game) updateCountdown() {
	g.updateTick(g.Devices.Clock.Ticks())
	if g.Tracker.Advance(g.tick) {
		g.publish(events.Event{Kind: events.Countdown})
	}
}

func (g *Game) Refill() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refill()
}

func (g *Game) refill() {
	hostileBefore := g.Hostile.Len()
	spawned := g.Lifecycle.Refill(g.tick, g.Hostile, g.Friendly)
	for i, t := range spawned {
		kind := events.Spawn
		if t.Bounty == lifecycle.BonusBounty {
			kind = events.Bonus
		}
		friendly := i >= g.Hostile.Len()-hostileBefore
		g.publish(events.Event{Kind: kind, Target: t, Friendly: friendly})
	}
}

func (g *Game) Purge() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.purge()
}

func (g *Game) purge() {
	for _, t := range g.Lifecycle.Purge(g.tick, g.Hostile) {
		g.publish(events.Event{Kind: events.Expire, Target: t})
	}
	for _, t := range g.Lifecycle.Purge(g.tick, g.Friendly) {
		g.publish(events.Event{Kind: events.Expire, Target: t, Friendly: true})
	}
}

// ProcessShooting polls the microphone and, if it fired, removes every
// target under a touch point. Hostile hits add their bounty, friendly hits
// subtract it.
func (g *Game) ProcessShooting(touches []geom.Point) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.processShooting(touches)
}

func (g *Game) processShooting(touches []geom.Point) {
	loud := g.Gate.Triggered()
	rising := loud && !g.loud
	g.loud = loud
	if !loud {
		return
	}
	if rising {
		g.publish(events.Event{Kind: events.Shot})
	}
	g.publish(events.Event{Kind: events.Trigger})

	hits := targets.RemoveHits(g.Hostile, targets.Detect(g.Hostile.View(), touches))
	for _, t := range hits {
		g.Devices.Renderer.ClearRegion(t.Bounds())
		g.Tracker.Reward(t.Bounty)
		g.publish(events.Event{Kind: events.Hit, Target: t})
	}

	hits = targets.RemoveHits(g.Friendly, targets.Detect(g.Friendly.View(), touches))
	for _, t := range hits {
		g.Devices.Renderer.ClearRegion(t.Bounds())
		g.Tracker.Penalize(t.Bounty)
		g.publish(events.Event{Kind: events.Penalty, Target: t, Friendly: true})
	}
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Tick:      g.tick,
		Score:     g.Tracker.Score(),
		Countdown: g.Tracker.Countdown(),
		Hostile:   g.Hostile.All(),
		Friendly:  g.Friendly.All(),
	}
}

func (g *Game) publish(ev events.Event) {
	if g.Events == nil {
		return
	}
	ev.Tick = g.tick
	ev.Score = g.Tracker.Score()
	ev.Countdown = g.Tracker.Countdown()
	g.Events.Publish(ev)
}
