package analytics

import (
	"clapshot/internal/assets"
	"clapshot/internal/events"
	"sync"
)

// Counter accumulates a Tally from a cabinet's events.
type Counter struct {
	mu    sync.Mutex
	tally Tally
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Observe(ev events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &c.tally
	switch ev.Kind {
	case events.Spawn:
		t.Spawns++
	case events.Bonus:
		t.Spawns++
		t.BonusSpawns++
	case events.Hit:
		t.HostileHits++
		if ev.Target.Asset == assets.Bonus {
			t.BonusHits++
		}
		// several hits during one shot count as one accurate shot
		if t.lastHitShot != t.Triggers {
			t.lastHitShot = t.Triggers
			t.accurate++
		}
	case events.Penalty:
		t.FriendlyHits++
	case events.Expire:
		t.Expiries++
	case events.Shot:
		t.Triggers++
	case events.Trigger:
		t.LoudFrames++
	}
	if ev.Score > t.BestScore {
		t.BestScore = ev.Score
	}
	if t.Triggers > 0 {
		t.Accuracy = float64(t.accurate) / float64(t.Triggers) * 100
	}
}

func (c *Counter) Tally() Tally {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tally
}
