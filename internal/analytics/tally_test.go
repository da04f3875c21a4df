package analytics

import (
	"clapshot/internal/assets"
	"clapshot/internal/events"
	"clapshot/internal/targets"
	"testing"
)

func TestCounter_Empty(t *testing.T) {
	c := NewCounter()
	tally := c.Tally()
	if tally.Triggers != 0 || tally.Accuracy != 0 {
		t.Errorf("empty tally = %+v", tally)
	}
}

func TestCounter_Spawns(t *testing.T) {
	c := NewCounter()
	c.Observe(events.Event{Kind: events.Spawn})
	c.Observe(events.Event{Kind: events.Spawn})
	c.Observe(events.Event{Kind: events.Bonus})

	tally := c.Tally()
	if tally.Spawns != 3 || tally.BonusSpawns != 1 {
		t.Errorf("spawns = %d, bonus = %d; want 3, 1", tally.Spawns, tally.BonusSpawns)
	}
}

func TestCounter_Accuracy(t *testing.T) {
	c := NewCounter()

	// shot 1: two hostile hits, one of them a bonus
	c.Observe(events.Event{Kind: events.Shot})
	c.Observe(events.Event{Kind: events.Trigger})
	c.Observe(events.Event{Kind: events.Hit, Score: 50, Target: targets.Target{Asset: assets.Hostile}})
	c.Observe(events.Event{Kind: events.Hit, Score: 150, Target: targets.Target{Asset: assets.Bonus}})
	// shot 2: miss
	c.Observe(events.Event{Kind: events.Shot, Score: 150})
	c.Observe(events.Event{Kind: events.Trigger, Score: 150})
	// shot 3: friendly hit only
	c.Observe(events.Event{Kind: events.Shot, Score: 150})
	c.Observe(events.Event{Kind: events.Trigger, Score: 150})
	c.Observe(events.Event{Kind: events.Penalty, Score: 120})
	// shot 4: hostile hit
	c.Observe(events.Event{Kind: events.Shot, Score: 120})
	c.Observe(events.Event{Kind: events.Trigger, Score: 120})
	c.Observe(events.Event{Kind: events.Hit, Score: 170, Target: targets.Target{Asset: assets.Hostile}})

	tally := c.Tally()
	if tally.Triggers != 4 {
		t.Errorf("Triggers = %d, want 4", tally.Triggers)
	}
	if tally.HostileHits != 3 || tally.BonusHits != 1 || tally.FriendlyHits != 1 {
		t.Errorf("hits = %d/%d/%d, want 3/1/1", tally.HostileHits, tally.BonusHits, tally.FriendlyHits)
	}
	if tally.Accuracy != 50 {
		t.Errorf("Accuracy = %v, want 50", tally.Accuracy)
	}
	if tally.BestScore != 170 {
		t.Errorf("BestScore = %d, want 170", tally.BestScore)
	}
}

func TestCounter_Expiries(t *testing.T) {
	c := NewCounter()
	c.Observe(events.Event{Kind: events.Expire})
	c.Observe(events.Event{Kind: events.Countdown})
	if c.Tally().Expiries != 1 {
		t.Errorf("Expiries = %d, want 1", c.Tally().Expiries)
	}
}

// A clap stays loud for several frames; only the first frame is a new shot.
func TestCounter_LongShotCountsOnce(t *testing.T) {
	c := NewCounter()
	c.Observe(events.Event{Kind: events.Shot})
	c.Observe(events.Event{Kind: events.Trigger})
	c.Observe(events.Event{Kind: events.Hit, Score: 50, Target: targets.Target{Asset: assets.Hostile}})
	c.Observe(events.Event{Kind: events.Trigger, Score: 50})
	c.Observe(events.Event{Kind: events.Trigger, Score: 50})
	c.Observe(events.Event{Kind: events.Trigger, Score: 50})

	tally := c.Tally()
	if tally.Triggers != 1 {
		t.Errorf("Triggers = %d, want 1", tally.Triggers)
	}
	if tally.LoudFrames != 4 {
		t.Errorf("LoudFrames = %d, want 4", tally.LoudFrames)
	}
	if tally.Accuracy != 100 {
		t.Errorf("Accuracy = %v, want 100", tally.Accuracy)
	}
}
