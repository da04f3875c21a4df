// Package lifecycle keeps the target populations topped up and removes
// targets that have outlived their lifetime.
package lifecycle

import (
	"clapshot/internal/assets"
	"clapshot/internal/devices"
	"clapshot/internal/placement"
	"clapshot/internal/random"
	"clapshot/internal/targets"
)

const (
	HostileBounty  = 50
	BonusBounty    = 100
	FriendlyBounty = 30

	BonusLifetime = 2000
	BonusInterval = 8000
)

type Manager struct {
	Rand     random.Source
	Alloc    *placement.Allocator
	Renderer devices.Renderer

	// LastBonusSpawn is the tick of the most recent bonus spawn.
	LastBonusSpawn uint64
}

func NewManager(src random.Source, alloc *placement.Allocator, rend devices.Renderer) *Manager {
	return &Manager{
		Rand:     src,
		Alloc:    alloc,
		Renderer: rend,
	}
}

// Refill spawns hostile targets, then friendly targets, until both
// collections reach their limits. Each hostile spawn is either a bonus or a
// standard target, never both. The spawned targets are returned in order.
func (m *Manager) Refill(tick uint64, hostile, friendly *targets.Collection) []targets.Target {
	var spawned []targets.Target

	for hostile.Missing() > 0 {
		lifetime := random.Lifetime(m.Rand)
		pos := m.Alloc.Allocate(m.Rand, hostile.View(), friendly.View())

		var t targets.Target
		if m.bonusDue(tick) {
			t = targets.New(pos, m.Alloc.Footprint, BonusBounty, tick, BonusLifetime, assets.Bonus)
			m.LastBonusSpawn = tick
		} else {
			t = targets.New(pos, m.Alloc.Footprint, HostileBounty, tick, lifetime, assets.Hostile)
		}
		m.Renderer.DrawAsset(pos, m.Alloc.Footprint, t.Asset)
		hostile.Append(t)
		spawned = append(spawned, t)
	}

	for friendly.Missing() > 0 {
		lifetime := random.Lifetime(m.Rand)
		pos := m.Alloc.Allocate(m.Rand, hostile.View(), friendly.View())

		t := targets.New(pos, m.Alloc.Footprint, FriendlyBounty, tick, lifetime, assets.Friendly)
		m.Renderer.DrawAsset(pos, m.Alloc.Footprint, t.Asset)
		friendly.Append(t)
		spawned = append(spawned, t)
	}

	return spawned
}

// bonusDue draws the interval jitter and reports whether enough ticks have
// passed since the last bonus spawn.
func (m *Manager) bonusDue(tick uint64) bool {
	interval := BonusInterval + random.BonusJitter(m.Rand)
	return tick >= m.LastBonusSpawn && tick-m.LastBonusSpawn >= interval
}

// Purge removes expired targets from c and clears their screen region.
// Indices are walked from the end so removals never shift an unvisited
// target.
func (m *Manager) Purge(tick uint64, c *targets.Collection) []targets.Target {
	var expired []targets.Target
	for i := c.Len() - 1; i >= 0; i-- {
		if c.At(i).Expired(tick) {
			t := c.RemoveAt(i)
			m.Renderer.ClearRegion(t.Bounds())
			expired = append(expired, t)
		}
	}
	return expired
}
