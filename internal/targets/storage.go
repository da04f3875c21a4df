package targets

import (
	"clapshot/internal/geom"
	"sort"
)

// Collection holds the live targets of one kind in spawn order.
type Collection struct {
	targets []Target
	limit   int
}

func NewCollection(limit int) *Collection {
	return &Collection{
		targets: make([]Target, 0, limit),
		limit:   limit,
	}
}

func (c *Collection) Len() int {
	return len(c.targets)
}

// Limit is the population the refill step tops the collection up to.
func (c *Collection) Limit() int {
	return c.limit
}

func (c *Collection) Missing() int {
	if n := c.limit - len(c.targets); n > 0 {
		return n
	}
	return 0
}

func (c *Collection) At(i int) Target {
	return c.targets[i]
}

// All returns a copy of the live targets.
func (c *Collection) All() []Target {
	list := make([]Target, len(c.targets))
	copy(list, c.targets)
	return list
}

// View exposes the backing slice for read-only scans within a single step.
func (c *Collection) View() []Target {
	return c.targets
}

func (c *Collection) Append(t Target) {
	c.targets = append(c.targets, t)
}

// RemoveAt deletes the target at i, shifting later targets down by one.
func (c *Collection) RemoveAt(i int) Target {
	t := c.targets[i]
	c.targets = append(c.targets[:i], c.targets[i+1:]...)
	return t
}

func (c *Collection) Clear() {
	c.targets = c.targets[:0]
}

// Detect returns the index of every target containing a touch point, once per
// matching touch. A target under two touches appears twice.
func Detect(targets []Target, touches []geom.Point) []int {
	var indices []int
	for i, t := range targets {
		for _, p := range touches {
			if t.Contains(p) {
				indices = append(indices, i)
			}
		}
	}
	return indices
}

// RemoveHits removes the targets at indices from c, highest index first so
// the remaining indices stay valid. Repeated indices are removed once.
func RemoveHits(c *Collection, indices []int) []Target {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	var removed []Target
	last := -1
	for i := len(sorted) - 1; i >= 0; i-- {
		idx := sorted[i]
		if idx == last || idx < 0 || idx >= c.Len() {
			continue
		}
		removed = append(removed, c.RemoveAt(idx))
		last = idx
	}
	return removed
}
