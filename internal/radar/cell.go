package radar

import "sync"

// Cell is the single-writer/multi-reader home for the latest RadarSnapshot.
// The producer is the only writer; any number of broadcast sessions read
// concurrently. A sync.RWMutex is the right primitive here the same way the
// teacher's session.Hub reaches for sync.Map over a single lock only when
// contention actually warrants sharding: writes are a single struct
// assignment, reads only need to last long enough to copy out the value
// before the caller serializes it independently of the lock.
type Cell struct {
	mu       sync.RWMutex
	snapshot RadarSnapshot
}

// NewCell creates a Cell initialized to an empty, not-in-game snapshot.
func NewCell() *Cell {
	return &Cell{snapshot: Empty(0, false)}
}

// Get returns a copy of the current snapshot.
func (c *Cell) Get() RadarSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// MoneyRevealEnabled reads just the consumer-owned toggle bit.
func (c *Cell) MoneyRevealEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.MoneyRevealEnabled
}

// ToggleMoneyReveal flips the consumer-owned toggle bit and returns the new
// value. Called from a broadcast session handler.
func (c *Cell) ToggleMoneyReveal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.MoneyRevealEnabled = !c.snapshot.MoneyRevealEnabled
	return c.snapshot.MoneyRevealEnabled
}

// Publish atomically replaces the cell's snapshot. The incoming snapshot's
// MoneyRevealEnabled is ignored in favor of whatever is already in the
// cell, since the consumer (not the producer) owns that bit — invariant 8
// in spec terms: the two converge within one producer iteration because the
// producer read it at the top of the same iteration via MoneyRevealEnabled.
func (c *Cell) Publish(snap RadarSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap.MoneyRevealEnabled = c.snapshot.MoneyRevealEnabled
	c.snapshot = snap
}
