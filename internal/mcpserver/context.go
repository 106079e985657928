package mcpserver

import (
	"sync"

	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/types"
)

// WorldContext is the tool context cmd/simulate installs via
// Server.SetContext: a thread-safe view of the latest World snapshot
// plus a bounded ring of recently emitted events, so MCP tool calls
// never race the tick loop's own goroutine.
type WorldContext struct {
	mu          sync.RWMutex
	world       types.World
	recent      []event.Event
	recentLimit int
}

// NewWorldContext returns a context retaining up to recentLimit events.
func NewWorldContext(recentLimit int) *WorldContext {
	if recentLimit <= 0 {
		recentLimit = 100
	}
	return &WorldContext{recentLimit: recentLimit}
}

// SetWorld replaces the current world snapshot.
func (c *WorldContext) SetWorld(w types.World) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.world = w
}

// World returns the current world snapshot.
func (c *WorldContext) World() types.World {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.world
}

// RecordEvent appends ev to the recent-event ring, trimming the oldest
// entries once recentLimit is exceeded.
func (c *WorldContext) RecordEvent(ev event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recent = append(c.recent, ev)
	if len(c.recent) > c.recentLimit {
		c.recent = c.recent[len(c.recent)-c.recentLimit:]
	}
}

// RecentEvents returns up to n of the most recently recorded events,
// newest last.
func (c *WorldContext) RecentEvents(n int) []event.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n <= 0 || n > len(c.recent) {
		n = len(c.recent)
	}
	out := make([]event.Event, n)
	copy(out, c.recent[len(c.recent)-n:])
	return out
}

// Write implements event.Sink, letting cmd/simulate register the
// context directly on the event bus to keep RecentEvents current.
func (c *WorldContext) Write(ev event.Event) error {
	c.RecordEvent(ev)
	return nil
}

// Close implements event.Sink; the context owns no resources to release.
func (c *WorldContext) Close() error { return nil }
