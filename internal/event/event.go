// Package event defines the emberworld tick-by-tick event stream
// (spec §6) and a non-blocking publisher, generalized from the
// teacher's internal/journal (Entry/EntryType, JSONL append-file
// sink) into a typed, multi-sink event bus whose buffered channel
// decouples the simulation core from sink I/O while emitting.
package event

import (
	"time"

	"github.com/vthunder/emberworld/internal/logging"
)

// Type identifies one of the six event kinds the core can emit.
type Type string

const (
	SimulationStart Type = "SIMULATION_START"
	TickStart       Type = "TICK_START"
	EntityUpdate    Type = "ENTITY_UPDATE"
	ActionExecution Type = "ACTION_EXECUTION"
	TickEnd         Type = "TICK_END"
	SimulationEnd   Type = "SIMULATION_END"
)

// EntityKind distinguishes NPC from Object entities in ENTITY_UPDATE events.
type EntityKind string

const (
	EntityNPC    EntityKind = "NPC"
	EntityObject EntityKind = "Object"
)

// Vec2 is the wire representation of a 2-D position.
type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// DriveValue is the wire representation of one drive level.
type DriveValue struct {
	Type  string  `json:"type"`
	Value float32 `json:"value"`
}

// StartEntity describes one entity in the SIMULATION_START snapshot.
type StartEntity struct {
	ID       string       `json:"id"`
	Type     EntityKind   `json:"type"`
	Position Vec2         `json:"position"`
	Drives   []DriveValue `json:"drives,omitempty"`
}

// Event is one record of the emitted stream. Only the fields relevant
// to its Type are populated; the rest are left zero and omitted.
type Event struct {
	Timestamp int64 `json:"timestamp"`
	Type      Type  `json:"type"`

	// SIMULATION_START (npc_count and object_count are also set on TICK_END)
	NPCCount    int           `json:"npc_count,omitempty"`
	ObjectCount int           `json:"object_count,omitempty"`
	WorldSize   float32       `json:"world_size,omitempty"`
	Entities    []StartEntity `json:"entities,omitempty"`

	// TICK_START / TICK_END
	TickNumber uint64 `json:"tick_number,omitempty"`
	Generation uint32 `json:"generation,omitempty"`

	// ENTITY_UPDATE
	EntityID      string       `json:"entity_id,omitempty"`
	EntityType    EntityKind   `json:"entity_type,omitempty"`
	Position      *Vec2        `json:"position,omitempty"`
	Drives        []DriveValue `json:"drives,omitempty"`
	CurrentAction string       `json:"current_action,omitempty"`

	// ACTION_EXECUTION
	ActionType string `json:"action_type,omitempty"`
	TargetID   string `json:"target_id,omitempty"`

	// SIMULATION_END
	TotalTicks     uint64 `json:"total_ticks,omitempty"`
	FinalGeneration uint32 `json:"final_generation,omitempty"`

	// Fingerprint is attached to TICK_END by internal/tick when a
	// determinism check is configured (SPEC_FULL §6.8).
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Sink persists or forwards events. Write must not block the caller
// for long; sinks that do their own I/O should buffer internally.
type Sink interface {
	Write(Event) error
	Close() error
}

// Bus fans emitted events out to every registered sink over a
// buffered channel. A core tick waits on sink I/O only when that
// buffer is full, because Emit then blocks until the writer catches up.
type Bus struct {
	sinks []Sink
	ch    chan Event
	done  chan struct{}
}

// NewBus starts a bus with the given sinks and buffer depth.
func NewBus(buffer int, sinks ...Sink) *Bus {
	b := &Bus{sinks: sinks, ch: make(chan Event, buffer), done: make(chan struct{})}
	go b.run()
	return b
}

func (b *Bus) run() {
	defer close(b.done)
	for ev := range b.ch {
		for _, s := range b.sinks {
			if err := s.Write(ev); err != nil {
				logging.Warn("event", "sink write failed for %s: %v", ev.Type, err)
			}
		}
	}
}

// Emit enqueues an event, stamping its timestamp if unset. It never
// blocks on sink I/O; it only blocks if the channel buffer is full,
// which signals a misconfigured (too-small) buffer.
func (b *Bus) Emit(ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
	b.ch <- ev
}

// Close drains pending events, closes every sink, and waits for the
// background writer to finish.
func (b *Bus) Close() error {
	close(b.ch)
	<-b.done
	var firstErr error
	for _, s := range b.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
