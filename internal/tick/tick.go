// Package tick composes the per-tick pipeline spec.md §4.7 describes:
// selection, execution, perception sweep, drive/episode advance, and
// clock advance, emitting the event stream of §6 as it goes. Grounded
// on the fixed-step world.ticker shape found in the grid-world example
// in the retrieval pack, simplified to a single synchronous call since
// §5 forbids internal suspension points.
package tick

import (
	"math/rand"

	"github.com/vthunder/emberworld/internal/drives"
	"github.com/vthunder/emberworld/internal/episode"
	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/execution"
	"github.com/vthunder/emberworld/internal/fingerprint"
	"github.com/vthunder/emberworld/internal/logging"
	"github.com/vthunder/emberworld/internal/selection"
	"github.com/vthunder/emberworld/internal/spatial"
	"github.com/vthunder/emberworld/internal/types"
)

// Params bundles every tunable the tick pipeline's sub-packages need,
// mirroring spec.md §6's NPCUpdateParams plus the perception radius.
type Params struct {
	Drive            drives.Parameters
	Selection        selection.Criteria
	Episode          episode.Tuning
	PerceptionRadius float32
	TicksElapsed     uint64 // ticks of drive growth to apply this tick, usually 1

	// Fingerprint, when true, attaches a content hash of the resulting
	// world to the TICK_END event (SPEC_FULL §6.8).
	Fingerprint bool
}

// Run executes one tick: selection, execution, perception, drive and
// episode advance, then clock advance. bus may be nil, in which case
// no events are emitted. A tick with zero agents is a no-op besides
// the clock advance, logged at Warn since it usually signals a
// misconfigured run rather than an intended empty world.
func Run(world types.World, params Params, rng *rand.Rand, bus *event.Bus) types.World {
	if len(world.Agents) == 0 {
		logging.Warn("tick", "running tick %d with zero agents", world.Clock.CurrentTick)
	}

	emit(bus, event.Event{Type: event.TickStart, TickNumber: world.Clock.CurrentTick, Generation: world.Clock.CurrentGeneration})

	selected := runSelection(world, params.Selection, rng)
	executed := runExecution(selected, rng, bus)
	perceived := runPerceptionSweep(executed, params.PerceptionRadius)
	advanced := runDriveAndEpisodeAdvance(perceived, params)

	next := advanced
	next.Clock = advanced.Clock.Advance()

	end := event.Event{
		Type:        event.TickEnd,
		TickNumber:  next.Clock.CurrentTick,
		Generation:  next.Clock.CurrentGeneration,
		NPCCount:    len(next.Agents),
		ObjectCount: len(next.Objects),
	}
	if params.Fingerprint {
		end.Fingerprint = fingerprint.Of(next)
	}
	emit(bus, end)

	return next
}

// runSelection chooses every agent's next action against the shared
// pre-tick snapshot, so selection is order-independent: no agent's
// choice can see another agent's new choice within the same tick.
func runSelection(world types.World, criteria selection.Criteria, rng *rand.Rand) types.World {
	out := world
	out.Agents = make([]types.Agent, len(world.Agents))
	for i, a := range world.Agents {
		out.Agents[i] = selection.Choose(world, a, criteria, rng)
	}
	return out
}

// runExecution applies every agent's chosen action against the world
// produced by selection, so every target resolves against the same
// pre-execution positions regardless of agent processing order.
func runExecution(world types.World, rng *rand.Rand, bus *event.Bus) types.World {
	before := world
	out := world
	out.Agents = make([]types.Agent, len(world.Agents))
	for i, a := range world.Agents {
		next := execution.Apply(before, a, rng)
		out.Agents[i] = next

		if next.Identity.CurrentAction != nil {
			emit(bus, event.Event{
				Type:       event.ActionExecution,
				EntityID:   next.ID(),
				ActionType: string(*next.Identity.CurrentAction),
				TargetID:   targetID(next.Identity.Target),
			})
		}
		emit(bus, entityUpdateEvent(next))
	}
	return out
}

// runPerceptionSweep finds every agent/object pair within radius of
// each agent and appends a perception entry to the observer's buffer,
// per spec §4.1 and §4.7.
func runPerceptionSweep(world types.World, radius float32) types.World {
	pairs := spatial.Sweep(world, radius)
	if len(pairs) == 0 {
		return world
	}

	entries := make(map[string][]types.PerceptionEntry)
	for _, pair := range pairs {
		observer, ok := world.AgentByID(pair.ObserverID)
		if !ok {
			continue
		}
		entry := observationEntry(world, observer, pair)
		entries[observer.ID()] = append(entries[observer.ID()], entry)
	}

	out := world
	out.Agents = make([]types.Agent, len(world.Agents))
	for i, a := range world.Agents {
		if add, ok := entries[a.ID()]; ok {
			a.Perception = a.Perception.Append(add...)
		}
		out.Agents[i] = a
	}
	return out
}

// observationEntry builds the PerceptionEntry an observer records for
// one swept pair: the observed party's current action if it is an
// agent performing one, otherwise a bare Observe of an inert object.
func observationEntry(world types.World, observer types.Agent, pair spatial.Pair) types.PerceptionEntry {
	if other, ok := world.AgentByID(pair.ObservedID); ok {
		action := types.Observe
		target := types.TargetNone()
		if other.Identity.CurrentAction != nil {
			action = *other.Identity.CurrentAction
			target = other.Identity.Target
		}
		return types.PerceptionEntry{
			Timestamp: world.Clock.CurrentTick,
			Actor:     other.ID(),
			Action:    action,
			Target:    target,
		}
	}
	return types.PerceptionEntry{
		Timestamp: world.Clock.CurrentTick,
		Actor:     pair.ObservedID,
		Action:    types.Observe,
		Target:    types.TargetObject(pair.ObservedID),
	}
}

// runDriveAndEpisodeAdvance applies natural drive growth and attempts
// episode formation for every agent, using the freshly-appended
// perception buffer. This runs after perception so the episodes an
// agent forms this tick can draw on what it just observed, per the
// §4.7 composition order.
func runDriveAndEpisodeAdvance(world types.World, params Params) types.World {
	ticks := params.TicksElapsed
	if ticks == 0 {
		ticks = 1
	}

	resolve := func(id string) (types.Position, bool) {
		if a, ok := world.AgentByID(id); ok {
			return a.Identity.Entity.Position, true
		}
		if o, ok := world.ObjectByID(id); ok {
			return o.Entity.Position, true
		}
		return types.Position{}, false
	}

	out := world
	out.Agents = make([]types.Agent, len(world.Agents))
	for i, a := range world.Agents {
		a = drives.UpdateAgent(a, params.Drive, ticks)
		a = episode.Form(a, world.Clock.CurrentTick, params.Episode, resolve)
		out.Agents[i] = a
	}
	return out
}

func entityUpdateEvent(a types.Agent) event.Event {
	pos := event.Vec2{X: a.Identity.Entity.Position.X, Y: a.Identity.Entity.Position.Y}
	ev := event.Event{
		Type:       event.EntityUpdate,
		EntityID:   a.ID(),
		EntityType: event.EntityNPC,
		Position:   &pos,
	}
	for _, d := range a.Drives {
		ev.Drives = append(ev.Drives, event.DriveValue{Type: string(d.Kind), Value: d.Intensity})
	}
	if a.Identity.CurrentAction != nil {
		ev.CurrentAction = string(*a.Identity.CurrentAction)
	}
	return ev
}

func targetID(t types.TargetRef) string {
	if t.IsEntity() {
		return t.EntityID
	}
	if t.IsObject() {
		return t.ObjectID
	}
	return ""
}

func emit(bus *event.Bus, ev event.Event) {
	if bus == nil {
		return
	}
	bus.Emit(ev)
}
