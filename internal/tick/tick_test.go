package tick

import (
	"math/rand"
	"testing"

	"github.com/vthunder/emberworld/internal/drives"
	"github.com/vthunder/emberworld/internal/episode"
	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/selection"
	"github.com/vthunder/emberworld/internal/types"
)

func agent(id string, x, y float32) types.Agent {
	return types.Agent{
		Identity: types.AgentIdentity{Entity: types.Entity{ID: id, Position: types.Position{X: x, Y: y}}},
		Drives: []types.Drive{
			{Kind: types.Sustenance, Intensity: 50},
			{Kind: types.Curiosity, Intensity: 10},
		},
	}
}

func baseParams() Params {
	return Params{
		Drive: drives.Parameters{BaseGrowthRate: 0.2, IntensityFactor: 0.5},
		Selection: selection.Criteria{
			Randomness: 0,
		},
		Episode: episode.Tuning{
			SignificanceThreshold: 0.1,
			MaxSequenceGap:        5,
			MinSequenceLength:     2,
		},
		PerceptionRadius: 10,
		TicksElapsed:     10,
	}
}

// Property 1 — every drive stays clamped to [0,100] across a tick.
func TestRunKeepsDrivesClamped(t *testing.T) {
	world := types.World{Agents: []types.Agent{agent("a", 0, 0), agent("b", 3, 0)}}
	out := Run(world, baseParams(), rand.New(rand.NewSource(1)), nil)
	for _, a := range out.Agents {
		for _, d := range a.Drives {
			if d.Intensity < 0 || d.Intensity > 100 {
				t.Errorf("drive %s out of range: %v", d.Kind, d.Intensity)
			}
		}
	}
}

// Property 2 — perception buffers never exceed MAX_BUFFER.
func TestRunNeverExceedsMaxBuffer(t *testing.T) {
	world := types.World{Agents: []types.Agent{agent("a", 0, 0), agent("b", 1, 0)}}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < types.MaxBuffer+10; i++ {
		world = Run(world, baseParams(), rng, nil)
	}
	for _, a := range world.Agents {
		if len(a.Perception) > types.MaxBuffer {
			t.Errorf("agent %s perception buffer exceeded MAX_BUFFER: %d", a.ID(), len(a.Perception))
		}
	}
}

// Property 6 — generation is non-decreasing and increases exactly on
// multiples of ticks_per_generation.
func TestRunGenerationMonotonicity(t *testing.T) {
	world := types.World{
		Clock:  types.SimulationClock{TicksPerGeneration: 3},
		Agents: []types.Agent{agent("a", 0, 0)},
	}
	rng := rand.New(rand.NewSource(1))
	prevGen := world.Clock.CurrentGeneration
	for i := uint64(1); i <= 9; i++ {
		world = Run(world, baseParams(), rng, nil)
		if world.Clock.CurrentGeneration < prevGen {
			t.Fatalf("generation decreased at tick %d", i)
		}
		if i%3 == 0 && world.Clock.CurrentGeneration != prevGen+1 {
			t.Errorf("expected generation bump at tick %d, got %d -> %d", i, prevGen, world.Clock.CurrentGeneration)
		}
		prevGen = world.Clock.CurrentGeneration
	}
}

// Property 7 — with randomness=0, empty perceptions, and unreachable
// targets, drives increase monotonically by the §4.2 formula and
// nothing else perturbs them.
func TestRunIsIdempotentOnDrivesModuloGrowth(t *testing.T) {
	solo := types.World{Agents: []types.Agent{agent("solo", 500, 500)}}
	params := baseParams()
	params.PerceptionRadius = 1 // no one else around; sweep finds nothing

	out := Run(solo, params, rand.New(rand.NewSource(1)), nil)
	got, _ := out.AgentByID("solo")
	sustenance, _ := got.Drive(types.Sustenance)
	want := drives.Update(types.Drive{Kind: types.Sustenance, Intensity: 50}, params.Drive, params.TicksElapsed)
	if sustenance.Intensity != want.Intensity {
		t.Errorf("expected drive growth only, got %v want %v", sustenance.Intensity, want.Intensity)
	}
}

func TestRunEmitsSimulationLifecycleEvents(t *testing.T) {
	world := types.World{Agents: []types.Agent{agent("a", 0, 0), agent("b", 3, 0)}}
	var sink capturingSink
	bus := event.NewBus(64, &sink)

	bus.Emit(event.Event{Type: event.SimulationStart, NPCCount: len(world.Agents)})
	world = Run(world, baseParams(), rand.New(rand.NewSource(1)), bus)
	bus.Emit(event.Event{Type: event.SimulationEnd, TotalTicks: world.Clock.CurrentTick})
	bus.Close()

	if len(sink.events) == 0 {
		t.Fatal("expected events to be emitted")
	}
	if sink.events[0].Type != event.SimulationStart {
		t.Errorf("expected first event SIMULATION_START, got %s", sink.events[0].Type)
	}
	if sink.events[len(sink.events)-1].Type != event.SimulationEnd {
		t.Errorf("expected last event SIMULATION_END, got %s", sink.events[len(sink.events)-1].Type)
	}
	foundTickStart, foundTickEnd := false, false
	for _, ev := range sink.events {
		if ev.Type == event.TickStart {
			foundTickStart = true
		}
		if ev.Type == event.TickEnd {
			foundTickEnd = true
		}
	}
	if !foundTickStart || !foundTickEnd {
		t.Error("expected both TICK_START and TICK_END events")
	}
}

type capturingSink struct {
	events []event.Event
}

func (s *capturingSink) Write(ev event.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *capturingSink) Close() error { return nil }
