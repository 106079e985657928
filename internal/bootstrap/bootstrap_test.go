package bootstrap

import (
	"math/rand"
	"testing"

	"github.com/vthunder/emberworld/internal/types"
)

func baseParams() Params {
	return Params{
		AgentCount:  5,
		ObjectCount: 3,
		WorldSize:   1000,
		TicksPerGen: 100,
		DriveMean:   30,
		DriveStdDev: 10,
	}
}

func TestWorldProducesRequestedCounts(t *testing.T) {
	w := World(baseParams(), rand.New(rand.NewSource(1)))
	if len(w.Agents) != 5 {
		t.Errorf("expected 5 agents, got %d", len(w.Agents))
	}
	if len(w.Objects) != 3 {
		t.Errorf("expected 3 objects, got %d", len(w.Objects))
	}
	if w.Clock.TicksPerGeneration != 100 {
		t.Errorf("expected ticks per generation to carry over, got %d", w.Clock.TicksPerGeneration)
	}
}

func TestWorldIsDeterministicForAFixedSeed(t *testing.T) {
	a := World(baseParams(), rand.New(rand.NewSource(42)))
	b := World(baseParams(), rand.New(rand.NewSource(42)))

	for i := range a.Agents {
		if a.Agents[i].ID() != b.Agents[i].ID() {
			t.Fatalf("agent id mismatch at %d: %s vs %s", i, a.Agents[i].ID(), b.Agents[i].ID())
		}
		if a.Agents[i].Identity.Entity.Position != b.Agents[i].Identity.Entity.Position {
			t.Fatalf("agent position mismatch at %d", i)
		}
	}
	for i := range a.Objects {
		if a.Objects[i].Entity.ID != b.Objects[i].Entity.ID {
			t.Fatalf("object id mismatch at %d", i)
		}
	}
}

func TestWorldPositionsStayInBounds(t *testing.T) {
	p := baseParams()
	p.AgentCount = 50
	p.ObjectCount = 50
	w := World(p, rand.New(rand.NewSource(7)))

	for _, a := range w.Agents {
		pos := a.Identity.Entity.Position
		if pos.X < 0 || pos.X > p.WorldSize || pos.Y < 0 || pos.Y > p.WorldSize {
			t.Fatalf("agent position out of bounds: %+v", pos)
		}
	}
	for _, o := range w.Objects {
		pos := o.Entity.Position
		if pos.X < 0 || pos.X > p.WorldSize || pos.Y < 0 || pos.Y > p.WorldSize {
			t.Fatalf("object position out of bounds: %+v", pos)
		}
	}
}

func TestWorldDrivesAreClampedAndComplete(t *testing.T) {
	p := baseParams()
	p.DriveMean = 500 // force clamping at the upper bound
	p.DriveStdDev = 1
	w := World(p, rand.New(rand.NewSource(3)))

	kinds := types.AllDriveKinds()
	for _, a := range w.Agents {
		if len(a.Drives) != len(kinds) {
			t.Fatalf("expected every drive kind to be present, got %d", len(a.Drives))
		}
		for _, d := range a.Drives {
			if d.Intensity < 0 || d.Intensity > 100 {
				t.Errorf("drive %s out of clamped range: %v", d.Kind, d.Intensity)
			}
		}
	}
}

func TestWorldDefaultsObjectCategoriesWhenUnset(t *testing.T) {
	w := World(baseParams(), rand.New(rand.NewSource(9)))
	for _, o := range w.Objects {
		switch o.Category {
		case types.Food, types.Structure, types.Tool, types.Marker:
		default:
			t.Errorf("unexpected default category: %v", o.Category)
		}
	}
}

func TestWorldHonorsExplicitObjectCategories(t *testing.T) {
	p := baseParams()
	p.ObjectCategories = []types.ObjectCategory{types.Food}
	w := World(p, rand.New(rand.NewSource(2)))
	for _, o := range w.Objects {
		if o.Category != types.Food {
			t.Errorf("expected only Food category, got %v", o.Category)
		}
	}
}
