// Package bootstrap builds the initial World a simulation run starts
// from — spec.md §1 treats this as an external collaborator, described
// only by its effects. It generalizes the teacher's use of
// github.com/google/uuid for percept/trace/task id generation to
// entity ids here, and draws starting drive intensities from
// gonum.org/v1/gonum/stat/distuv's truncated normal instead of a flat
// uniform distribution, for a more naturalistic starting population
// than spec.md's silence on the question implies (an Open Question
// resolved in DESIGN.md).
package bootstrap

import (
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vthunder/emberworld/internal/types"
)

// Params controls population size and starting-state sampling.
type Params struct {
	AgentCount       int
	ObjectCount      int
	WorldSize        float32
	TicksPerGen      uint32
	DriveMean        float32 // center of the truncated-normal starting distribution
	DriveStdDev      float32
	ObjectCategories []types.ObjectCategory
}

// World builds a randomly populated initial World using rng for every
// stochastic decision, so two runs seeded identically produce
// byte-identical starting worlds.
func World(p Params, rng *rand.Rand) types.World {
	agents := make([]types.Agent, p.AgentCount)
	for i := range agents {
		agents[i] = newAgent(p, rng)
	}

	objects := make([]types.WorldObject, p.ObjectCount)
	categories := p.ObjectCategories
	if len(categories) == 0 {
		categories = []types.ObjectCategory{types.Food, types.Structure, types.Tool, types.Marker}
	}
	for i := range objects {
		objects[i] = types.WorldObject{
			Entity: types.Entity{
				ID:       "obj-" + uuid.Must(uuid.NewRandomFromReader(rng)).String(),
				Position: randomPosition(p.WorldSize, rng),
			},
			Category: categories[rng.Intn(len(categories))],
		}
	}

	return types.World{
		Clock:   types.SimulationClock{TicksPerGeneration: p.TicksPerGen},
		Agents:  agents,
		Objects: objects,
	}
}

func newAgent(p Params, rng *rand.Rand) types.Agent {
	return types.Agent{
		Identity: types.AgentIdentity{
			Entity: types.Entity{
				ID:       "agent-" + uuid.Must(uuid.NewRandomFromReader(rng)).String(),
				Position: randomPosition(p.WorldSize, rng),
			},
		},
		Drives: startingDrives(p, rng),
	}
}

// startingDrives samples every drive kind's initial intensity from a
// normal distribution centered on p.DriveMean, clamped to [0,100] to
// approximate a truncated normal without rejection sampling.
func startingDrives(p Params, rng *rand.Rand) []types.Drive {
	dist := distuv.Normal{Mu: float64(p.DriveMean), Sigma: float64(p.DriveStdDev), Src: rng}
	kinds := types.AllDriveKinds()
	out := make([]types.Drive, len(kinds))
	for i, kind := range kinds {
		out[i] = types.Drive{Kind: kind, Intensity: float32(dist.Rand())}.Clamped()
	}
	return out
}

func randomPosition(worldSize float32, rng *rand.Rand) types.Position {
	return types.Position{
		X: rng.Float32() * worldSize,
		Y: rng.Float32() * worldSize,
	}
}
