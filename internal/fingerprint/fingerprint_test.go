package fingerprint

import (
	"testing"

	"github.com/vthunder/emberworld/internal/types"
)

func sampleWorld() types.World {
	return types.World{
		Clock: types.SimulationClock{CurrentTick: 5, CurrentGeneration: 1},
		Agents: []types.Agent{
			{
				Identity: types.AgentIdentity{Entity: types.Entity{ID: "a", Position: types.Position{X: 1, Y: 2}}},
				Drives:   []types.Drive{{Kind: types.Curiosity, Intensity: 10}},
			},
			{
				Identity: types.AgentIdentity{Entity: types.Entity{ID: "b", Position: types.Position{X: 3, Y: 4}}},
				Drives:   []types.Drive{{Kind: types.Sustenance, Intensity: 20}},
			},
		},
		Objects: []types.WorldObject{
			{Entity: types.Entity{ID: "o1", Position: types.Position{X: 5, Y: 6}}, Category: types.Food},
		},
	}
}

func TestOfIsDeterministic(t *testing.T) {
	w := sampleWorld()
	if Of(w) != Of(w) {
		t.Fatal("expected identical worlds to fingerprint identically")
	}
}

func TestOfIsOrderIndependent(t *testing.T) {
	w := sampleWorld()
	reordered := w
	reordered.Agents = []types.Agent{w.Agents[1], w.Agents[0]}
	if Of(w) != Of(reordered) {
		t.Error("expected fingerprint to be independent of agent slice order")
	}
}

func TestOfChangesWithPosition(t *testing.T) {
	w := sampleWorld()
	moved := w
	moved.Agents = make([]types.Agent, len(w.Agents))
	copy(moved.Agents, w.Agents)
	moved.Agents[0].Identity.Entity.Position.X += 1
	if Of(w) == Of(moved) {
		t.Error("expected fingerprint to change when a position changes")
	}
}
