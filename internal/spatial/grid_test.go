package spatial

import (
	"testing"

	"github.com/vthunder/emberworld/internal/types"
)

func agentAt(id string, x, y float32) types.Agent {
	return types.Agent{Identity: types.AgentIdentity{Entity: types.Entity{ID: id, Position: types.Position{X: x, Y: y}}}}
}

// S4 — three agents, radius 10: A-B within 3 units pair up both ways, C is
// isolated at (100,100).
func TestSweepS4(t *testing.T) {
	w := types.World{Agents: []types.Agent{
		agentAt("A", 0, 0),
		agentAt("B", 3, 0),
		agentAt("C", 100, 100),
	}}

	pairs := Sweep(w, 10)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %v", len(pairs), pairs)
	}

	seen := map[[2]string]float32{}
	for _, p := range pairs {
		seen[[2]string{p.ObserverID, p.ObservedID}] = p.Distance
	}
	if d, ok := seen[[2]string{"A", "B"}]; !ok || d != 3 {
		t.Errorf("expected A->B at distance 3, got %v ok=%v", d, ok)
	}
	if d, ok := seen[[2]string{"B", "A"}]; !ok || d != 3 {
		t.Errorf("expected B->A at distance 3, got %v ok=%v", d, ok)
	}
	for _, p := range pairs {
		if p.ObserverID == "C" || p.ObservedID == "C" {
			t.Errorf("C should not appear in any pair, got %v", p)
		}
	}
}

func TestSweepExcludesSelf(t *testing.T) {
	w := types.World{Agents: []types.Agent{agentAt("A", 0, 0)}}
	if pairs := Sweep(w, 10); len(pairs) != 0 {
		t.Errorf("expected no self-pairs, got %v", pairs)
	}
}

func TestSweepEmptyWorld(t *testing.T) {
	if pairs := Sweep(types.World{}, 10); pairs != nil {
		t.Errorf("expected nil for empty world, got %v", pairs)
	}
}

func TestSweepIncludesObjects(t *testing.T) {
	w := types.World{
		Agents: []types.Agent{agentAt("A", 0, 0)},
		Objects: []types.WorldObject{
			{Entity: types.Entity{ID: "rock", Position: types.Position{X: 1, Y: 0}}, Category: types.Tool},
		},
	}
	pairs := Sweep(w, 10)
	if len(pairs) != 1 || pairs[0].ObservedID != "rock" || pairs[0].IsAgent {
		t.Fatalf("expected single agent->object pair, got %v", pairs)
	}
}

func TestSweepAcrossCellBoundary(t *testing.T) {
	// radius 10, cells are 10x10; place two agents just across a cell
	// boundary but still within radius of each other.
	w := types.World{Agents: []types.Agent{
		agentAt("A", 9, 9),
		agentAt("B", 11, 9),
	}}
	pairs := Sweep(w, 10)
	if len(pairs) != 2 {
		t.Fatalf("expected pair across cell boundary, got %d: %v", len(pairs), pairs)
	}
}
