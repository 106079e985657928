package mcpserver

import (
	"encoding/json"
	"testing"

	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/types"
)

func sampleContext() *WorldContext {
	ctx := NewWorldContext(10)
	action := types.Observe
	ctx.SetWorld(types.World{
		Clock: types.SimulationClock{CurrentTick: 5, CurrentGeneration: 1},
		Agents: []types.Agent{
			{Identity: types.AgentIdentity{
				Entity:        types.Entity{ID: "a", Position: types.Position{X: 1, Y: 2}},
				CurrentAction: &action,
			}},
		},
	})
	return ctx
}

func TestWorldSummaryReportsCounts(t *testing.T) {
	ctx := sampleContext()
	out, err := handleWorldSummary(ctx, nil)
	if err != nil {
		t.Fatalf("handleWorldSummary: %v", err)
	}
	var summary worldSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if summary.Tick != 5 || summary.AgentCount != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestGetAgentUnknownIDErrors(t *testing.T) {
	ctx := sampleContext()
	if _, err := handleGetAgent(ctx, map[string]any{"id": "ghost"}); err == nil {
		t.Error("expected error for unknown agent id")
	}
}

func TestGetAgentFindsAgent(t *testing.T) {
	ctx := sampleContext()
	out, err := handleGetAgent(ctx, map[string]any{"id": "a"})
	if err != nil {
		t.Fatalf("handleGetAgent: %v", err)
	}
	var agent types.Agent
	if err := json.Unmarshal([]byte(out), &agent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if agent.ID() != "a" {
		t.Errorf("expected agent a, got %s", agent.ID())
	}
}

func TestRecentEventsRespectsLimit(t *testing.T) {
	ctx := sampleContext()
	for i := 0; i < 5; i++ {
		ctx.RecordEvent(event.Event{Type: event.TickStart, TickNumber: uint64(i)})
	}
	out, err := handleRecentEvents(ctx, map[string]any{"limit": float64(2)})
	if err != nil {
		t.Fatalf("handleRecentEvents: %v", err)
	}
	var events []event.Event
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].TickNumber != 4 {
		t.Errorf("expected newest event last, got %+v", events)
	}
}

func TestMissingContextErrors(t *testing.T) {
	if _, err := handleWorldSummary("not a context", nil); err == nil {
		t.Error("expected error for missing world context")
	}
}
