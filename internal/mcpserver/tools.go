package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/vthunder/emberworld/internal/types"
)

// propSpec describes one named/typed property of a tool's input schema.
type propSpec struct {
	Type        string
	Description string
}

// toolSpec describes one of emberworld's tools for tools/list.
type toolSpec struct {
	Name        string
	Description string
	Properties  map[string]propSpec
	Required    []string
}

// worldTools is the closed set of read-only introspection tools this
// server ever serves. It is consulted by tools/list and by
// dispatchTool; there is no facility to register additional tools at
// runtime because emberworld has exactly these four.
var worldTools = []toolSpec{
	{
		Name:        "world_summary",
		Description: "Summarize the current simulation world: tick, generation, agent and object counts.",
	},
	{
		Name:        "list_agents",
		Description: "List every agent's id, position, and current action.",
	},
	{
		Name:        "get_agent",
		Description: "Get full detail for one agent by id: drives, perception buffer, episodic memory.",
		Properties: map[string]propSpec{
			"id": {Type: "string", Description: "Agent entity id"},
		},
		Required: []string{"id"},
	},
	{
		Name:        "recent_events",
		Description: "Return the most recently emitted simulation events.",
		Properties: map[string]propSpec{
			"limit": {Type: "number", Description: "Maximum number of events to return (default 20)"},
		},
	},
}

// RegisterWorldTools installs ctx as the server's tool context. The
// tool set itself is fixed (worldTools/dispatchTool); this just wires
// up the WorldContext the four handlers below read from.
func RegisterWorldTools(s *Server, ctx *WorldContext) {
	s.SetContext(ctx)
}

// dispatchTool calls the handler matching name, or reports the tool as
// unknown.
func dispatchTool(ctx any, name string, args map[string]any) (string, error) {
	switch name {
	case "world_summary":
		return handleWorldSummary(ctx, args)
	case "list_agents":
		return handleListAgents(ctx, args)
	case "get_agent":
		return handleGetAgent(ctx, args)
	case "recent_events":
		return handleRecentEvents(ctx, args)
	default:
		return "", fmt.Errorf("mcpserver: unknown tool %q", name)
	}
}

func asContext(ctx any) (*WorldContext, error) {
	wc, ok := ctx.(*WorldContext)
	if !ok {
		return nil, fmt.Errorf("mcpserver: no world context installed")
	}
	return wc, nil
}

type worldSummary struct {
	Tick        uint64 `json:"tick"`
	Generation  uint32 `json:"generation"`
	AgentCount  int    `json:"agent_count"`
	ObjectCount int    `json:"object_count"`
}

func handleWorldSummary(ctx any, _ map[string]any) (string, error) {
	wc, err := asContext(ctx)
	if err != nil {
		return "", err
	}
	w := wc.World()
	return marshal(worldSummary{
		Tick:        w.Clock.CurrentTick,
		Generation:  w.Clock.CurrentGeneration,
		AgentCount:  len(w.Agents),
		ObjectCount: len(w.Objects),
	})
}

type agentListing struct {
	ID            string         `json:"id"`
	Position      types.Position `json:"position"`
	CurrentAction string         `json:"current_action,omitempty"`
}

func handleListAgents(ctx any, _ map[string]any) (string, error) {
	wc, err := asContext(ctx)
	if err != nil {
		return "", err
	}
	w := wc.World()
	out := make([]agentListing, len(w.Agents))
	for i, a := range w.Agents {
		listing := agentListing{ID: a.ID(), Position: a.Identity.Entity.Position}
		if a.Identity.CurrentAction != nil {
			listing.CurrentAction = string(*a.Identity.CurrentAction)
		}
		out[i] = listing
	}
	return marshal(out)
}

func handleGetAgent(ctx any, args map[string]any) (string, error) {
	wc, err := asContext(ctx)
	if err != nil {
		return "", err
	}
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("mcpserver: get_agent requires an id")
	}
	agent, ok := wc.World().AgentByID(id)
	if !ok {
		return "", fmt.Errorf("mcpserver: no agent with id %q", id)
	}
	return marshal(agent)
}

func handleRecentEvents(ctx any, args map[string]any) (string, error) {
	wc, err := asContext(ctx)
	if err != nil {
		return "", err
	}
	limit := 20
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	return marshal(wc.RecentEvents(limit))
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("mcpserver: marshal result: %w", err)
	}
	return string(data), nil
}
