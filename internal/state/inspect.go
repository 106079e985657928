// Package state inspects a running simulation's World, generalizing
// the teacher's internal/state Inspector (Summary/Health over
// file-backed traces/percepts/threads) into the same summary-plus-
// health-check shape over an in-memory World snapshot.
package state

import (
	"fmt"

	"github.com/vthunder/emberworld/internal/types"
)

// Inspector reports on a World snapshot's size and the health of its
// agent population.
type Inspector struct {
	world types.World
}

// NewInspector wraps a World for inspection.
func NewInspector(world types.World) *Inspector {
	return &Inspector{world: world}
}

// ComponentSummary holds a per-component count.
type ComponentSummary struct {
	Total int `json:"total"`
}

// Summary holds a summary of the current world.
type Summary struct {
	Tick       uint64           `json:"tick"`
	Generation uint32           `json:"generation"`
	Agents     ComponentSummary `json:"agents"`
	Objects    ComponentSummary `json:"objects"`
	Episodes   ComponentSummary `json:"total_episodes"`
}

// HealthReport holds health check results.
type HealthReport struct {
	Status          string   `json:"status"` // "healthy", "warnings"
	Warnings        []string `json:"warnings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Summary returns counts of agents, objects, and accumulated episodic
// memory across the population.
func (i *Inspector) Summary() (*Summary, error) {
	s := &Summary{
		Tick:       i.world.Clock.CurrentTick,
		Generation: i.world.Clock.CurrentGeneration,
		Agents:     ComponentSummary{Total: len(i.world.Agents)},
		Objects:    ComponentSummary{Total: len(i.world.Objects)},
	}
	for _, a := range i.world.Agents {
		s.Episodes.Total += len(a.EpisodicMemory)
	}
	return s, nil
}

// Health flags population-level anomalies: saturated drives, runaway
// per-agent episode growth, and a world with no agents.
func (i *Inspector) Health() (*HealthReport, error) {
	report := &HealthReport{Status: "healthy"}

	saturated := 0
	overgrownMemory := 0
	for _, a := range i.world.Agents {
		for _, d := range a.Drives {
			if d.Intensity >= 100 {
				saturated++
				break
			}
		}
		if len(a.EpisodicMemory) > 500 {
			overgrownMemory++
		}
	}

	if saturated > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d agent(s) have a saturated drive", saturated))
		report.Recommendations = append(report.Recommendations, "consider raising perception radius or adding more drive-relieving objects")
	}
	if overgrownMemory > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d agent(s) carry over 500 episodes", overgrownMemory))
		report.Recommendations = append(report.Recommendations, "episodic memory has no eviction in this scope; this is expected for long runs")
	}
	if len(i.world.Agents) == 0 {
		report.Warnings = append(report.Warnings, "world has no agents")
	}

	if len(report.Warnings) > 0 {
		report.Status = "warnings"
	}
	return report, nil
}
