// Package episode groups an agent's perception buffer into candidate
// sequences and crystallises the emotionally significant ones into
// long-term episodic memory. It generalizes the teacher's
// internal/memory trace pool (traces.go: Add/FindSimilar/Reinforce over
// a map[string]*types.Trace, each carrying Strength/Activation) into
// pure, non-mutating functions over an agent's episodic memory slice:
// "reinforcing" a trace becomes appending a replacement MemoryEpisode
// with RepetitionCount+1, per the append-not-replace imprecision the
// spec explicitly preserves (see spec §9 and DESIGN.md).
package episode

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vthunder/emberworld/internal/impact"
	"github.com/vthunder/emberworld/internal/types"
)

// Tuning controls sequencing and significance.
type Tuning struct {
	SignificanceThreshold float32
	MaxSequenceGap        uint64
	MinSequenceLength     int
}

// PositionResolver resolves the position of an entity at formation time,
// so the significance test can evaluate drive impact per spec §4.3
// without the core needing a general position index.
type PositionResolver func(entityID string) (types.Position, bool)

// Form extends an agent's episodic memory with any new or reinforced
// episodes derived from its current perception buffer, per spec §4.4.
// If no significant candidate is found, the agent is returned
// unchanged.
func Form(agent types.Agent, currentTime uint64, tuning Tuning, resolve PositionResolver) types.Agent {
	groups := sequenceGroups(agent.Perception, tuning.MaxSequenceGap, tuning.MinSequenceLength)
	if len(groups) == 0 {
		return agent
	}

	var newEpisodes []types.MemoryEpisode
	for _, group := range groups {
		impacts := evaluateGroup(agent, group, resolve)
		if !significant(impacts, tuning.SignificanceThreshold) {
			continue
		}
		seq := buildSequence(group)
		combined := aggregateImpacts(impacts)
		if found, ok := findSimilarEpisode(agent.EpisodicMemory, len(seq.Steps)); ok {
			newEpisodes = append(newEpisodes, types.MemoryEpisode{
				StartTime:       group[0].Timestamp,
				EndTime:         group[len(group)-1].Timestamp,
				Sequence:        seq,
				DriveImpacts:    combined,
				RepetitionCount: found.RepetitionCount + 1,
			})
		} else {
			newEpisodes = append(newEpisodes, types.MemoryEpisode{
				StartTime:       group[0].Timestamp,
				EndTime:         group[len(group)-1].Timestamp,
				Sequence:        seq,
				DriveImpacts:    combined,
				RepetitionCount: 1,
			})
		}
	}

	if len(newEpisodes) == 0 {
		return agent
	}

	out := agent
	out.EpisodicMemory = make([]types.MemoryEpisode, len(agent.EpisodicMemory)+len(newEpisodes))
	n := copy(out.EpisodicMemory, agent.EpisodicMemory)
	copy(out.EpisodicMemory[n:], newEpisodes)
	return out
}

// sequenceGroups sorts the buffer by timestamp ascending and splits it
// into runs whose consecutive gap never exceeds maxGap, keeping only
// runs at least minLen long.
func sequenceGroups(buffer types.PerceptionBuffer, maxGap uint64, minLen int) [][]types.PerceptionEntry {
	if len(buffer) == 0 {
		return nil
	}
	sorted := make([]types.PerceptionEntry, len(buffer))
	copy(sorted, buffer)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	var groups [][]types.PerceptionEntry
	current := []types.PerceptionEntry{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp - sorted[i-1].Timestamp
		if gap <= maxGap {
			current = append(current, sorted[i])
			continue
		}
		if len(current) >= minLen {
			groups = append(groups, current)
		}
		current = []types.PerceptionEntry{sorted[i]}
	}
	if len(current) >= minLen {
		groups = append(groups, current)
	}
	return groups
}

// evaluateGroup runs the drive-impact evaluator against every entry in
// a candidate group.
func evaluateGroup(observer types.Agent, group []types.PerceptionEntry, resolve PositionResolver) [][]types.Drive {
	out := make([][]types.Drive, len(group))
	for i, entry := range group {
		ctx := impact.ActionContext{Observer: observer, Memory: entry}
		if pos, ok := resolve(entry.Actor); ok {
			ctx.ActorPosition = pos
		}
		if entry.Target.IsEntity() {
			if pos, ok := resolve(entry.Target.EntityID); ok {
				ctx.TargetPosition = &pos
			}
		} else if entry.Target.IsObject() {
			if pos, ok := resolve(entry.Target.ObjectID); ok {
				ctx.TargetPosition = &pos
			}
		}
		out[i] = impact.Evaluate(ctx)
	}
	return out
}

// significant reports whether the mean absolute delta across every
// entry's impact meets threshold. A candidate with no deltas at all is
// never significant (guards the otherwise-undefined mean of an empty
// set, per spec §4.8).
func significant(impacts [][]types.Drive, threshold float32) bool {
	var magnitudes []float64
	for _, deltas := range impacts {
		for _, d := range deltas {
			magnitudes = append(magnitudes, math.Abs(float64(d.Intensity)))
		}
	}
	if len(magnitudes) == 0 {
		return false
	}
	return float32(stat.Mean(magnitudes, nil)) >= threshold
}

// buildSequence mirrors a sorted group of entries into an ActionSequence,
// delays computed from consecutive timestamp differences.
func buildSequence(group []types.PerceptionEntry) types.ActionSequence {
	steps := make([]types.ActionStep, len(group))
	steps[0] = types.ActionStep{Entry: group[0], DelayAfterPrevious: 0}
	for i := 1; i < len(group); i++ {
		steps[i] = types.ActionStep{
			Entry:              group[i],
			DelayAfterPrevious: uint32(group[i].Timestamp - group[i-1].Timestamp),
		}
	}
	return types.ActionSequence{
		ID:    fmt.Sprintf("seq-%d-%d", group[0].Timestamp, len(group)),
		Steps: steps,
	}
}

// aggregateImpacts folds the per-entry deltas into a single vector: a
// drive kind's first appearance is taken as-is; every subsequent
// appearance replaces the running value with (running+new)*0.6, a
// recency- and recurrence-weighted blend rather than a plain average.
func aggregateImpacts(impacts [][]types.Drive) []types.Drive {
	order := make([]types.DriveKind, 0)
	running := make(map[types.DriveKind]float32)
	for _, deltas := range impacts {
		for _, d := range deltas {
			if _, seen := running[d.Kind]; !seen {
				order = append(order, d.Kind)
				running[d.Kind] = d.Intensity
			} else {
				running[d.Kind] = (running[d.Kind] + d.Intensity) * 0.6
			}
		}
	}
	out := make([]types.Drive, len(order))
	for i, kind := range order {
		out[i] = types.Drive{Kind: kind, Intensity: running[kind]}
	}
	return out
}

// findSimilarEpisode is the placeholder similarity check from spec §9:
// it compares only step-count equality, which will collapse unrelated
// sequences of the same length. Preserved as specified; a structural
// comparison is a documented future refinement, not a bug fix made
// here.
func findSimilarEpisode(existing []types.MemoryEpisode, stepCount int) (types.MemoryEpisode, bool) {
	for _, e := range existing {
		if len(e.Sequence.Steps) == stepCount {
			return e, true
		}
	}
	return types.MemoryEpisode{}, false
}
