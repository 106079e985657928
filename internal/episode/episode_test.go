package episode

import (
	"testing"

	"github.com/vthunder/emberworld/internal/types"
)

func noResolve(string) (types.Position, bool) { return types.Position{}, false }

func entry(ts uint64, target string) types.PerceptionEntry {
	return types.PerceptionEntry{Timestamp: ts, Actor: "x", Action: types.Observe, Target: types.TargetEntity(target)}
}

// S5 — gap 12 between t=103 and t=115 exceeds max_sequence_gap=5, so the
// trailing entry is a rejected singleton; only [100,103] survives.
func TestSequenceGroupsS5(t *testing.T) {
	buf := types.PerceptionBuffer{entry(100, "X"), entry(103, "X"), entry(115, "X")}
	groups := sequenceGroups(buf, 5, 2)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %v", len(groups), groups)
	}
	if len(groups[0]) != 2 || groups[0][0].Timestamp != 100 || groups[0][1].Timestamp != 103 {
		t.Errorf("unexpected group contents: %v", groups[0])
	}
}

// Boundary property 9: with max_sequence_gap=0 and distinct timestamps,
// no sequence of length > 1 forms.
func TestSequenceGroupsZeroGap(t *testing.T) {
	buf := types.PerceptionBuffer{entry(1, "X"), entry(2, "X"), entry(3, "X")}
	groups := sequenceGroups(buf, 0, 1)
	for _, g := range groups {
		if len(g) > 1 {
			t.Errorf("expected singleton groups with zero gap, got %v", g)
		}
	}
}

// Boundary property 10: min_sequence_length larger than the buffer means
// no episodes form.
func TestFormRejectsShortBuffer(t *testing.T) {
	a := types.Agent{
		Drives:     []types.Drive{{Kind: types.Curiosity, Intensity: 50}},
		Perception: types.PerceptionBuffer{entry(1, "X"), entry(2, "X")},
	}
	out := Form(a, 10, Tuning{SignificanceThreshold: 0, MaxSequenceGap: 10, MinSequenceLength: 10}, noResolve)
	if len(out.EpisodicMemory) != 0 {
		t.Errorf("expected no episodes, got %v", out.EpisodicMemory)
	}
}

// Boundary property 11: an unreachable significance threshold means no
// episodes form regardless of input.
func TestFormRejectsImpossibleThreshold(t *testing.T) {
	a := types.Agent{
		Drives:     []types.Drive{{Kind: types.Curiosity, Intensity: 50}},
		Perception: types.PerceptionBuffer{entry(1, "X"), entry(2, "X")},
	}
	out := Form(a, 10, Tuning{SignificanceThreshold: 1e9, MaxSequenceGap: 10, MinSequenceLength: 1}, noResolve)
	if len(out.EpisodicMemory) != 0 {
		t.Errorf("expected no episodes, got %v", out.EpisodicMemory)
	}
}

func TestFormProducesSignificantEpisode(t *testing.T) {
	a := types.Agent{
		Drives:     []types.Drive{{Kind: types.Curiosity, Intensity: 50}},
		Perception: types.PerceptionBuffer{entry(1, "X"), entry(2, "X")},
	}
	out := Form(a, 10, Tuning{SignificanceThreshold: 0.01, MaxSequenceGap: 10, MinSequenceLength: 1}, noResolve)
	if len(out.EpisodicMemory) != 1 {
		t.Fatalf("expected 1 episode, got %d", len(out.EpisodicMemory))
	}
	ep := out.EpisodicMemory[0]
	if ep.StartTime != 1 || ep.EndTime != 2 || ep.RepetitionCount != 1 {
		t.Errorf("unexpected episode: %+v", ep)
	}
	if len(ep.Sequence.Steps) != 2 || ep.Sequence.Steps[0].DelayAfterPrevious != 0 {
		t.Errorf("unexpected sequence: %+v", ep.Sequence)
	}
}

func TestFormReinforcesBySequenceLength(t *testing.T) {
	existing := types.MemoryEpisode{
		Sequence:        types.ActionSequence{ID: "old", Steps: make([]types.ActionStep, 2)},
		RepetitionCount: 3,
	}
	a := types.Agent{
		Drives:         []types.Drive{{Kind: types.Curiosity, Intensity: 50}},
		Perception:     types.PerceptionBuffer{entry(1, "X"), entry(2, "X")},
		EpisodicMemory: []types.MemoryEpisode{existing},
	}
	out := Form(a, 10, Tuning{SignificanceThreshold: 0.01, MaxSequenceGap: 10, MinSequenceLength: 1}, noResolve)
	if len(out.EpisodicMemory) != 2 {
		t.Fatalf("expected append, not replace, got %d episodes", len(out.EpisodicMemory))
	}
	if out.EpisodicMemory[1].RepetitionCount != 4 {
		t.Errorf("expected repetition count 4, got %d", out.EpisodicMemory[1].RepetitionCount)
	}
}

func TestFormUnchangedOnNoSignificantCandidate(t *testing.T) {
	a := types.Agent{Perception: types.PerceptionBuffer{}}
	out := Form(a, 10, Tuning{SignificanceThreshold: 0, MaxSequenceGap: 10, MinSequenceLength: 1}, noResolve)
	if len(out.EpisodicMemory) != 0 {
		t.Errorf("expected unchanged agent, got %v", out)
	}
}
