package selection

import (
	"math"
	"math/rand"
	"sort"

	"github.com/vthunder/emberworld/internal/types"
)

// scored pairs an option with its computed score, keeping the original
// generation-order index so the sort below can break ties on it.
type scored struct {
	option Option
	score  float32
	index  int
}

// Select scores every option, sorts by score descending (ties broken by
// generation order, per spec §9), and picks the final option: the top
// scorer deterministically, or a uniform sample from the top N when
// randomness > 0, where N = min(len, 1+floor(randomness*10)).
// Select reports false when there are no options at all.
func Select(options []Option, observerDrives []types.Drive, c Criteria, rng *rand.Rand) (Option, bool) {
	if len(options) == 0 {
		return Option{}, false
	}

	ranked := make([]scored, len(options))
	for i, opt := range options {
		ranked[i] = scored{option: opt, score: Score(opt, observerDrives, c), index: i}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if c.Randomness > 0 && len(ranked) > 1 {
		n := 1 + int(math.Floor(float64(c.Randomness)*10))
		if n > len(ranked) {
			n = len(ranked)
		}
		pick := rng.Intn(n)
		return ranked[pick].option, true
	}
	return ranked[0].option, true
}

// Choose runs the full action-selection contract of spec §4.5: generate
// options, pick one, and return a new agent with identity.current_action
// and target updated. Drives and memory are left untouched. If no
// options exist, the agent is returned unchanged with no action.
func Choose(world types.World, chooser types.Agent, c Criteria, rng *rand.Rand) types.Agent {
	options := GenerateOptions(world, chooser)
	chosen, ok := Select(options, chooser.Drives, c, rng)
	if !ok {
		return chooser
	}

	out := chooser
	action := chosen.Action
	out.Identity = types.AgentIdentity{
		Entity:        chooser.Identity.Entity,
		CurrentAction: &action,
		Target:        chosen.Target,
	}
	return out
}
