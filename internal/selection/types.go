// Package selection chooses an agent's next action by generating a
// pool of candidate options — both spatial ("primitive") and memory-
// derived — and scoring them against the agent's current drives. It
// generalizes the teacher's internal/focus attention system
// (Attention.SelectNext: sort pending items by priority then salience,
// gate on an arousal-derived threshold) into: generate options, score
// by drive relief plus preference, sort, and sample from the top band.
package selection

import "github.com/vthunder/emberworld/internal/types"

// Criteria tunes how an agent weighs memory-derived options, social
// targets, and how much randomness to mix into its final pick.
type Criteria struct {
	FamiliarityPreference float32 // in [0,1]
	SocialPreference      float32 // in [0,1]
	Randomness            float32 // in [0,1]
}

// Option is a candidate action with its expected drive impact.
type Option struct {
	Action     types.ActionKind
	Target     types.TargetRef
	Impacts    []types.Drive
	FromMemory bool
}

const (
	socialRadius = 10
	objectRadius = 5
)
