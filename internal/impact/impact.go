// Package impact evaluates how much a single observed action relieves
// or aggravates an observer's drives. It generalizes the teacher's
// internal/motivation dispatch-by-source-kind impulse generation
// (tasks.go/ideas.go: base intensity scaled by a situational modifier)
// into dispatch-by-ActionKind, familiarity-scaled drive deltas.
package impact

import "github.com/vthunder/emberworld/internal/types"

// ActionContext is the input to Evaluate: an observer, the perception
// entry it witnessed, the current tick, and the positions needed to
// resolve familiarity (the core has no global position index, so
// callers resolve these from the World before invoking Evaluate).
type ActionContext struct {
	Observer      types.Agent
	Memory        types.PerceptionEntry
	CurrentTime   uint64
	ActorPosition types.Position
	// TargetPosition is nil when Memory.Target is TargetRef{} (no
	// target entity); familiarity then falls back to ActorPosition.
	TargetPosition *types.Position
}

// locationPosition is the position used for the location-familiarity
// lookup: the target entity's position if there is one, else the
// actor's.
func (c ActionContext) locationPosition() types.Position {
	if c.TargetPosition != nil {
		return *c.TargetPosition
	}
	return c.ActorPosition
}

func (c ActionContext) actorFamiliarity() float32 {
	rel, ok := c.Observer.RelationshipTo(c.Memory.Actor)
	if !ok {
		return 0
	}
	return rel.Familiarity
}

func (c ActionContext) locationFamiliarity() float32 {
	rel, ok := c.Observer.RelationshipAtLocation(c.locationPosition())
	if !ok {
		return 0
	}
	return rel.Familiarity
}

// Evaluate returns the signed drive deltas an observer experiences from
// witnessing a single action, per the rule table in spec §4.3. Actions
// with no rule yield no deltas. The result is then amplified by the
// observer's current level on each matching drive.
func Evaluate(ctx ActionContext) []types.Drive {
	var raw []types.Drive

	actorFam := ctx.actorFamiliarity()
	locationFam := ctx.locationFamiliarity()

	switch ctx.Memory.Action {
	case types.Observe:
		mean := (actorFam + locationFam) / 2
		modulator := 1 + (1 - mean)
		raw = append(raw, types.Drive{Kind: types.Curiosity, Intensity: -0.1 * modulator})

	case types.Follow:
		modulator := 1 + actorFam
		raw = append(raw, types.Drive{Kind: types.Belonging, Intensity: -0.2 * modulator})

	case types.Rest:
		modulator := 1 + locationFam
		raw = append(raw, types.Drive{Kind: types.Sustenance, Intensity: -0.3 * modulator})
		if locationFam > 0.3 {
			raw = append(raw, types.Drive{Kind: types.Shelter, Intensity: -0.2 * locationFam})
		}
	}

	return amplify(raw, ctx.Observer)
}

// amplify scales each delta by (1 + observer's current level on that
// drive / 100). Deltas for drives the observer does not carry pass
// through unchanged.
func amplify(deltas []types.Drive, observer types.Agent) []types.Drive {
	out := make([]types.Drive, len(deltas))
	for i, delta := range deltas {
		level, ok := observer.Drive(delta.Kind)
		if !ok {
			out[i] = delta
			continue
		}
		delta.Intensity *= 1 + level.Intensity/100
		out[i] = delta
	}
	return out
}
