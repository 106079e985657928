// Package drives implements the natural per-tick growth of an agent's
// emotional drives. It generalizes the teacher's internal/buffer
// accumulate-then-clamp shape (ConversationBuffer.SetLimits threshold
// math) from token counts to drive intensity: both grow a running
// quantity by a configured rate and refuse to let it exceed a ceiling.
package drives

import "github.com/vthunder/emberworld/internal/types"

// Parameters tunes how quickly drives grow. GrowthModifier gives a
// per-kind multiplier; a kind absent from the map defaults to 1.0.
type Parameters struct {
	BaseGrowthRate   float32
	IntensityFactor  float32
	GrowthModifier   map[types.DriveKind]float32
}

func (p Parameters) modifierFor(kind types.DriveKind) float32 {
	if m, ok := p.GrowthModifier[kind]; ok {
		return m
	}
	return 1.0
}

// Update advances a single drive by ticksElapsed ticks, per spec §4.2:
//
//	increase = base_growth_rate * modifier(kind) * (1 + intensity/100*intensity_factor) * ticksElapsed
//	new = min(100, intensity + increase)
//
// Higher-intensity drives grow faster; the only ceiling on the runaway
// is the final clamp. Intensity never decreases here.
func Update(d types.Drive, p Parameters, ticksElapsed uint64) types.Drive {
	increase := p.BaseGrowthRate * p.modifierFor(d.Kind) *
		(1 + d.Intensity/100*p.IntensityFactor) * float32(ticksElapsed)
	d.Intensity += increase
	return d.Clamped()
}

// UpdateAgent replaces every drive an agent carries with its advanced
// value; the rest of the agent record is unchanged.
func UpdateAgent(a types.Agent, p Parameters, ticksElapsed uint64) types.Agent {
	out := a
	out.Drives = make([]types.Drive, len(a.Drives))
	for i, d := range a.Drives {
		out.Drives[i] = Update(d, p, ticksElapsed)
	}
	return out
}
