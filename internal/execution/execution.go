// Package execution applies an agent's selected action to the world.
// Only Move and Follow move an entity; every other action kind was
// already fully accounted for by selection's drive impacts and is a
// pass-through here.
package execution

import (
	"math"
	"math/rand"

	"github.com/vthunder/emberworld/internal/types"
)

// WorldSize bounds untargeted movement to [0, WorldSize]^2.
const WorldSize = 1000

const (
	arrivalThreshold = 10
	maxStep          = 30
	minFreeSpeed     = 5
	maxFreeSpeed     = 20
)

// Apply executes actor's current action against world, returning the
// actor's updated entity position. Non-movement actions return the
// actor unchanged.
func Apply(world types.World, actor types.Agent, rng *rand.Rand) types.Agent {
	action := actor.Identity.CurrentAction
	if action == nil {
		return actor
	}

	switch *action {
	case types.Move, types.Follow:
		if target, ok := resolveTarget(world, actor.Identity.Target); ok {
			return moveToward(actor, target)
		}
		if actor.Identity.Target.IsNone() {
			return moveFree(actor, rng)
		}
		return actor
	default:
		return actor
	}
}

func resolveTarget(world types.World, target types.TargetRef) (types.Position, bool) {
	if target.IsEntity() {
		if other, ok := world.AgentByID(target.EntityID); ok {
			return other.Identity.Entity.Position, true
		}
		return types.Position{}, false
	}
	if target.IsObject() {
		if obj, ok := world.ObjectByID(target.ObjectID); ok {
			return obj.Entity.Position, true
		}
		return types.Position{}, false
	}
	return types.Position{}, false
}

func moveToward(actor types.Agent, target types.Position) types.Agent {
	self := actor.Identity.Entity.Position
	dx := target.X - self.X
	dy := target.Y - self.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist < arrivalThreshold {
		return actor
	}

	step := dist
	if step > maxStep {
		step = maxStep
	}
	next := types.Position{
		X: self.X + dx/dist*step,
		Y: self.Y + dy/dist*step,
	}
	return withPosition(actor, next)
}

func moveFree(actor types.Agent, rng *rand.Rand) types.Agent {
	self := actor.Identity.Entity.Position
	angle := rng.Float64() * 2 * math.Pi
	speed := minFreeSpeed + rng.Float32()*(maxFreeSpeed-minFreeSpeed)
	next := types.Position{
		X: clamp(self.X+speed*float32(math.Cos(angle)), 0, WorldSize),
		Y: clamp(self.Y+speed*float32(math.Sin(angle)), 0, WorldSize),
	}
	return withPosition(actor, next)
}

func withPosition(actor types.Agent, next types.Position) types.Agent {
	out := actor
	entity := actor.Identity.Entity
	entity.Position = next
	out.Identity.Entity = entity
	return out
}

func clamp(v, lo, hi float32) float32 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
