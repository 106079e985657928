package selection

import "github.com/vthunder/emberworld/internal/types"

// GenerateOptions produces every candidate action for chooser, in a
// fixed order — primitives first (agents then objects, in world order,
// then the untargeted options in a fixed order), then memory-derived
// options — so that score ties break deterministically on the prior
// sort order, per spec §9.
func GenerateOptions(world types.World, chooser types.Agent) []Option {
	self := chooser.Identity.Entity.Position
	var options []Option

	for _, other := range world.Agents {
		if other.ID() == chooser.ID() {
			continue
		}
		if self.Distance(other.Identity.Entity.Position) > socialRadius {
			continue
		}
		target := types.TargetEntity(other.ID())
		options = append(options,
			Option{Action: types.Follow, Target: target, Impacts: []types.Drive{{Kind: types.Belonging, Intensity: -0.3}}},
			Option{Action: types.Observe, Target: target, Impacts: []types.Drive{{Kind: types.Curiosity, Intensity: -0.2}}},
		)
	}

	for _, obj := range world.Objects {
		if self.Distance(obj.Entity.Position) > objectRadius {
			continue
		}
		target := types.TargetObject(obj.Entity.ID)
		options = append(options, Option{Action: types.Observe, Target: target, Impacts: []types.Drive{{Kind: types.Curiosity, Intensity: -0.2}}})
		switch obj.Category {
		case types.Food:
			options = append(options, Option{Action: types.Take, Target: target, Impacts: []types.Drive{{Kind: types.Sustenance, Intensity: -0.5}}})
		case types.Structure:
			options = append(options, Option{Action: types.Rest, Target: target, Impacts: []types.Drive{
				{Kind: types.Shelter, Intensity: -0.4},
				{Kind: types.Sustenance, Intensity: -0.3},
			}})
		}
	}

	options = append(options,
		Option{Action: types.Move, Target: types.TargetNone(), Impacts: []types.Drive{{Kind: types.Curiosity, Intensity: -0.2}}},
		Option{Action: types.Build, Target: types.TargetNone(), Impacts: []types.Drive{
			{Kind: types.Shelter, Intensity: -0.3},
			{Kind: types.Pride, Intensity: -0.2},
		}},
		Option{Action: types.Gesture, Target: types.TargetNone(), Impacts: []types.Drive{{Kind: types.Pride, Intensity: -0.3}}},
	)

	options = append(options, memoryOptions(world, chooser)...)
	return options
}

// memoryOptions replays the first step of every episode reinforced
// twice or more, rejecting any whose target can no longer be found in
// the current world.
func memoryOptions(world types.World, chooser types.Agent) []Option {
	var options []Option
	for _, ep := range chooser.EpisodicMemory {
		if ep.RepetitionCount < 2 || len(ep.Sequence.Steps) == 0 {
			continue
		}
		first := ep.Sequence.Steps[0].Entry
		if first.Target.IsEntity() {
			if _, ok := world.AgentByID(first.Target.EntityID); !ok {
				continue
			}
		} else if first.Target.IsObject() {
			if _, ok := world.ObjectByID(first.Target.ObjectID); !ok {
				continue
			}
		}
		options = append(options, Option{
			Action:     first.Action,
			Target:     first.Target,
			Impacts:    ep.DriveImpacts,
			FromMemory: true,
		})
	}
	return options
}
