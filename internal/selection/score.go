package selection

import "github.com/vthunder/emberworld/internal/types"

// Score rates an option as drive_score + preference_score per spec
// §4.5. A more-negative impact on a more-intense current drive scores
// higher; drives whose current intensity is below 0.1 are skipped
// (vestigial: negative intensities never arise since Drive.Clamped
// floors at 0, but the skip is preserved as specified — see spec §9).
func Score(opt Option, observerDrives []types.Drive, c Criteria) float32 {
	var score float32
	for _, d := range observerDrives {
		if abs32(d.Intensity) < 0.1 {
			continue
		}
		for _, i := range opt.Impacts {
			if i.Kind == d.Kind {
				score += -i.Intensity * d.Intensity
			}
		}
	}

	if opt.FromMemory {
		score += 10 * c.FamiliarityPreference
	}
	if opt.Target.IsEntity() {
		score += 5 * c.SocialPreference
	}
	return score
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
