package progression

import (
	"slices"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
)

// RequirementMet evaluates a badge requirement. Thresholds are inclusive.
func RequirementMet(req catalog.Requirement, stats Stats) bool {
	switch r := req.(type) {
	case catalog.LevelsAtLeast:
		return len(stats.CompletedLevels) >= r.N
	case catalog.XPAtLeast:
		return stats.UserXP >= r.N
	case catalog.RegionComplete:
		return slices.Contains(stats.CompletedRegions, r.RegionID)
	case catalog.DifficultyCountAtLeast:
		return stats.CompletedByDifficulty[r.Difficulty] >= r.N
	case catalog.Special:
		// No event source records these.
		return false
	default:
		return false
	}
}

// Tracked reports whether a requirement can ever be met.
func Tracked(req catalog.Requirement) bool {
	_, special := req.(catalog.Special)
	return !special
}

// BadgeUnlocked reports whether the badge's requirement holds for stats.
func BadgeUnlocked(badge catalog.Badge, stats Stats) bool {
	return RequirementMet(badge.Requirement, stats)
}

// BadgeStatus pairs a badge with its derived state.
type BadgeStatus struct {
	Badge    catalog.Badge `json:"badge"`
	Unlocked bool          `json:"unlocked"`
	Tracked  bool          `json:"tracked"`
	Awarded  bool          `json:"awarded"`
}

// BadgeStatuses evaluates every badge. awarded lists badge ids stored on the profile.
func BadgeStatuses(stats Stats, awarded []string) []BadgeStatus {
	all := catalog.Badges()
	out := make([]BadgeStatus, 0, len(all))
	for _, b := range all {
		out = append(out, BadgeStatus{
			Badge:    b,
			Unlocked: BadgeUnlocked(b, stats),
			Tracked:  Tracked(b.Requirement),
			Awarded:  slices.Contains(awarded, b.ID),
		})
	}
	return out
}
