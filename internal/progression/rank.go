package progression

import "github.com/Rahi-sm99/CodeQuest/internal/catalog"

// XPPerLevel is the fixed tier size.
const XPPerLevel = 100

// UserLevel is floor(xp/100)+1. Negative xp is treated as 0.
func UserLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPToNextLevel is the XP still needed to reach the next tier.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return XPPerLevel - xp%XPPerLevel
}

// RankFor selects the highest rank whose threshold is at or below level.
func RankFor(level int) catalog.Rank {
	ranks := catalog.Ranks()
	best := ranks[0]
	for _, r := range ranks {
		if r.MinLevel <= level {
			best = r
		}
	}
	return best
}
