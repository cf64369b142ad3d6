// Package progression derives badges, region progress, challenge and task
// status, levels and ranks from a read-only progress snapshot. Every function
// is pure.
package progression

import "github.com/Rahi-sm99/CodeQuest/internal/catalog"

// Stats is the snapshot the badge predicates read.
type Stats struct {
	CompletedLevels       []int
	UserXP                int
	CompletedRegions      []string
	CompletedByDifficulty map[catalog.Difficulty]int
	Streak                int
}

// NewStats builds a snapshot from raw progress. Duplicate and unknown level ids count once and never respectively.
func NewStats(xp int, completed []int, streak int) Stats {
	unique := uniqueLevels(completed)
	byDifficulty := map[catalog.Difficulty]int{
		catalog.DifficultyEasy:   0,
		catalog.DifficultyMedium: 0,
		catalog.DifficultyHard:   0,
	}
	for _, id := range unique {
		if level, ok := catalog.LevelByID(id); ok {
			byDifficulty[level.Difficulty]++
		}
	}
	return Stats{
		CompletedLevels:       unique,
		UserXP:                xp,
		CompletedRegions:      CompletedRegions(unique),
		CompletedByDifficulty: byDifficulty,
		Streak:                streak,
	}
}

func uniqueLevels(completed []int) []int {
	seen := make(map[int]struct{}, len(completed))
	out := make([]int, 0, len(completed))
	for _, id := range completed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func levelSet(completed []int) map[int]struct{} {
	set := make(map[int]struct{}, len(completed))
	for _, id := range completed {
		set[id] = struct{}{}
	}
	return set
}

// NextLevel is the lowest level id not yet completed, or MaxLevelID when all are done.
func NextLevel(completed []int) int {
	set := levelSet(completed)
	for id := 1; id <= catalog.MaxLevelID; id++ {
		if _, ok := set[id]; !ok {
			return id
		}
	}
	return catalog.MaxLevelID
}
