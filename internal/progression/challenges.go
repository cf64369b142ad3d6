package progression

import (
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
)

// TodaysChallenge returns the challenge scheduled for now's weekday.
func TodaysChallenge(now time.Time) catalog.DailyChallenge {
	all := catalog.DailyChallenges()
	weekday := now.Weekday()
	for _, c := range all {
		if c.DayOfWeek == weekday {
			return c
		}
	}
	return all[0]
}

// ChallengeCompleted is true only when every problem of the challenge is completed.
func ChallengeCompleted(challenge catalog.DailyChallenge, completed []int) bool {
	if len(challenge.ProblemIDs) == 0 {
		return false
	}
	set := levelSet(completed)
	for _, id := range challenge.ProblemIDs {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// ChallengeProblems resolves a challenge's problem ids to catalog levels.
func ChallengeProblems(challenge catalog.DailyChallenge) []catalog.Level {
	out := make([]catalog.Level, 0, len(challenge.ProblemIDs))
	for _, id := range challenge.ProblemIDs {
		if level, ok := catalog.LevelByID(id); ok {
			out = append(out, level)
		}
	}
	return out
}

// WeeklyTaskProgress computes a task's progress, capped at its requirement.
func WeeklyTaskProgress(task catalog.WeeklyTask, completed []int, xp, streak int) int {
	var raw int
	switch task.Type {
	case catalog.TaskCompleteLevels:
		raw = len(levelSet(completed))
	case catalog.TaskEarnXP:
		raw = xp
	case catalog.TaskSolveConcept:
		if task.Concept == "" {
			return 0
		}
		set := levelSet(completed)
		for _, level := range catalog.LevelsByConcept(task.Concept) {
			if _, ok := set[level.ID]; ok {
				raw++
			}
		}
	case catalog.TaskDailyStreak:
		raw = streak
	default:
		return 0
	}
	return capAt(raw, task.Requirement)
}

func capAt(value, limit int) int {
	if value < 0 {
		return 0
	}
	if value > limit {
		return limit
	}
	return value
}

// DailyStatus is today's challenge with derived completion.
type DailyStatus struct {
	Challenge catalog.DailyChallenge `json:"challenge"`
	Completed bool                   `json:"completed"`
	Remaining []int                  `json:"remaining"`
}

// TodayStatus evaluates today's challenge.
func TodayStatus(now time.Time, completed []int) DailyStatus {
	challenge := TodaysChallenge(now)
	set := levelSet(completed)
	remaining := make([]int, 0)
	for _, id := range challenge.ProblemIDs {
		if _, ok := set[id]; !ok {
			remaining = append(remaining, id)
		}
	}
	return DailyStatus{
		Challenge: challenge,
		Completed: ChallengeCompleted(challenge, completed),
		Remaining: remaining,
	}
}

// WeeklyStatus is a weekly task with derived progress.
type WeeklyStatus struct {
	Task      catalog.WeeklyTask `json:"task"`
	Progress  int                `json:"progress"`
	Completed bool               `json:"completed"`
}

// WeeklyStatuses evaluates every weekly task.
func WeeklyStatuses(completed []int, xp, streak int) []WeeklyStatus {
	all := catalog.WeeklyTasks()
	out := make([]WeeklyStatus, 0, len(all))
	for _, task := range all {
		progress := WeeklyTaskProgress(task, completed, xp, streak)
		out = append(out, WeeklyStatus{Task: task, Progress: progress, Completed: progress >= task.Requirement})
	}
	return out
}
