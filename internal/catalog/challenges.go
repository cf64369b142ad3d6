package catalog

import (
	"slices"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DailyChallenge is the fixed challenge for one weekday.
type DailyChallenge struct {
	ID          string       `json:"id"`
	Day         string       `json:"day"`
	DayOfWeek   time.Weekday `json:"dayOfWeek"`
	Concept     string       `json:"concept"`
	ProblemIDs  []int        `json:"problemIds"`
	XPReward    int          `json:"reward"`
	Difficulty  Difficulty   `json:"difficulty"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
}

// WeeklyTaskType selects the metric a weekly task tracks.
type WeeklyTaskType string

const (
	TaskCompleteLevels WeeklyTaskType = "complete_levels"
	TaskEarnXP         WeeklyTaskType = "earn_xp"
	TaskSolveConcept   WeeklyTaskType = "solve_concept"
	TaskDailyStreak    WeeklyTaskType = "daily_streak"
)

// WeeklyTask is an immutable weekly goal.
type WeeklyTask struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Requirement int            `json:"requirement"`
	XPReward    int            `json:"reward"`
	Icon        string         `json:"icon"`
	Type        WeeklyTaskType `json:"type"`
	Concept     string         `json:"concept,omitempty"`
}

var dayLabel = cases.Upper(language.English)

func daily(id string, day time.Weekday, concept string, problems []int, reward int, difficulty Difficulty, description, icon string) DailyChallenge {
	return DailyChallenge{
		ID:          id,
		Day:         dayLabel.String(day.String()[:3]),
		DayOfWeek:   day,
		Concept:     concept,
		ProblemIDs:  problems,
		XPReward:    reward,
		Difficulty:  difficulty,
		Description: description,
		Icon:        icon,
	}
}

var dailyChallenges = []DailyChallenge{
	daily("monday_arrays", time.Monday, "Arrays", []int{10, 11, 12}, 50, DifficultyEasy, "Master array manipulation basics", "📊"),
	daily("tuesday_strings", time.Tuesday, "Strings", []int{20, 21, 22}, 60, DifficultyMedium, "String processing challenges", "📝"),
	daily("wednesday_linkedlists", time.Wednesday, "Linked Lists", []int{30, 31, 32}, 75, DifficultyHard, "Linked list operations", "🔗"),
	daily("thursday_stacks", time.Thursday, "Stacks & Queues", []int{40, 41, 42}, 70, DifficultyMedium, "Stack and queue problems", "📚"),
	daily("friday_trees", time.Friday, "Trees", []int{50, 51, 52}, 100, DifficultyExpert, "Tree traversal and manipulation", "🌳"),
	daily("saturday_graphs", time.Saturday, "Graphs", []int{60, 61, 62}, 120, DifficultyExpert, "Graph algorithms challenge", "🕸️"),
	daily("sunday_dp", time.Sunday, "Dynamic Programming", []int{70, 71, 72}, 150, DifficultyExpert, "Dynamic programming mastery", "🧠"),
}

var weeklyTasks = []WeeklyTask{
	{ID: "complete_10_levels", Title: "LEVEL CRUSHER", Description: "Complete 10 levels this week", Requirement: 10, XPReward: 200, Icon: "🎯", Type: TaskCompleteLevels},
	{ID: "earn_500_xp", Title: "XP HUNTER", Description: "Earn 500 XP this week", Requirement: 500, XPReward: 150, Icon: "⚡", Type: TaskEarnXP},
	{ID: "solve_arrays", Title: "ARRAY MASTER", Description: "Solve 5 array problems", Requirement: 5, XPReward: 100, Icon: "📊", Type: TaskSolveConcept, Concept: "Arrays"},
	{ID: "daily_streak_7", Title: "CONSISTENCY KING", Description: "Maintain a 7-day streak", Requirement: 7, XPReward: 300, Icon: "🔥", Type: TaskDailyStreak},
}

func cloneDaily(c DailyChallenge) DailyChallenge {
	c.ProblemIDs = slices.Clone(c.ProblemIDs)
	return c
}

// DailyChallenges returns the weekly rotation, Monday first.
func DailyChallenges() []DailyChallenge {
	out := make([]DailyChallenge, len(dailyChallenges))
	for i, c := range dailyChallenges {
		out[i] = cloneDaily(c)
	}
	return out
}

// DailyChallengeByID looks up a daily challenge.
func DailyChallengeByID(id string) (DailyChallenge, bool) {
	for _, c := range dailyChallenges {
		if c.ID == id {
			return cloneDaily(c), true
		}
	}
	return DailyChallenge{}, false
}

// WeeklyTasks returns the weekly task definitions.
func WeeklyTasks() []WeeklyTask {
	out := make([]WeeklyTask, len(weeklyTasks))
	copy(out, weeklyTasks)
	return out
}

// WeeklyTaskByID looks up a weekly task.
func WeeklyTaskByID(id string) (WeeklyTask, bool) {
	for _, t := range weeklyTasks {
		if t.ID == id {
			return t, true
		}
	}
	return WeeklyTask{}, false
}
