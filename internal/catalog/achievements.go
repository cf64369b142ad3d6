package catalog

// AchievementMetric is the raw counter an achievement bar is measured on.
type AchievementMetric string

const (
	MetricLevelsCompleted AchievementMetric = "levels_completed"
	MetricXP              AchievementMetric = "xp"
	// MetricUntracked marks achievements with no event source; their progress is always 0.
	MetricUntracked AchievementMetric = "untracked"
)

// Achievement is a progress bar definition.
type Achievement struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Metric      AchievementMetric `json:"metric"`
	Total       int               `json:"total"`
}

var achievements = []Achievement{
	{ID: "first_step", Name: "FIRST STEP", Description: "Complete Level 1", Icon: "👣", Metric: MetricLevelsCompleted, Total: 1},
	{ID: "early_bird", Name: "EARLY BIRD", Description: "Complete 5 Levels", Icon: "🐦", Metric: MetricLevelsCompleted, Total: 5},
	{ID: "rookie_coder", Name: "ROOKIE CODER", Description: "Complete 10 Levels", Icon: "💻", Metric: MetricLevelsCompleted, Total: 10},
	{ID: "quarter_master", Name: "QUARTER MASTER", Description: "Complete 25 Levels", Icon: "🎖️", Metric: MetricLevelsCompleted, Total: 25},
	{ID: "halfway_hero", Name: "HALFWAY HERO", Description: "Complete 50 Levels", Icon: "🦸", Metric: MetricLevelsCompleted, Total: 50},
	{ID: "veteran_warrior", Name: "VETERAN WARRIOR", Description: "Complete 75 Levels", Icon: "⚔️", Metric: MetricLevelsCompleted, Total: 75},
	{ID: "master_coder", Name: "MASTER CODER", Description: "Complete All 100 Levels", Icon: "👑", Metric: MetricLevelsCompleted, Total: 100},
	{ID: "xp_collector", Name: "XP COLLECTOR", Description: "Earn 1000+ XP", Icon: "💰", Metric: MetricXP, Total: 1000},
	{ID: "xp_millionaire", Name: "XP MILLIONAIRE", Description: "Earn 5000+ XP", Icon: "💎", Metric: MetricXP, Total: 5000},
	{ID: "xp_legend", Name: "XP LEGEND", Description: "Earn 10000+ XP", Icon: "🏆", Metric: MetricXP, Total: 10000},
	{ID: "speedrunner", Name: "SPEEDRUNNER", Description: "Complete 5 Levels in One Session", Icon: "⚡", Metric: MetricUntracked, Total: 5},
	{ID: "persistent", Name: "PERSISTENT", Description: "Login 7 Days in a Row", Icon: "📅", Metric: MetricUntracked, Total: 7},
	{ID: "perfectionist", Name: "PERFECTIONIST", Description: "Get 100% on 10 Levels", Icon: "🎯", Metric: MetricUntracked, Total: 10},
	{ID: "night_owl", Name: "NIGHT OWL", Description: "Complete a Level After Midnight", Icon: "🦉", Metric: MetricUntracked, Total: 1},
	{ID: "community_helper", Name: "COMMUNITY HELPER", Description: "Help 5 Other Users", Icon: "🤝", Metric: MetricUntracked, Total: 5},
	{ID: "array_master", Name: "ARRAY MASTER", Description: "Complete All Array Challenges", Icon: "📊", Metric: MetricUntracked, Total: 15},
	{ID: "tree_climber", Name: "TREE CLIMBER", Description: "Master Tree Data Structures", Icon: "🌳", Metric: MetricUntracked, Total: 12},
	{ID: "graph_explorer", Name: "GRAPH EXPLORER", Description: "Complete All Graph Problems", Icon: "🕸️", Metric: MetricUntracked, Total: 10},
	{ID: "dp_genius", Name: "DP GENIUS", Description: "Master Dynamic Programming", Icon: "🧠", Metric: MetricUntracked, Total: 8},
	{ID: "bug_hunter", Name: "BUG HUNTER", Description: "Debug 20 Code Solutions", Icon: "🐛", Metric: MetricUntracked, Total: 20},
}

// Achievements returns every achievement definition in display order.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}
