package progression

import "github.com/Rahi-sm99/CodeQuest/internal/catalog"

// AchievementProgress is one progress bar.
type AchievementProgress struct {
	Achievement catalog.Achievement `json:"achievement"`
	Current     int                 `json:"current"`
	Total       int                 `json:"total"`
	Unlocked    bool                `json:"unlocked"`
	Tracked     bool                `json:"tracked"`
}

// Achievements computes every bar from the completed-level count and XP.
func Achievements(completedCount, xp int) []AchievementProgress {
	all := catalog.Achievements()
	out := make([]AchievementProgress, 0, len(all))
	for _, a := range all {
		var raw int
		tracked := true
		switch a.Metric {
		case catalog.MetricLevelsCompleted:
			raw = completedCount
		case catalog.MetricXP:
			raw = xp
		default:
			tracked = false
		}
		current := capAt(raw, a.Total)
		out = append(out, AchievementProgress{
			Achievement: a,
			Current:     current,
			Total:       a.Total,
			Unlocked:    tracked && current >= a.Total,
			Tracked:     tracked,
		})
	}
	return out
}

// CertificationEarned reports whether every level the certification needs is completed.
func CertificationEarned(cert catalog.Certification, completed []int) bool {
	required := cert.RequiredLevelIDs()
	if len(required) == 0 {
		return false
	}
	set := levelSet(completed)
	for _, id := range required {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// CertificationStatus is a certification with its derived state.
type CertificationStatus struct {
	Certification catalog.Certification `json:"certification"`
	Eligible      bool                  `json:"eligible"`
	Earned        bool                  `json:"earned"`
}
