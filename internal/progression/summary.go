package progression

import (
	"slices"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
)

// Input is the raw progress a Summary is derived from.
type Input struct {
	XP                 int
	CompletedLevels    []int
	Streak             int
	AwardedBadges      []string
	EarnedCertificates []string
	Now                time.Time
}

// Summary aggregates everything the dashboard shows.
type Summary struct {
	Level                 int                        `json:"level"`
	Rank                  catalog.Rank               `json:"rank"`
	XP                    int                        `json:"xp"`
	XPToNextLevel         int                        `json:"xpToNextLevel"`
	NextLevel             int                        `json:"nextLevel"`
	CompletedCount        int                        `json:"completedCount"`
	CompletedByDifficulty map[catalog.Difficulty]int `json:"completedByDifficulty"`
	Streak                int                        `json:"streak"`
	Badges                []BadgeStatus              `json:"badges"`
	Regions               []RegionStatus             `json:"regions"`
	Today                 DailyStatus                `json:"today"`
	Weekly                []WeeklyStatus             `json:"weekly"`
	Achievements          []AchievementProgress      `json:"achievements"`
	Certifications        []CertificationStatus      `json:"certifications"`
}

// Summarize derives a Summary.
func Summarize(in Input) Summary {
	stats := NewStats(in.XP, in.CompletedLevels, in.Streak)
	level := UserLevel(in.XP)

	certs := catalog.Certifications()
	certStatuses := make([]CertificationStatus, 0, len(certs))
	for _, c := range certs {
		certStatuses = append(certStatuses, CertificationStatus{
			Certification: c,
			Eligible:      CertificationEarned(c, stats.CompletedLevels),
			Earned:        slices.Contains(in.EarnedCertificates, c.ID),
		})
	}

	return Summary{
		Level:                 level,
		Rank:                  RankFor(level),
		XP:                    in.XP,
		XPToNextLevel:         XPToNextLevel(in.XP),
		NextLevel:             NextLevel(stats.CompletedLevels),
		CompletedCount:        len(stats.CompletedLevels),
		CompletedByDifficulty: stats.CompletedByDifficulty,
		Streak:                in.Streak,
		Badges:                BadgeStatuses(stats, in.AwardedBadges),
		Regions:               RegionStatuses(stats.CompletedLevels),
		Today:                 TodayStatus(in.Now, stats.CompletedLevels),
		Weekly:                WeeklyStatuses(stats.CompletedLevels, in.XP, in.Streak),
		Achievements:          Achievements(len(stats.CompletedLevels), in.XP),
		Certifications:        certStatuses,
	}
}
