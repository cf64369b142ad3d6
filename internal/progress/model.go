package progress

import (
	"context"
	"slices"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
)

// Storage keys inside a client namespace.
const (
	KeyCurrentUser  = "codequest_user"
	KeyKnownUsers   = "codequest_users"
	KeyTaskProgress = "codequest_task_progress"
)

// DefaultLanguage is assigned to new profiles.
const DefaultLanguage = "python"

// Profile is a learner's persisted progress.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Avatar          string    `json:"avatar,omitempty"`
	Provider        string    `json:"provider"`
	Language        string    `json:"language"`
	XP              int       `json:"xp"`
	CompletedLevels []int     `json:"completedLevels"`
	Badges          []string  `json:"badges"`
	Certificates    []string  `json:"certificates"`
	IsFirstLogin    bool      `json:"isFirstLogin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p *Profile) clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.CompletedLevels = slices.Clone(p.CompletedLevels)
	out.Badges = slices.Clone(p.Badges)
	out.Certificates = slices.Clone(p.Certificates)
	return &out
}

func (p *Profile) normalize() {
	if p.CompletedLevels == nil {
		p.CompletedLevels = []int{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.Certificates == nil {
		p.Certificates = []string{}
	}
}

// Identity is what a login provider tells us about the learner.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

// knownProfile is one entry of the all-known-profiles collection. The
// password hash never leaves this record.
type knownProfile struct {
	Profile      *Profile `json:"profile"`
	PasswordHash string   `json:"passwordHash,omitempty"`
}

// DailyRecord is the stored completion of one daily challenge.
type DailyRecord struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
}

// WeeklyRecord is the last known progress of one weekly task.
type WeeklyRecord struct {
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

// TaskProgress is the persisted task record of a browser client.
type TaskProgress struct {
	Daily             map[string]DailyRecord  `json:"dailyChallenges"`
	Weekly            map[string]WeeklyRecord `json:"weeklyTasks"`
	CurrentStreak     int                     `json:"currentStreak"`
	LongestStreak     int                     `json:"longestStreak"`
	LastCompletedDate time.Time               `json:"lastCompletedDate,omitempty"`
}

func newTaskProgress() *TaskProgress {
	return &TaskProgress{
		Daily:  map[string]DailyRecord{},
		Weekly: map[string]WeeklyRecord{},
	}
}

func (t *TaskProgress) normalize() {
	if t.Daily == nil {
		t.Daily = map[string]DailyRecord{}
	}
	if t.Weekly == nil {
		t.Weekly = map[string]WeeklyRecord{}
	}
}

// Snapshot is the profile and task record read together.
type Snapshot struct {
	Profile *Profile      `json:"profile"`
	Tasks   *TaskProgress `json:"tasks"`
}

// Storage is a per-client key/value store.
type Storage interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

// Service defines the progress store operations. Every call is scoped to one browser client.
type Service interface {
	Load(ctx context.Context, clientID string) (*Profile, error)
	CreateProfile(ctx context.Context, clientID string, identity Identity) (*Profile, error)
	LoginWithPassword(ctx context.Context, clientID, email, password string) (*Profile, error)
	LoginWithIdentity(ctx context.Context, clientID string, identity Identity) (*Profile, error)
	AwardProgress(ctx context.Context, clientID string, xp int, completed []int) (*Profile, error)
	CompleteLevel(ctx context.Context, clientID string, levelID int) (*Profile, bool, error)
	SetLanguage(ctx context.Context, clientID, language string) (*Profile, error)
	SetProfile(ctx context.Context, clientID, name, language string) (*Profile, error)
	AwardBadge(ctx context.Context, clientID, badgeID string) (*Profile, error)
	AwardCertificate(ctx context.Context, clientID, certificateID string) (*Profile, error)
	AwardEarnedBadge(ctx context.Context, clientID string, badge catalog.Badge) (*Profile, error)
	AwardEarnedCertificate(ctx context.Context, clientID string, cert catalog.Certification) (*Profile, error)
	Redeem(ctx context.Context, clientID, rewardID string, cost int) (*Profile, error)
	CompleteOnboarding(ctx context.Context, clientID string) (*Profile, error)
	Clear(ctx context.Context, clientID string) error

	Tasks(ctx context.Context, clientID string) (*TaskProgress, error)
	RecordDailyCompletion(ctx context.Context, clientID, challengeID string, now time.Time) (*TaskProgress, error)
	UpdateWeeklyTask(ctx context.Context, clientID, taskID string, progress int, completed bool) (*TaskProgress, error)
	Evaluate(ctx context.Context, clientID string, now time.Time) (*TaskProgress, error)
	Snapshot(ctx context.Context, clientID string) (*Snapshot, error)
}
