package progress

import (
	"context"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
	"github.com/Rahi-sm99/CodeQuest/internal/progression"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/events"
)

func (s *service) Tasks(ctx context.Context, clientID string) (*TaskProgress, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	return s.loadTasks(ctx, clientID)
}

func (s *service) RecordDailyCompletion(ctx context.Context, clientID, challengeID string, now time.Time) (*TaskProgress, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	if _, ok := catalog.DailyChallengeByID(challengeID); !ok {
		return nil, ErrUnknownChallenge
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	tasks, err := s.loadTasks(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !markDaily(tasks, challengeID, now) {
		return tasks, nil
	}
	if err := s.writeJSON(ctx, clientID, KeyTaskProgress, tasks); err != nil {
		return nil, err
	}
	s.sink(ctx, events.ProgressChanged{Kind: events.KindDailyCompleted, ClientID: clientID, ItemID: challengeID, At: now})
	return tasks, nil
}

func (s *service) UpdateWeeklyTask(ctx context.Context, clientID, taskID string, progress int, completed bool) (*TaskProgress, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	task, ok := catalog.WeeklyTaskByID(taskID)
	if !ok {
		return nil, ErrUnknownTask
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	tasks, err := s.loadTasks(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !setWeekly(tasks, task, progress, completed) {
		return tasks, nil
	}
	if err := s.writeJSON(ctx, clientID, KeyTaskProgress, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Evaluate re-derives today's challenge and the weekly tasks from the current profile and stores any change.
func (s *service) Evaluate(ctx context.Context, clientID string, now time.Time) (*TaskProgress, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	profile, err := s.loadCurrent(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoSession
	}
	tasks, err := s.loadTasks(ctx, clientID)
	if err != nil {
		return nil, err
	}

	changed := false
	today := progression.TodaysChallenge(now)
	dailyDone := false
	if progression.ChallengeCompleted(today, profile.CompletedLevels) && markDaily(tasks, today.ID, now) {
		changed = true
		dailyDone = true
	}
	for _, task := range catalog.WeeklyTasks() {
		progress := progression.WeeklyTaskProgress(task, profile.CompletedLevels, profile.XP, tasks.CurrentStreak)
		if setWeekly(tasks, task, progress, progress >= task.Requirement) {
			changed = true
		}
	}

	if !changed {
		return tasks, nil
	}
	if err := s.writeJSON(ctx, clientID, KeyTaskProgress, tasks); err != nil {
		return nil, err
	}
	if dailyDone {
		s.sink(ctx, events.ProgressChanged{
			Kind:      events.KindDailyCompleted,
			ClientID:  clientID,
			ProfileID: profile.ID,
			Email:     profile.Email,
			XPBefore:  profile.XP,
			XPAfter:   profile.XP,
			ItemID:    today.ID,
			At:        now,
		})
	}
	return tasks, nil
}

func (s *service) loadTasks(ctx context.Context, clientID string) (*TaskProgress, error) {
	tasks := newTaskProgress()
	found, err := s.readJSON(ctx, clientID, KeyTaskProgress, tasks)
	if err != nil {
		return nil, err
	}
	if !found {
		return newTaskProgress(), nil
	}
	tasks.normalize()
	return tasks, nil
}

// markDaily records a first completion of challengeID and advances the streak.
func markDaily(tasks *TaskProgress, challengeID string, now time.Time) bool {
	if tasks.Daily[challengeID].Completed {
		return false
	}
	tasks.Daily[challengeID] = DailyRecord{Completed: true, CompletedAt: now}

	switch {
	case progression.SameDay(tasks.LastCompletedDate, now):
		if tasks.CurrentStreak == 0 {
			tasks.CurrentStreak = 1
		}
	case progression.StreakDelta(tasks.LastCompletedDate, now) == 1:
		tasks.CurrentStreak++
	default:
		tasks.CurrentStreak = 1
	}
	if tasks.CurrentStreak > tasks.LongestStreak {
		tasks.LongestStreak = tasks.CurrentStreak
	}
	tasks.LastCompletedDate = now
	return true
}

// setWeekly stores capped progress. A completed flag never reverts.
func setWeekly(tasks *TaskProgress, task catalog.WeeklyTask, progress int, completed bool) bool {
	if progress < 0 {
		progress = 0
	}
	if progress > task.Requirement {
		progress = task.Requirement
	}
	prev := tasks.Weekly[task.ID]
	next := WeeklyRecord{Progress: progress, Completed: prev.Completed || completed}
	if next == prev {
		if _, ok := tasks.Weekly[task.ID]; ok {
			return false
		}
	}
	tasks.Weekly[task.ID] = next
	return true
}
