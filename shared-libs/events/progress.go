package events

import (
	"context"
	"log/slog"
	"time"
)

// Kind names a progress change.
type Kind string

const (
	KindProfileCreated     Kind = "profile.created"
	KindSessionStarted     Kind = "session.started"
	KindSessionCleared     Kind = "session.cleared"
	KindProgressAwarded    Kind = "progress.awarded"
	KindLevelCompleted     Kind = "level.completed"
	KindBadgeAwarded       Kind = "badge.awarded"
	KindCertificateAwarded Kind = "certificate.awarded"
	KindRewardRedeemed     Kind = "reward.redeemed"
	KindDailyCompleted     Kind = "daily.completed"
)

// ProgressChanged describes one mutation of a browser client's progress record.
type ProgressChanged struct {
	Kind      Kind      `json:"kind"`
	ClientID  string    `json:"clientId"`
	ProfileID string    `json:"profileId,omitempty"`
	Email     string    `json:"email,omitempty"`
	XPBefore  int       `json:"xpBefore"`
	XPAfter   int       `json:"xpAfter"`
	ItemID    string    `json:"itemId,omitempty"`
	At        time.Time `json:"at"`
}

// Sink receives progress changes after they are persisted.
type Sink func(ctx context.Context, event ProgressChanged)

// Discard drops every event.
func Discard(context.Context, ProgressChanged) {}

// LogSink writes each event as a structured info line.
func LogSink(logger *slog.Logger) Sink {
	return func(ctx context.Context, event ProgressChanged) {
		logger.InfoContext(ctx, "progress changed",
			slog.String("kind", string(event.Kind)),
			slog.String("clientId", event.ClientID),
			slog.String("profileId", event.ProfileID),
			slog.Int("xpBefore", event.XPBefore),
			slog.Int("xpAfter", event.XPAfter),
			slog.String("itemId", event.ItemID),
		)
	}
}
