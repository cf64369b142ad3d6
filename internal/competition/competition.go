// Package competition keeps short-lived entry-fee matches for a browser client.
// Nothing here is persisted.
package competition

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrNotFound indicates an unknown competition id.
	ErrNotFound = errors.New("competition not found")
	// ErrResolved indicates a join after the winner was drawn.
	ErrResolved = errors.New("competition already resolved")
	// ErrInvalidEntry indicates an entry fee outside the payout table.
	ErrInvalidEntry = errors.New("unsupported entry fee")
	// ErrInvalidPlayers indicates an unsupported player count.
	ErrInvalidPlayers = errors.New("unsupported player count")
	// ErrMissingParticipant indicates an empty participant id.
	ErrMissingParticipant = errors.New("participant is required")
)

// payouts maps each accepted entry fee to the winner's prize.
var payouts = map[int]int{
	20:  30,
	50:  70,
	100: 150,
}

var allowedPlayers = []int{2, 3, 4}

// Payout returns the winner's prize for an entry fee.
func Payout(entry int) (int, error) {
	payout, ok := payouts[entry]
	if !ok {
		return 0, ErrInvalidEntry
	}
	return payout, nil
}

// Competition is one match. It becomes immutable once Resolved is set.
type Competition struct {
	ID            string     `json:"id"`
	CreatedBy     string     `json:"createdBy"`
	PlayersNeeded int        `json:"playersNeeded"`
	Entry         int        `json:"entry"`
	Participants  []string   `json:"participants"`
	Pool          int        `json:"pool"`
	Resolved      bool       `json:"resolved"`
	Winner        string     `json:"winner,omitempty"`
	WinnerPayout  int        `json:"winnerPayout"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

func (c *Competition) clone() Competition {
	out := *c
	out.Participants = slices.Clone(c.Participants)
	if c.ResolvedAt != nil {
		at := *c.ResolvedAt
		out.ResolvedAt = &at
	}
	return out
}

// EntryOption is one selectable entry fee with its prize.
type EntryOption struct {
	Entry  int `json:"entry"`
	Payout int `json:"payout"`
}

// Options lists what Create accepts.
type Options struct {
	Players []int         `json:"players"`
	Entries []EntryOption `json:"entries"`
}

// AllowedOptions returns the accepted player counts and entry fees, entries ascending.
func AllowedOptions() Options {
	entries := make([]EntryOption, 0, len(payouts))
	for entry, payout := range payouts {
		entries = append(entries, EntryOption{Entry: entry, Payout: payout})
	}
	slices.SortFunc(entries, func(a, b EntryOption) int { return a.Entry - b.Entry })
	return Options{Players: slices.Clone(allowedPlayers), Entries: entries}
}
