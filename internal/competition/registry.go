package competition

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// Registry holds competitions per browser client.
type Registry struct {
	mu      sync.Mutex
	byOwner map[string][]*Competition
	pick    Picker
	now     func() time.Time
	newID   func() string
}

// NewRegistry creates an empty registry. A nil picker draws uniformly at random.
func NewRegistry(pick Picker) *Registry {
	if pick == nil {
		pick = rand.IntN
	}
	return &Registry{
		byOwner: make(map[string][]*Competition),
		pick:    pick,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Create opens a competition. The creator is not joined automatically.
func (r *Registry) Create(clientID, creator string, playersNeeded, entry int) (Competition, error) {
	if !slices.Contains(allowedPlayers, playersNeeded) {
		return Competition{}, ErrInvalidPlayers
	}
	payout, err := Payout(entry)
	if err != nil {
		return Competition{}, err
	}

	c := &Competition{
		ID:            r.newID(),
		CreatedBy:     creator,
		PlayersNeeded: playersNeeded,
		Entry:         entry,
		Participants:  []string{},
		Pool:          playersNeeded * entry,
		WinnerPayout:  payout,
		CreatedAt:     r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOwner[clientID] = append(r.byOwner[clientID], c)
	return c.clone(), nil
}

// Join adds participant and resolves the competition when it fills up.
// Joining twice is a no-op.
func (r *Registry) Join(clientID, id, participant string) (Competition, error) {
	participant = strings.TrimSpace(participant)
	if participant == "" {
		return Competition{}, ErrMissingParticipant
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(clientID, id)
	if c == nil {
		return Competition{}, ErrNotFound
	}
	if c.Resolved {
		return c.clone(), ErrResolved
	}
	if slices.Contains(c.Participants, participant) {
		return c.clone(), nil
	}

	c.Participants = append(c.Participants, participant)
	if len(c.Participants) >= c.PlayersNeeded {
		c.Winner = c.Participants[r.pick(len(c.Participants))]
		c.Resolved = true
		at := r.now()
		c.ResolvedAt = &at
	}
	return c.clone(), nil
}

// Get returns one competition.
func (r *Registry) Get(clientID, id string) (Competition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.find(clientID, id)
	if c == nil {
		return Competition{}, ErrNotFound
	}
	return c.clone(), nil
}

// List returns the client's competitions, newest first.
func (r *Registry) List(clientID string) []Competition {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.byOwner[clientID]
	out := make([]Competition, 0, len(owned))
	for i := len(owned) - 1; i >= 0; i-- {
		out = append(out, owned[i].clone())
	}
	return out
}

// Forget drops every competition of a client.
func (r *Registry) Forget(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byOwner, clientID)
}

func (r *Registry) find(clientID, id string) *Competition {
	for _, c := range r.byOwner[clientID] {
		if c.ID == id {
			return c
		}
	}
	return nil
}
