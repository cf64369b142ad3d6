package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Rahi-sm99/CodeQuest/internal/catalog"
	"github.com/Rahi-sm99/CodeQuest/internal/progression"
	"github.com/Rahi-sm99/CodeQuest/shared-libs/events"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type service struct {
	store      Storage
	logger     *slog.Logger
	sink       events.Sink
	locks      *clientLocks
	now        func() time.Time
	newID      func() string
	bcryptCost int
}

// NewService creates a progress service over store. A nil sink discards events.
func NewService(store Storage, logger *slog.Logger, sink events.Sink) Service {
	if sink == nil {
		sink = events.Discard
	}
	return &service{
		store:      store,
		logger:     logger,
		sink:       sink,
		locks:      newClientLocks(),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *service) Load(ctx context.Context, clientID string) (*Profile, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	return s.loadCurrent(ctx, clientID)
}

// CreateProfile starts a fresh profile. Identities the client already knows are refused; use the login methods to resume them.
func (s *service) CreateProfile(ctx context.Context, clientID string, identity Identity) (*Profile, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	identity = cleanIdentity(identity)
	if identity.ID == "" && identity.Email == "" {
		return nil, ErrInvalidIdentity
	}
	if identity.Provider == "" {
		identity.Provider = "credentials"
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	known, err := s.loadKnown(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if entry, ok := known[identityKey(identity.Email, identity.Provider, identity.ID)]; ok && entry.Profile != nil {
		return nil, ErrProfileExists
	}

	profile := s.newProfile(identity)
	if err := s.save(ctx, clientID, profile, ""); err != nil {
		return nil, err
	}
	s.emit(ctx, events.KindProfileCreated, clientID, profile, 0, "")
	return profile.clone(), nil
}

func (s *service) LoginWithPassword(ctx context.Context, clientID, email, password string) (*Profile, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	known, err := s.loadKnown(ctx, clientID)
	if err != nil {
		return nil, err
	}

	entry, ok := known[email]
	if ok && entry.Profile != nil {
		hash := ""
		if entry.PasswordHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)); err != nil {
				return nil, ErrInvalidPassword
			}
		} else {
			// Profiles first seen through a social login adopt the first password.
			if hash, err = s.hashPassword(password); err != nil {
				return nil, err
			}
		}
		profile := entry.Profile.clone()
		profile.normalize()
		profile.IsFirstLogin = false
		profile.UpdatedAt = s.now()
		if err := s.save(ctx, clientID, profile, hash); err != nil {
			return nil, err
		}
		s.emit(ctx, events.KindSessionStarted, clientID, profile, profile.XP, "")
		return profile.clone(), nil
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	profile := s.newProfile(Identity{Email: email, Provider: "credentials"})
	if err := s.save(ctx, clientID, profile, hash); err != nil {
		return nil, err
	}
	s.emit(ctx, events.KindProfileCreated, clientID, profile, 0, "")
	return profile.clone(), nil
}

func (s *service) LoginWithIdentity(ctx context.Context, clientID string, identity Identity) (*Profile, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	identity = cleanIdentity(identity)
	if identity.ID == "" && identity.Email == "" {
		return nil, ErrInvalidIdentity
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	known, err := s.loadKnown(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if entry, ok := known[identityKey(identity.Email, identity.Provider, identity.ID)]; ok && entry.Profile != nil {
		profile := entry.Profile.clone()
		profile.normalize()
		profile.IsFirstLogin = false
		if identity.Avatar != "" {
			profile.Avatar = identity.Avatar
		}
		profile.UpdatedAt = s.now()
		if err := s.save(ctx, clientID, profile, ""); err != nil {
			return nil, err
		}
		s.emit(ctx, events.KindSessionStarted, clientID, profile, profile.XP, identity.Provider)
		return profile.clone(), nil
	}

	profile := s.newProfile(identity)
	if err := s.save(ctx, clientID, profile, ""); err != nil {
		return nil, err
	}
	s.emit(ctx, events.KindProfileCreated, clientID, profile, 0, identity.Provider)
	return profile.clone(), nil
}

func (s *service) AwardProgress(ctx context.Context, clientID string, xp int, completed []int) (*Profile, error) {
	if xp < 0 {
		return nil, ErrInvalidXP
	}
	for _, id := range completed {
		if !catalog.ValidLevelID(id) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
		}
	}

	return s.mutate(ctx, clientID, events.KindProgressAwarded, "", func(p *Profile) (bool, error) {
		merged, dropped := mergeCompleted(p.CompletedLevels, completed)
		if dropped > 0 {
			s.logger.WarnContext(ctx, "completed levels cannot be removed; keeping them",
				slog.String("clientId", clientID),
				slog.Int("dropped", dropped),
			)
		}
		p.XP = xp
		p.CompletedLevels = merged
		return true, nil
	})
}

func (s *service) CompleteLevel(ctx context.Context, clientID string, levelID int) (*Profile, bool, error) {
	level, ok := catalog.LevelByID(levelID)
	if !ok {
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}

	awarded := false
	profile, err := s.mutate(ctx, clientID, events.KindLevelCompleted, fmt.Sprint(levelID), func(p *Profile) (bool, error) {
		if slices.Contains(p.CompletedLevels, levelID) {
			return false, nil
		}
		p.CompletedLevels = append(p.CompletedLevels, levelID)
		p.XP += level.XP
		awarded = true
		return true, nil
	})
	if err != nil {
		return nil, false, err
	}
	return profile, awarded, nil
}

func (s *service) SetLanguage(ctx context.Context, clientID, language string) (*Profile, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, ErrInvalidLanguage
	}
	return s.mutate(ctx, clientID, "", "", func(p *Profile) (bool, error) {
		if p.Language == language {
			return false, nil
		}
		p.Language = language
		return true, nil
	})
}

func (s *service) SetProfile(ctx context.Context, clientID, name, language string) (*Profile, error) {
	name = strings.TrimSpace(name)
	language = strings.TrimSpace(language)
	return s.mutate(ctx, clientID, "", "", func(p *Profile) (bool, error) {
		changed := false
		if name != "" && name != p.Name {
			p.Name = name
			changed = true
		}
		if language != "" && language != p.Language {
			p.Language = language
			changed = true
		}
		return changed, nil
	})
}

func (s *service) AwardBadge(ctx context.Context, clientID, badgeID string) (*Profile, error) {
	return s.mutate(ctx, clientID, events.KindBadgeAwarded, badgeID, func(p *Profile) (bool, error) {
		if slices.Contains(p.Badges, badgeID) {
			return false, nil
		}
		p.Badges = append(p.Badges, badgeID)
		return true, nil
	})
}

func (s *service) AwardCertificate(ctx context.Context, clientID, certificateID string) (*Profile, error) {
	return s.mutate(ctx, clientID, events.KindCertificateAwarded, certificateID, func(p *Profile) (bool, error) {
		if slices.Contains(p.Certificates, certificateID) {
			return false, nil
		}
		p.Certificates = append(p.Certificates, certificateID)
		return true, nil
	})
}

// AwardEarnedBadge awards badge only if its requirement holds under the client lock.
func (s *service) AwardEarnedBadge(ctx context.Context, clientID string, badge catalog.Badge) (*Profile, error) {
	return s.mutate(ctx, clientID, events.KindBadgeAwarded, badge.ID, func(p *Profile) (bool, error) {
		if slices.Contains(p.Badges, badge.ID) {
			return false, nil
		}
		tasks, err := s.loadTasks(ctx, clientID)
		if err != nil {
			return false, err
		}
		if !progression.BadgeUnlocked(badge, progression.NewStats(p.XP, p.CompletedLevels, tasks.CurrentStreak)) {
			return false, ErrRequirementNotMet
		}
		p.Badges = append(p.Badges, badge.ID)
		return true, nil
	})
}

// AwardEarnedCertificate awards cert only if all of its levels are completed.
func (s *service) AwardEarnedCertificate(ctx context.Context, clientID string, cert catalog.Certification) (*Profile, error) {
	return s.mutate(ctx, clientID, events.KindCertificateAwarded, cert.ID, func(p *Profile) (bool, error) {
		if slices.Contains(p.Certificates, cert.ID) {
			return false, nil
		}
		if !progression.CertificationEarned(cert, p.CompletedLevels) {
			return false, ErrRequirementNotMet
		}
		p.Certificates = append(p.Certificates, cert.ID)
		return true, nil
	})
}

func (s *service) Redeem(ctx context.Context, clientID, rewardID string, cost int) (*Profile, error) {
	if cost <= 0 {
		return nil, ErrInvalidCost
	}
	return s.mutate(ctx, clientID, events.KindRewardRedeemed, rewardID, func(p *Profile) (bool, error) {
		if cost > p.XP {
			return false, ErrInsufficientXP
		}
		p.XP -= cost
		return true, nil
	})
}

func (s *service) CompleteOnboarding(ctx context.Context, clientID string) (*Profile, error) {
	return s.mutate(ctx, clientID, "", "", func(p *Profile) (bool, error) {
		if !p.IsFirstLogin {
			return false, nil
		}
		p.IsFirstLogin = false
		return true, nil
	})
}

func (s *service) Clear(ctx context.Context, clientID string) error {
	if clientID == "" {
		return ErrMissingClientID
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	current, err := s.loadCurrent(ctx, clientID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, clientID, KeyCurrentUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if current != nil {
		s.emit(ctx, events.KindSessionCleared, clientID, current, current.XP, "")
	}
	return nil
}

func (s *service) Snapshot(ctx context.Context, clientID string) (*Snapshot, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	var (
		profile *Profile
		tasks   *TaskProgress
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.loadCurrent(ctx, clientID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})

	g.Go(func() error {
		t, err := s.loadTasks(ctx, clientID)
		if err != nil {
			return err
		}
		tasks = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{Profile: profile, Tasks: tasks}, nil
}

// mutate applies fn to a copy of the current profile and persists it when fn reports a change.
func (s *service) mutate(ctx context.Context, clientID string, kind events.Kind, itemID string, fn func(*Profile) (bool, error)) (*Profile, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	unlock := s.locks.lock(clientID)
	defer unlock()

	current, err := s.loadCurrent(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNoSession
	}

	next := current.clone()
	changed, err := fn(next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return current, nil
	}

	next.UpdatedAt = s.now()
	if err := s.save(ctx, clientID, next, ""); err != nil {
		return nil, err
	}
	if kind != "" {
		s.emit(ctx, kind, clientID, next, current.XP, itemID)
	}
	return next.clone(), nil
}

func (s *service) newProfile(identity Identity) *Profile {
	now := s.now()
	id := identity.ID
	if id == "" {
		id = s.newID()
	}
	name := identity.Name
	if name == "" {
		name = displayName(identity.Email)
	}
	provider := identity.Provider
	if provider == "" {
		provider = "credentials"
	}
	return &Profile{
		ID:              id,
		Email:           identity.Email,
		Name:            name,
		Avatar:          identity.Avatar,
		Provider:        provider,
		Language:        DefaultLanguage,
		XP:              0,
		CompletedLevels: []int{},
		Badges:          []string{},
		Certificates:    []string{},
		IsFirstLogin:    true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// save writes the current-session record and refreshes the known-profiles entry.
// An empty passwordHash keeps the stored one.
func (s *service) save(ctx context.Context, clientID string, profile *Profile, passwordHash string) error {
	if err := s.writeJSON(ctx, clientID, KeyCurrentUser, profile); err != nil {
		return err
	}

	known, err := s.loadKnown(ctx, clientID)
	if err != nil {
		return err
	}
	key := identityKey(profile.Email, profile.Provider, profile.ID)
	entry := known[key]
	entry.Profile = profile
	if passwordHash != "" {
		entry.PasswordHash = passwordHash
	}
	known[key] = entry
	return s.writeJSON(ctx, clientID, KeyKnownUsers, known)
}

func (s *service) loadCurrent(ctx context.Context, clientID string) (*Profile, error) {
	var profile Profile
	found, err := s.readJSON(ctx, clientID, KeyCurrentUser, &profile)
	if err != nil || !found {
		return nil, err
	}
	profile.normalize()
	return &profile, nil
}

func (s *service) loadKnown(ctx context.Context, clientID string) (map[string]knownProfile, error) {
	known := map[string]knownProfile{}
	if _, err := s.readJSON(ctx, clientID, KeyKnownUsers, &known); err != nil {
		return nil, err
	}
	if known == nil {
		known = map[string]knownProfile{}
	}
	return known, nil
}

// readJSON decodes key into dst. Absent and corrupt values both report found=false.
func (s *service) readJSON(ctx context.Context, clientID, key string, dst any) (bool, error) {
	raw, err := s.store.Get(ctx, clientID, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt stored value",
			slog.String("clientId", clientID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return true, nil
}

func (s *service) writeJSON(ctx context.Context, clientID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Put(ctx, clientID, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *service) emit(ctx context.Context, kind events.Kind, clientID string, profile *Profile, xpBefore int, itemID string) {
	event := events.ProgressChanged{
		Kind:     kind,
		ClientID: clientID,
		XPBefore: xpBefore,
		ItemID:   itemID,
		At:       s.now(),
	}
	if profile != nil {
		event.ProfileID = profile.ID
		event.Email = profile.Email
		event.XPAfter = profile.XP
	}
	s.sink(ctx, event)
}

// mergeCompleted keeps every existing id in order and appends new ones once.
func mergeCompleted(existing, incoming []int) ([]int, int) {
	merged := slices.Clone(existing)
	seen := make(map[int]struct{}, len(existing)+len(incoming))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	in := make(map[int]struct{}, len(incoming))
	for _, id := range incoming {
		in[id] = struct{}{}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	dropped := 0
	for _, id := range existing {
		if _, ok := in[id]; !ok {
			dropped++
		}
	}
	if merged == nil {
		merged = []int{}
	}
	return merged, dropped
}

func cleanIdentity(identity Identity) Identity {
	identity.ID = strings.TrimSpace(identity.ID)
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.Name = strings.TrimSpace(identity.Name)
	identity.Provider = strings.TrimSpace(identity.Provider)
	return identity
}

// identityKey indexes known profiles by email, or by provider and id when no email is known.
func identityKey(email, provider, id string) string {
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		return email
	}
	return provider + ":" + id
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "Trainer"
	}
	return local
}
