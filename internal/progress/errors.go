package progress

import "errors"

var (
	// ErrNotFound is returned by Storage when a key is absent.
	ErrNotFound = errors.New("not found")
	// ErrMissingClientID indicates a required browser client id was absent.
	ErrMissingClientID = errors.New("client id is required")
	// ErrNoSession indicates a mutation was attempted without a current profile.
	ErrNoSession = errors.New("no active profile")
	// ErrInvalidCredentials indicates an empty email or password.
	ErrInvalidCredentials = errors.New("email and password are required")
	// ErrInvalidPassword indicates the password does not match the known profile.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidIdentity indicates a social identity without id or email.
	ErrInvalidIdentity = errors.New("identity needs an id or email")
	// ErrProfileExists indicates CreateProfile was called for an identity the client already knows.
	ErrProfileExists = errors.New("profile already exists")
	// ErrInvalidXP indicates a negative XP value.
	ErrInvalidXP = errors.New("xp must not be negative")
	// ErrUnknownLevel indicates a level id outside the catalog.
	ErrUnknownLevel = errors.New("unknown level id")
	// ErrInvalidLanguage indicates an empty language.
	ErrInvalidLanguage = errors.New("language is required")
	// ErrInvalidCost indicates a non-positive redemption cost.
	ErrInvalidCost = errors.New("cost must be positive")
	// ErrInsufficientXP indicates a redemption costing more than the current XP.
	ErrInsufficientXP = errors.New("insufficient xp")
	// ErrRequirementNotMet indicates a badge or certificate whose requirement does not hold yet.
	ErrRequirementNotMet = errors.New("requirement not met")
	// ErrUnknownChallenge indicates a daily challenge id outside the catalog.
	ErrUnknownChallenge = errors.New("unknown daily challenge")
	// ErrUnknownTask indicates a weekly task id outside the catalog.
	ErrUnknownTask = errors.New("unknown weekly task")
)
