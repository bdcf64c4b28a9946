package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Validation and business rules
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTournamentNameEmpty  = errors.New("tournament name is required")
	ErrStageNameEmpty       = errors.New("stage name is required")
	ErrTeamNameEmpty        = errors.New("team name is required")
	ErrNegativeScore        = errors.New("scores must not be negative")
	ErrPartialScore         = errors.New("either both scores or neither must be set")
	ErrNegativePoints       = errors.New("points must not be negative")
	ErrFriendNotRegistered  = errors.New("friend is not registered for this tournament")
	ErrCrestStorageDisabled = errors.New("crest storage is not configured")

	// Conflicts
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrStageNameConflict      = errors.New("stage name already exists in this tournament")
	ErrTeamNameConflict       = errors.New("team name already in use")
	ErrEmailConflict          = errors.New("email address is already in use")
	ErrMatchNumberConflict    = errors.New("match number already exists in this stage")
	ErrRegistrationConflict   = errors.New("friend is already registered for this tournament")
	ErrStagePointConflict     = errors.New("stage point already awarded for this friend and stage")

	// Entity-specific not-founds
	ErrFriendNotFound     = errors.New("friend not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrPointNotFound      = errors.New("point entry not found")
)
