package services

import "errors"

// Engine error taxonomy. Handlers map these onto HTTP statuses: validation
// failures to 400, lookups to 404, invariant collisions to 409. Anything
// else is a storage failure and surfaces as 500.
var (
	ErrGameNotFound         = errors.New("game not found")
	ErrGameNotActive        = errors.New("game is not active")
	ErrGameExpired          = errors.New("game has expired")
	ErrSessionAlreadyActive = errors.New("an active session already exists for this game")
	ErrAlreadyPlayed        = errors.New("user has already played this game")
	ErrAlreadyCompleted     = errors.New("session is already completed")
	ErrNoPlayableGames      = errors.New("no playable games available")
	ErrUserNotFound         = errors.New("user not found")
	ErrImagesNotFound       = errors.New("no images found for the provided references")
	ErrCompetitionNotFound  = errors.New("competition not found")
	ErrCompetitionExists    = errors.New("game already backs a competition")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUsernameTaken        = errors.New("username already taken")
)
