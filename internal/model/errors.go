package model

import "errors"

// Common errors used across the application
var (
	// Config errors
	ErrNoPlayers = errors.New("no player configurations found")
	ErrNoAPIKey  = errors.New("missing APEX_API_KEY")

	// Stats API errors
	ErrRateLimited = errors.New("stats API rate limit hit")

	// Discord errors
	ErrNicknameForbidden = errors.New("missing permission to change nickname")
	ErrNotReady          = errors.New("session never became ready")
)
