package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrSpeechUnavailable = errors.New("speech capability unavailable")
	ErrWrongPhase        = errors.New("not allowed in this phase")
	ErrSessionClosed     = errors.New("session closed")
)
