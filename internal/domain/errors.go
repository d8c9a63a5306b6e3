package domain

import "errors"

// User-triggered failures. The dispatch boundary turns these into chat
// replies; anything else is logged and answered generically.
var (
	ErrChannelNotActivated = errors.New("channel not activated")
	ErrCapacityExceeded    = errors.New("party is full")
	ErrNotEnoughMembers    = errors.New("not enough members to start")
	ErrPartyNotOpen        = errors.New("party is not open")
	ErrAlreadyOwnsChannel  = errors.New("user already owns a voice channel")
)
