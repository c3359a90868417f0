package link

import "codeberg.org/dazzo/dazzod/internal/errors"

const (
	// Transport errors
	ErrDialFailed       = errors.ErrorCode("link_dial_failed")
	ErrReadFailed       = errors.ErrorCode("link_read_failed")
	ErrAlreadyConnected = errors.ErrorCode("link_already_connected")
	ErrNotConnected     = errors.ErrorCode("link_not_connected")

	// Supervisor errors
	ErrInvalidBackoff = errors.ErrorCode("link_invalid_backoff")
)
