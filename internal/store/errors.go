package store

import "errors"

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrInvalidState    = errors.New("invalid entry state")
	ErrSessionNotFound = errors.New("session not found")
)
