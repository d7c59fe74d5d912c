package availability

import (
	"errors"
)

var (
	// ErrInvalidInput is returned for a missing or malformed date or theatre.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageFailure wraps any error from the theatre directory or booking ledger.
	ErrStorageFailure = errors.New("storage failure")
)
