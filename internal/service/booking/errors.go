package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBooking  = errors.New("invalid booking")
	ErrInvalidContact  = errors.New("invalid contact")
	ErrInvalidStatus   = errors.New("invalid booking status")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRateLimited     = errors.New("rate limited")
)

// RateLimitedError reports how long the caller should wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
