package datacache

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSnapshot is returned when no trading data could be loaded at all.
// It requires user action, typically fixing the API credential or network.
var ErrNoSnapshot = errors.New("no trading data available")

// StaleDataError reports a failed refresh while an older snapshot stays in use
type StaleDataError struct {
	FetchedAt time.Time
	Cause     error
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("refresh failed, keeping data fetched at %s: %v", e.FetchedAt.Format(time.RFC3339), e.Cause)
}

func (e *StaleDataError) Unwrap() error {
	return e.Cause
}
