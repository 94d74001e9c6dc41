package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrescamacho/uexcorp-go/internal/domain/shared"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every request through
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects requests until the reset timeout elapses
	CircuitOpen
	// CircuitHalfOpen lets a single trial request through to test whether the
	// provider recovered; concurrent callers are rejected until it completes
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned without contacting the provider while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops a failing trading data provider from being hammered.
// After maxFailures consecutive failed requests it opens for resetTimeout.
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	trialRunning    bool
	mu              sync.RWMutex
	clock           shared.Clock
}

// NewCircuitBreaker creates a circuit breaker. If clock is nil, RealClock is used.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, clock shared.Clock) *CircuitBreaker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		clock:        clock,
	}
}

// Call runs fn unless the breaker is open. Cancellation by the caller is not
// counted as a provider failure.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	trial := false
	switch cb.state {
	case CircuitOpen:
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = CircuitHalfOpen
		cb.trialRunning, trial = true, true
	case CircuitHalfOpen:
		if cb.trialRunning {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.trialRunning, trial = true, true
	}
	cb.mu.Unlock()

	// fn may retry and sleep, so the lock is not held while it runs
	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.trialRunning = false
	}
	switch {
	case err == nil:
		cb.onSuccess(trial)
	case errors.Is(err, context.Canceled):
		if cb.state == CircuitHalfOpen {
			cb.state = CircuitOpen
		}
	default:
		cb.onFailure()
	}
	return err
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.clock.Now()

	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) onSuccess(trial bool) {
	cb.failureCount = 0

	// a request that started before the breaker opened does not close it
	if trial && cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
	}
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Failures returns the consecutive failure count
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failureCount
}

// Reset closes the breaker
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = CircuitClosed
	cb.failureCount = 0
	cb.trialRunning = false
}
