package services

import "time"

// Timings holds every delay the engine schedules
type Timings struct {
	// Debounce coalesces rapid session transitions into one AuthChanged
	Debounce time.Duration
	// Retention keeps terminal ledger records around to absorb late acks
	Retention time.Duration
	// RetryInitial and RetryMax bound the drainer's exponential backoff
	RetryInitial time.Duration
	RetryMax     time.Duration
	// Stability is how long a transition stays unsettled
	Stability time.Duration
	// StaleTimeout is how long a pending transaction may go unanswered
	StaleTimeout time.Duration
	// SweepInterval is the period of the stale transaction sweep
	SweepInterval time.Duration
}

// DefaultTimings returns the production delays
func DefaultTimings() Timings {
	return Timings{
		Debounce:      80 * time.Millisecond,
		Retention:     60 * time.Second,
		RetryInitial:  500 * time.Millisecond,
		RetryMax:      30 * time.Second,
		Stability:     500 * time.Millisecond,
		StaleTimeout:  30 * time.Second,
		SweepInterval: 10 * time.Second,
	}
}
