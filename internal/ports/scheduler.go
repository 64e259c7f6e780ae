package ports

import "time"

// Clock supplies timestamps
type Clock interface {
	Now() time.Time
}

// Timer is the cancellation token of a scheduled task
type Timer interface {
	// Stop cancels the task; returns false if it already ran or was stopped
	Stop() bool
}

// Scheduler runs callbacks on the single engine loop
type Scheduler interface {
	Clock
	// AfterFunc schedules fn to run on the loop after d
	AfterFunc(d time.Duration, fn func()) Timer
	// Post queues fn to run on the loop; safe from any goroutine
	Post(fn func())
}
