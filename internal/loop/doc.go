// Package loop implements the cooperative main loop the sync engine runs on.
//
// Every piece of engine state (session, queue, ledger, player state) is only
// touched from callbacks executed by the loop, one at a time. Other goroutines
// (HTTP completions, UI input) hand work to the loop with Post; delays
// (debounce, stability window, stale sweep, drain backoff) are scheduled with
// AfterFunc and cancelled through the returned Timer.
//
// The loop is driven either by Run, which sleeps until the next deadline on
// the wall clock, or by RunPending from tests that move a manual clock.
package loop
