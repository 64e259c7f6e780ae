package services

import (
	"context"

	"github.com/cenkalti/backoff/v5"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// Replayer is the part of the coordinator the drainer reports to
type Replayer interface {
	BeginReplay(key string)
	OnReplayResult(ctx context.Context, key string, result domain.SyncResult) (domain.Outcome, bool)
}

// QueueDrainer replays the request queue one request at a time while the
// session is authenticated. Must only be used from the engine loop.
type QueueDrainer struct {
	backoff   *backoff.ExponentialBackOff
	client    ports.SyncClient
	events    ports.EventPublisher
	queue     *RequestQueue
	replayer  Replayer
	scheduler ports.Scheduler
	session   SessionGate
	timings   Timings

	draining bool
	// generation invalidates the completion of an abandoned send
	generation uint64
	replayed   int
	retry      ports.Timer
	watchdog   ports.Timer
}

// Verify interface compliance at compile time
var _ Drainer = (*QueueDrainer)(nil)

// NewQueueDrainer wires the drainer
func NewQueueDrainer(
	queue *RequestQueue,
	client ports.SyncClient,
	replayer Replayer,
	session SessionGate,
	scheduler ports.Scheduler,
	events ports.EventPublisher,
	timings Timings,
) *QueueDrainer {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = timings.RetryInitial
	b.MaxInterval = timings.RetryMax
	b.Reset()

	return &QueueDrainer{
		backoff:   b,
		client:    client,
		events:    events,
		queue:     queue,
		replayer:  replayer,
		scheduler: scheduler,
		session:   session,
		timings:   timings,
	}
}

// OnAuthChanged starts a drain when the session becomes authenticated
func (d *QueueDrainer) OnAuthChanged(e domain.AuthChanged) {
	if e.Mode == domain.ModeAuthenticated {
		d.Drain(context.Background())
	}
}

// Drain starts replaying the queue unless a drain is already running
func (d *QueueDrainer) Drain(ctx context.Context) {
	if d.draining {
		return
	}
	d.draining = true
	d.replayed = 0
	logging.Logger.Info("Drain started", "queued", d.queue.Len())
	d.next(ctx)
}

// Draining reports whether a drain is running or waiting to retry
func (d *QueueDrainer) Draining() bool {
	return d.draining
}

// Stop cancels pending retries
func (d *QueueDrainer) Stop() {
	d.generation++
	d.stopTimers()
	d.draining = false
}

func (d *QueueDrainer) next(ctx context.Context) {
	if !d.session.IsAuthenticated() {
		d.pause("session is not authenticated")
		return
	}

	req, ok, err := d.queue.DequeueFront(ctx)
	if err != nil {
		logging.Logger.Error("Failed to dequeue", "error", err)
		d.retryLater(ctx)
		return
	}
	if !ok {
		d.draining = false
		d.backoff.Reset()
		logging.Logger.Info("Queue drained", "replayed", d.replayed)
		d.events.PublishQueueDrained(domain.QueueDrained{Replayed: d.replayed})
		return
	}

	d.generation++
	gen := d.generation
	key := req.IdempotencyKey
	d.replayer.BeginReplay(key)

	// a send that never completes must not stall the queue forever
	if d.timings.StaleTimeout > 0 {
		d.watchdog = d.scheduler.AfterFunc(d.timings.StaleTimeout, func() {
			if gen != d.generation {
				return
			}
			d.generation++
			logging.Logger.Warn("Replay timed out", "idempotency_key", key)
			d.requeue(ctx, req)
			d.retryLater(ctx)
		})
	}

	logging.Logger.Debug("Replaying request", "idempotency_key", key, "kind", req.Kind)
	d.client.Send(req.SyncRequest(), func(result domain.SyncResult) {
		d.onResult(ctx, gen, req, result)
	})
}

func (d *QueueDrainer) onResult(ctx context.Context, gen uint64, req domain.QueuedRequest, result domain.SyncResult) {
	outcome, retry := d.replayer.OnReplayResult(ctx, req.IdempotencyKey, result)
	if gen != d.generation {
		// abandoned by the watchdog; the request is queued again already
		return
	}
	if d.watchdog != nil {
		d.watchdog.Stop()
	}

	switch {
	case retry && outcome == domain.OutcomeAuthFailure:
		d.requeue(ctx, req)
		d.pause("authentication failed")
	case retry:
		d.requeue(ctx, req)
		d.retryLater(ctx)
	default:
		d.replayed++
		d.backoff.Reset()
		d.next(ctx)
	}
}

func (d *QueueDrainer) requeue(ctx context.Context, req domain.QueuedRequest) {
	if err := d.queue.PushFront(ctx, req); err != nil {
		logging.Logger.Error("Failed to return request to queue",
			"idempotency_key", req.IdempotencyKey, "error", err)
	}
}

func (d *QueueDrainer) retryLater(ctx context.Context) {
	delay := d.backoff.NextBackOff()
	if delay == backoff.Stop {
		d.pause("retries exhausted")
		return
	}
	logging.Logger.Info("Drain retry scheduled", "delay", delay, "queued", d.queue.Len())
	d.retry = d.scheduler.AfterFunc(delay, func() { d.next(ctx) })
}

func (d *QueueDrainer) pause(reason string) {
	d.stopTimers()
	d.draining = false
	logging.Logger.Info("Drain paused", "reason", reason, "queued", d.queue.Len())
}

func (d *QueueDrainer) stopTimers() {
	if d.retry != nil {
		d.retry.Stop()
		d.retry = nil
	}
	if d.watchdog != nil {
		d.watchdog.Stop()
		d.watchdog = nil
	}
}
