package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// Drainer is kicked when work lands in the queue while authenticated
type Drainer interface {
	Drain(ctx context.Context)
	Draining() bool
}

// TransactionCoordinator applies optimistic effects, routes each action to
// the network or the queue, and reconciles server answers against the
// ledger. Must only be used from the engine loop.
type TransactionCoordinator struct {
	client    ports.SyncClient
	drainer   Drainer
	events    ports.EventPublisher
	newKey    func() string
	queue     *RequestQueue
	scheduler ports.Scheduler
	session   SessionGate
	store     ports.DurableStore
	target    ports.EffectTarget
	timings   Timings

	// inFlight maps idempotency keys to the time their send started
	inFlight  map[string]time.Time
	reachable bool
	records   map[string]*domain.TransactionRecord
	sweep     ports.Timer
}

// NewTransactionCoordinator wires the coordinator
func NewTransactionCoordinator(
	store ports.DurableStore,
	queue *RequestQueue,
	client ports.SyncClient,
	session SessionGate,
	target ports.EffectTarget,
	scheduler ports.Scheduler,
	events ports.EventPublisher,
	timings Timings,
) *TransactionCoordinator {
	return &TransactionCoordinator{
		client:    client,
		events:    events,
		inFlight:  make(map[string]time.Time),
		newKey:    func() string { return uuid.New().String() },
		queue:     queue,
		reachable: true,
		records:   make(map[string]*domain.TransactionRecord),
		scheduler: scheduler,
		session:   session,
		store:     store,
		target:    target,
		timings:   timings,
	}
}

// SetDrainer registers the drainer kicked after enqueues
func (c *TransactionCoordinator) SetDrainer(d Drainer) {
	c.drainer = d
}

// Recover loads the ledger, re-queues pending transactions that were in
// flight when the process stopped, and starts the stale sweep. The queue
// must be loaded first.
func (c *TransactionCoordinator) Recover(ctx context.Context) error {
	data, err := c.store.Load(ctx, ports.RecordTransactionLedger)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
	case err != nil:
		return fmt.Errorf("failed to load ledger: %w", err)
	default:
		var records []domain.TransactionRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to decode ledger: %w", err)
		}
		for i := range records {
			rec := records[i]
			c.records[rec.IdempotencyKey] = &rec
		}
	}

	requeued := 0
	for _, rec := range c.Records() {
		if rec.Status != domain.StatusPending || c.queue.Contains(rec.IdempotencyKey) {
			continue
		}
		req, err := domain.BuildRequest(rec.Kind, rec.Payload, rec.IdempotencyKey, rec.CreatedAt)
		if err != nil {
			logging.Logger.Error("Cannot rebuild request for pending transaction",
				"idempotency_key", rec.IdempotencyKey, "error", err)
			continue
		}
		if err := c.queue.Enqueue(ctx, req); err != nil {
			return fmt.Errorf("failed to requeue %s: %w", rec.IdempotencyKey, err)
		}
		requeued++
	}

	logging.Logger.Info("Ledger recovered", "records", len(c.records), "requeued", requeued)
	c.scheduleSweep()
	return nil
}

// Execute performs a user action optimistically and returns at once. Errors
// mean the action was refused locally and nothing changed.
func (c *TransactionCoordinator) Execute(ctx context.Context, kind domain.TransactionKind, payload domain.Payload) (domain.ExecuteResult, error) {
	key := c.newKey()
	if kind == domain.KindCreateCharacter && payload.CharacterID == "" {
		// the key doubles as the local id of the new character
		payload.CharacterID = key
	}

	effect, err := c.target.Plan(kind, payload)
	if err != nil {
		return domain.ExecuteResult{}, err
	}
	now := c.scheduler.Now()
	req, err := domain.BuildRequest(kind, payload, key, now)
	if err != nil {
		return domain.ExecuteResult{}, err
	}

	rec := &domain.TransactionRecord{
		AppliedEffect:    effect,
		CreatedAt:        now,
		ID:               uuid.New().String(),
		IdempotencyKey:   key,
		Kind:             kind,
		Payload:          payload,
		PreStateSnapshot: c.target.Capture(effect),
		Status:           domain.StatusPending,
	}

	// the record is durable before the effect it describes
	c.records[key] = rec
	if err := c.saveLedger(ctx); err != nil {
		delete(c.records, key)
		return domain.ExecuteResult{}, err
	}
	if err := c.target.Apply(ctx, effect); err != nil {
		delete(c.records, key)
		c.saveLedgerOrLog(ctx)
		return domain.ExecuteResult{}, err
	}

	direct := c.session.RequireAuthenticated(ctx) &&
		c.session.IsAuthenticated() &&
		c.reachable &&
		c.idle()

	if direct {
		c.dispatch(req)
	} else if err := c.queue.Enqueue(ctx, req); err != nil {
		c.abort(ctx, rec)
		return domain.ExecuteResult{}, err
	}

	logging.Logger.Info("Transaction executed",
		"idempotency_key", key,
		"kind", kind,
		"queued", !direct)

	if !direct {
		c.kick(ctx)
	}

	return domain.ExecuteResult{
		IdempotencyKey:  key,
		LocalResultID:   rec.ID,
		OptimisticState: c.target.State(),
		Queued:          !direct,
		Status:          domain.StatusPending,
	}, nil
}

// OnResponse reconciles a server answer for key. Returns the outcome and
// whether the request must be delivered again.
func (c *TransactionCoordinator) OnResponse(ctx context.Context, key string, result domain.SyncResult) (domain.Outcome, bool) {
	outcome, reason := domain.Classify(result)
	c.reachable = outcome != domain.OutcomeTransport

	rec, ok := c.records[key]
	if !ok {
		logging.Logger.Warn("Discarding response for unknown transaction", "idempotency_key", key, "outcome", outcome)
		return domain.OutcomeIgnored, false
	}
	if rec.Status.IsTerminal() {
		logging.Logger.Debug("Discarding late acknowledgment",
			"idempotency_key", key,
			"status", rec.Status,
			"outcome", outcome)
		return domain.OutcomeIgnored, false
	}

	switch {
	case outcome.Success():
		c.settle(ctx, rec, domain.StatusCommitted, "")
		return outcome, false
	case outcome == domain.OutcomeRejected:
		c.rollback(ctx, rec, domain.StatusRolledBack, reason)
		return outcome, false
	case outcome == domain.OutcomeAuthFailure:
		logging.Logger.Info("Transaction needs re-authentication", "idempotency_key", key, "reason", reason)
		c.session.ForceUnauthenticated(ctx, reason)
		c.events.PublishTransactionSettled(domain.TransactionSettled{
			ID:             rec.ID,
			IdempotencyKey: key,
			Kind:           rec.Kind,
			NeedsReauth:    true,
			Reason:         reason,
			Status:         domain.StatusPending,
		})
		return outcome, true
	default:
		logging.Logger.Info("Transaction left pending", "idempotency_key", key, "outcome", outcome, "reason", reason)
		return outcome, outcome.Retryable()
	}
}

// BeginReplay marks key as in flight on behalf of the drainer
func (c *TransactionCoordinator) BeginReplay(key string) {
	c.inFlight[key] = c.scheduler.Now()
}

// OnReplayResult reconciles a drained request
func (c *TransactionCoordinator) OnReplayResult(ctx context.Context, key string, result domain.SyncResult) (domain.Outcome, bool) {
	delete(c.inFlight, key)
	return c.OnResponse(ctx, key, result)
}

// Record returns a copy of the ledger record of key
func (c *TransactionCoordinator) Record(key string) (domain.TransactionRecord, bool) {
	rec, ok := c.records[key]
	if !ok {
		return domain.TransactionRecord{}, false
	}
	return *rec, true
}

// Records returns the ledger ordered by creation time
func (c *TransactionCoordinator) Records() []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Pending returns the number of pending transactions
func (c *TransactionCoordinator) Pending() int {
	n := 0
	for _, rec := range c.records {
		if rec.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// Reachable reports whether the last response came from the server
func (c *TransactionCoordinator) Reachable() bool {
	return c.reachable
}

// Stop cancels the sweep
func (c *TransactionCoordinator) Stop() {
	if c.sweep != nil {
		c.sweep.Stop()
	}
}

func (c *TransactionCoordinator) dispatch(req domain.QueuedRequest) {
	key := req.IdempotencyKey
	c.inFlight[key] = c.scheduler.Now()
	logging.Logger.Debug("Dispatching directly", "idempotency_key", key, "kind", req.Kind)

	c.client.Send(req.SyncRequest(), func(result domain.SyncResult) {
		ctx := context.Background()
		delete(c.inFlight, key)
		outcome, retry := c.OnResponse(ctx, key, result)
		if !retry {
			// actions queued behind this send may go now
			if c.queue.Len() > 0 {
				c.kick(ctx)
			}
			return
		}
		// anything queued meanwhile is younger, so the retry goes first
		if err := c.queue.PushFront(ctx, req); err != nil {
			logging.Logger.Error("Failed to queue request for retry",
				"idempotency_key", key, "outcome", outcome, "error", err)
			return
		}
		c.kick(ctx)
	})
}

// idle reports whether nothing is queued, replaying or awaiting an answer.
// A direct send is only allowed then, so it cannot overtake earlier work.
func (c *TransactionCoordinator) idle() bool {
	if c.queue.Len() > 0 || len(c.inFlight) > 0 {
		return false
	}
	return c.drainer == nil || !c.drainer.Draining()
}

func (c *TransactionCoordinator) kick(ctx context.Context) {
	if len(c.inFlight) > 0 && (c.drainer == nil || !c.drainer.Draining()) {
		// a direct send is outstanding; its completion kicks again
		return
	}
	if c.drainer != nil && c.session.IsAuthenticated() {
		c.drainer.Drain(ctx)
	}
}

func (c *TransactionCoordinator) settle(ctx context.Context, rec *domain.TransactionRecord, status domain.TransactionStatus, reason string) {
	if err := rec.Transition(status, reason, c.scheduler.Now()); err != nil {
		logging.Logger.Error("Refusing status change", "idempotency_key", rec.IdempotencyKey, "error", err)
		return
	}
	c.saveLedgerOrLog(ctx)

	logging.Logger.Info("Transaction settled",
		"idempotency_key", rec.IdempotencyKey,
		"kind", rec.Kind,
		"status", status,
		"reason", reason)
	c.events.PublishTransactionSettled(domain.TransactionSettled{
		ID:             rec.ID,
		IdempotencyKey: rec.IdempotencyKey,
		Kind:           rec.Kind,
		Reason:         reason,
		Status:         status,
	})
}

// rollback undoes the optimistic effect and moves the record to status.
// If the undo cannot be persisted the record stays pending and the sweep
// tries again.
func (c *TransactionCoordinator) rollback(ctx context.Context, rec *domain.TransactionRecord, status domain.TransactionStatus, reason string) {
	if err := c.target.Revert(ctx, rec.AppliedEffect, rec.PreStateSnapshot); err != nil {
		logging.Logger.Error("Failed to roll back transaction",
			"idempotency_key", rec.IdempotencyKey, "error", err)
		return
	}
	c.settle(ctx, rec, status, reason)
}

// abort undoes an action whose request could not be handed off
func (c *TransactionCoordinator) abort(ctx context.Context, rec *domain.TransactionRecord) {
	if err := c.target.Revert(ctx, rec.AppliedEffect, rec.PreStateSnapshot); err != nil {
		logging.Logger.Error("Failed to undo unsent transaction",
			"idempotency_key", rec.IdempotencyKey, "error", err)
		return
	}
	delete(c.records, rec.IdempotencyKey)
	c.saveLedgerOrLog(ctx)
}

func (c *TransactionCoordinator) scheduleSweep() {
	if c.timings.SweepInterval <= 0 {
		return
	}
	c.sweep = c.scheduler.AfterFunc(c.timings.SweepInterval, func() {
		c.runSweep(context.Background())
		c.scheduleSweep()
	})
}

// runSweep expires pending transactions nobody is going to answer and
// prunes terminal records past retention. Queued requests are still owed
// an answer, however long the player stays offline, so they never expire.
func (c *TransactionCoordinator) runSweep(ctx context.Context) {
	now := c.scheduler.Now()
	expired := 0
	pruned := 0
	released := 0

	for key, started := range c.inFlight {
		if now.Sub(started) >= c.timings.StaleTimeout {
			delete(c.inFlight, key)
			released++
		}
	}

	for _, rec := range c.Records() {
		key := rec.IdempotencyKey
		switch {
		case rec.Status == domain.StatusPending:
			if now.Sub(rec.CreatedAt) < c.timings.StaleTimeout || c.queue.Contains(key) {
				continue
			}
			if _, ok := c.inFlight[key]; ok {
				continue
			}
			logging.Logger.Warn("Expiring stale transaction", "idempotency_key", key, "kind", rec.Kind, "age", now.Sub(rec.CreatedAt))
			c.rollback(ctx, c.records[key], domain.StatusExpired, "no response from server")
			expired++
		case rec.SettledAt != nil && now.Sub(*rec.SettledAt) >= c.timings.Retention:
			delete(c.records, key)
			pruned++
		}
	}

	if pruned > 0 {
		c.saveLedgerOrLog(ctx)
	}
	if expired > 0 || pruned > 0 {
		logging.Logger.Info("Sweep finished", "expired", expired, "pruned", pruned)
	}
	// a hung send held back the queue until now
	if released > 0 && c.queue.Len() > 0 {
		c.kick(ctx)
	}
}

func (c *TransactionCoordinator) saveLedger(ctx context.Context) error {
	data, err := json.Marshal(c.Records())
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if err := c.store.Save(ctx, ports.RecordTransactionLedger, data); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}

func (c *TransactionCoordinator) saveLedgerOrLog(ctx context.Context) {
	if err := c.saveLedger(ctx); err != nil {
		logging.Logger.Error("Failed to persist ledger", "error", err)
	}
}
