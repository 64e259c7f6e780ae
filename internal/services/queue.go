package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// RequestQueue is the durable FIFO of unacknowledged requests. Every
// mutation persists the whole queue before it takes effect in memory.
type RequestQueue struct {
	entries []domain.QueuedRequest
	keys    map[string]struct{}
	store   ports.DurableStore
}

// NewRequestQueue creates an empty queue; call Load to restore it
func NewRequestQueue(store ports.DurableStore) *RequestQueue {
	return &RequestQueue{
		keys:  make(map[string]struct{}),
		store: store,
	}
}

// Load restores the persisted queue
func (q *RequestQueue) Load(ctx context.Context) error {
	data, err := q.store.Load(ctx, ports.RecordPendingQueue)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	var entries []domain.QueuedRequest
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode queue: %w", err)
	}

	q.entries = entries
	q.keys = make(map[string]struct{}, len(entries))
	for _, e := range entries {
		q.keys[e.IdempotencyKey] = struct{}{}
	}
	logging.Logger.Info("Queue restored", "length", len(entries))
	return nil
}

// Enqueue appends req. The key is the caller's; it is never generated here.
func (q *RequestQueue) Enqueue(ctx context.Context, req domain.QueuedRequest) error {
	if err := q.admit(req); err != nil {
		return err
	}

	next := make([]domain.QueuedRequest, 0, len(q.entries)+1)
	next = append(next, q.entries...)
	next = append(next, req)
	if err := q.commit(ctx, next); err != nil {
		return err
	}

	logging.Logger.Info("Request enqueued",
		"idempotency_key", req.IdempotencyKey,
		"kind", req.Kind,
		"length", len(q.entries))
	return nil
}

// PushFront puts req back at the head, e.g. after a failed replay
func (q *RequestQueue) PushFront(ctx context.Context, req domain.QueuedRequest) error {
	if err := q.admit(req); err != nil {
		return err
	}

	next := make([]domain.QueuedRequest, 0, len(q.entries)+1)
	next = append(next, req)
	next = append(next, q.entries...)
	if err := q.commit(ctx, next); err != nil {
		return err
	}

	logging.Logger.Info("Request returned to queue front",
		"idempotency_key", req.IdempotencyKey,
		"length", len(q.entries))
	return nil
}

// DequeueFront removes and returns the head. ok is false on an empty queue.
func (q *RequestQueue) DequeueFront(ctx context.Context) (domain.QueuedRequest, bool, error) {
	if len(q.entries) == 0 {
		return domain.QueuedRequest{}, false, nil
	}

	head := q.entries[0]
	next := append([]domain.QueuedRequest(nil), q.entries[1:]...)
	if err := q.commit(ctx, next); err != nil {
		return domain.QueuedRequest{}, false, err
	}

	logging.Logger.Debug("Request dequeued",
		"idempotency_key", head.IdempotencyKey,
		"length", len(q.entries))
	return head, true, nil
}

// PeekAll returns a copy of the queue in replay order
func (q *RequestQueue) PeekAll() []domain.QueuedRequest {
	return append([]domain.QueuedRequest(nil), q.entries...)
}

// Contains reports whether key is queued
func (q *RequestQueue) Contains(key string) bool {
	_, ok := q.keys[key]
	return ok
}

// Len returns the number of queued requests
func (q *RequestQueue) Len() int {
	return len(q.entries)
}

func (q *RequestQueue) admit(req domain.QueuedRequest) error {
	if req.IdempotencyKey == "" {
		return domain.ErrMissingIdempotencyKey
	}
	if q.Contains(req.IdempotencyKey) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateQueuedKey, req.IdempotencyKey)
	}
	return nil
}

func (q *RequestQueue) commit(ctx context.Context, next []domain.QueuedRequest) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}
	if err := q.store.Save(ctx, ports.RecordPendingQueue, data); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}

	q.entries = next
	q.keys = make(map[string]struct{}, len(next))
	for _, e := range next {
		q.keys[e.IdempotencyKey] = struct{}{}
	}
	return nil
}
