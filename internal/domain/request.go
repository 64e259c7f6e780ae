package domain

import (
	"encoding/json"
	"time"
)

// QueuedRequest is one durable, not-yet-acknowledged mutating call.
// The idempotency key is generated once by the caller and never regenerated.
type QueuedRequest struct {
	Body           json.RawMessage `json:"body,omitempty"`
	EnqueuedAt     time.Time       `json:"enqueued_at"`
	IdempotencyKey string          `json:"idempotency_key"`
	Kind           TransactionKind `json:"kind"`
	Method         string          `json:"method"`
	Path           string          `json:"path"`
}

// SyncRequest is what the sync client puts on the wire
type SyncRequest struct {
	Body           []byte
	IdempotencyKey string
	Method         string
	Path           string
}

// SyncRequest returns the wire form of the queued request
func (r QueuedRequest) SyncRequest() SyncRequest {
	return SyncRequest{
		Body:           r.Body,
		IdempotencyKey: r.IdempotencyKey,
		Method:         r.Method,
		Path:           r.Path,
	}
}
