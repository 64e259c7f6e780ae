package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		result  SyncResult
		outcome Outcome
		reason  string
	}{
		{"transport failure", SyncResult{TransportErr: errors.New("dial tcp: refused")}, OutcomeTransport, "server unreachable: dial tcp: refused"},
		{"ok", SyncResult{HTTPStatus: 200, Body: []byte(`{"ok":true,"order_id":"k","duplicate":false}`)}, OutcomeCommitted, ""},
		{"duplicate ack", SyncResult{HTTPStatus: 200, Body: []byte(`{"ok":true,"order_id":"k","duplicate":true}`)}, OutcomeDuplicate, ""},
		{"no body", SyncResult{HTTPStatus: 204}, OutcomeCommitted, ""},
		{"ok false", SyncResult{HTTPStatus: 200, Body: []byte(`{"ok":false}`)}, OutcomeRejected, "request not accepted by server"},
		{"unauthorized", SyncResult{HTTPStatus: 401, Body: []byte(`{"detail":"Invalid token"}`)}, OutcomeAuthFailure, "Invalid token"},
		{"insufficient funds", SyncResult{HTTPStatus: 400, Body: []byte(`{"detail":"Insufficient funds"}`)}, OutcomeRejected, "Insufficient funds"},
		{"structured error", SyncResult{HTTPStatus: 422, Body: []byte(`{"error":{"code":"VALIDATION_FAILED","message":"Invalid transaction data"}}`)}, OutcomeRejected, "Invalid transaction data"},
		{"validation list", SyncResult{HTTPStatus: 422, Body: []byte(`{"detail":[{"msg":"field required"},{"msg":"bad"}]}`)}, OutcomeRejected, "field required; bad"},
		{"not found", SyncResult{HTTPStatus: 404}, OutcomeRejected, "Not Found"},
		{"rate limited", SyncResult{HTTPStatus: 429}, OutcomeTransient, "Too Many Requests"},
		{"server error", SyncResult{HTTPStatus: 503, Body: []byte(`not json`)}, OutcomeTransient, "Service Unavailable"},
		{"redirect", SyncResult{HTTPStatus: 302}, OutcomeTransient, "unexpected status 302"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, reason := Classify(tt.result)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestOutcome_Retryable(t *testing.T) {
	assert.True(t, OutcomeTransient.Retryable())
	assert.True(t, OutcomeTransport.Retryable())
	assert.True(t, OutcomeAuthFailure.Retryable())
	assert.False(t, OutcomeRejected.Retryable())
	assert.False(t, OutcomeCommitted.Retryable())
	assert.True(t, OutcomeDuplicate.Success())
}
