package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// SyncResult is the completion of one sync client call. TransportErr is set
// when no HTTP response was received.
type SyncResult struct {
	Body         []byte
	HTTPStatus   int
	TransportErr error
}

// Outcome is the reconciliation class of a SyncResult
type Outcome string

const (
	OutcomeAuthFailure Outcome = "auth_failure"
	OutcomeCommitted   Outcome = "committed"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeIgnored     Outcome = "ignored"
	OutcomeRejected    Outcome = "rejected"
	OutcomeTransient   Outcome = "transient"
	OutcomeTransport   Outcome = "transport"
)

// Retryable reports whether the request should stay queued for replay
func (o Outcome) Retryable() bool {
	return o == OutcomeTransient || o == OutcomeTransport || o == OutcomeAuthFailure
}

// Success reports whether the server accepted the request
func (o Outcome) Success() bool {
	return o == OutcomeCommitted || o == OutcomeDuplicate
}

// successBody is the acknowledgment shape of mutating endpoints
type successBody struct {
	Duplicate bool   `json:"duplicate"`
	OK        *bool  `json:"ok"`
	OrderID   string `json:"order_id"`
}

// errorBody covers both error shapes the backend emits
type errorBody struct {
	Detail any `json:"detail"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Classify maps a result onto an outcome and a user-facing reason
func Classify(r SyncResult) (Outcome, string) {
	if r.TransportErr != nil {
		return OutcomeTransport, fmt.Sprintf("server unreachable: %v", r.TransportErr)
	}

	status := r.HTTPStatus
	switch {
	case status >= 200 && status < 300:
		var body successBody
		if len(r.Body) > 0 && json.Unmarshal(r.Body, &body) == nil {
			if body.OK != nil && !*body.OK {
				return OutcomeRejected, "request not accepted by server"
			}
			if body.Duplicate {
				return OutcomeDuplicate, ""
			}
		}
		return OutcomeCommitted, ""
	case status == http.StatusUnauthorized:
		return OutcomeAuthFailure, reasonFrom(r.Body, "authentication required")
	case status == http.StatusRequestTimeout,
		status == http.StatusTooEarly,
		status == http.StatusTooManyRequests,
		status >= 500:
		return OutcomeTransient, reasonFrom(r.Body, http.StatusText(status))
	case status >= 400:
		return OutcomeRejected, reasonFrom(r.Body, http.StatusText(status))
	}
	return OutcomeTransient, fmt.Sprintf("unexpected status %d", status)
}

func reasonFrom(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallback
	}
	if eb.Error != nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	switch d := eb.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case []any:
		// validation errors come back as a list of objects with a msg field
		var parts []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					parts = append(parts, msg)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return fallback
}
