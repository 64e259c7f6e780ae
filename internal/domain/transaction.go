package domain

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// TransactionKind identifies the user action a transaction performs
type TransactionKind string

const (
	KindBuy             TransactionKind = "buy"
	KindCreateCharacter TransactionKind = "create_character"
	KindDeleteCharacter TransactionKind = "delete_character"
	KindRenameCharacter TransactionKind = "rename_character"
	KindSell            TransactionKind = "sell"
)

// TransactionStatus is the reconciliation state of a transaction
type TransactionStatus string

const (
	StatusCommitted  TransactionStatus = "committed"
	StatusExpired    TransactionStatus = "expired"
	StatusPending    TransactionStatus = "pending"
	StatusRolledBack TransactionStatus = "rolled_back"
)

// Character name bounds and account limit enforced by the backend
const (
	MaxCharacters        = 5
	MaxCharacterNameLen  = 20
	MinCharacterNameLen  = 3
	DefaultSettlementID  = 1
	MaxTransactionAmount = 1_000_000
)

// IsTerminal reports whether no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCommitted || s == StatusRolledBack || s == StatusExpired
}

// CanTransitionTo enforces monotonic status changes: Pending may move to any
// terminal status, terminal statuses never move.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

// Payload carries the parameters of a user action. Fields not used by a kind
// are left zero.
type Payload struct {
	CharacterID   string `json:"character_id,omitempty"`
	CharacterName string `json:"character_name,omitempty"`
	ItemID        int    `json:"item_id,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
	SettlementID  int    `json:"settlement_id,omitempty"`
	UnitPrice     int64  `json:"unit_price,omitempty"`
}

// Validate checks the payload shape for the given kind
func (p Payload) Validate(kind TransactionKind) error {
	switch kind {
	case KindBuy, KindSell:
		if p.ItemID <= 0 {
			return fmt.Errorf("%w: item_id must be positive", ErrInvalidPayload)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidPayload)
		}
		if p.UnitPrice < 0 {
			return fmt.Errorf("%w: unit_price must not be negative", ErrInvalidPayload)
		}
		if _, ok := p.Amount(); !ok {
			return fmt.Errorf("%w: amount exceeds %d", ErrInvalidPayload, MaxTransactionAmount)
		}
	case KindCreateCharacter:
		if err := validateCharacterName(p.CharacterName); err != nil {
			return err
		}
	case KindRenameCharacter:
		if p.CharacterID == "" {
			return fmt.Errorf("%w: character_id is required", ErrInvalidPayload)
		}
		if err := validateCharacterName(p.CharacterName); err != nil {
			return err
		}
	case KindDeleteCharacter:
		if p.CharacterID == "" {
			return fmt.Errorf("%w: character_id is required", ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	return nil
}

// Amount returns UnitPrice*Quantity, or false when it would exceed
// MaxTransactionAmount. The bound is checked before multiplying.
func (p Payload) Amount() (int64, bool) {
	if p.Quantity <= 0 || p.UnitPrice < 0 {
		return 0, false
	}
	if p.UnitPrice > MaxTransactionAmount/int64(p.Quantity) {
		return 0, false
	}
	return p.UnitPrice * int64(p.Quantity), true
}

func validateCharacterName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinCharacterNameLen || n > MaxCharacterNameLen {
		return fmt.Errorf("%w: name must be between %d-%d characters",
			ErrInvalidPayload, MinCharacterNameLen, MaxCharacterNameLen)
	}
	return nil
}

type marketBody struct {
	ItemID       int `json:"item_id"`
	Quantity     int `json:"quantity"`
	SettlementID int `json:"settlement_id"`
}

type characterBody struct {
	Name string `json:"name"`
}

// BuildRequest maps an action onto its wire request. The key is supplied by
// the caller and copied verbatim.
func BuildRequest(kind TransactionKind, p Payload, key string, now time.Time) (QueuedRequest, error) {
	if key == "" {
		return QueuedRequest{}, ErrMissingIdempotencyKey
	}

	req := QueuedRequest{
		EnqueuedAt:     now,
		IdempotencyKey: key,
		Kind:           kind,
	}

	var body any
	switch kind {
	case KindBuy, KindSell:
		settlement := p.SettlementID
		if settlement == 0 {
			settlement = DefaultSettlementID
		}
		req.Method = http.MethodPost
		req.Path = "/market/" + string(kind)
		body = marketBody{ItemID: p.ItemID, Quantity: p.Quantity, SettlementID: settlement}
	case KindCreateCharacter:
		req.Method = http.MethodPost
		req.Path = "/characters"
		body = characterBody{Name: p.CharacterName}
	case KindRenameCharacter:
		req.Method = http.MethodPatch
		req.Path = "/characters/" + p.CharacterID
		body = characterBody{Name: p.CharacterName}
	case KindDeleteCharacter:
		req.Method = http.MethodDelete
		req.Path = "/characters/" + p.CharacterID
	default:
		return QueuedRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return QueuedRequest{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.Body = data
	}

	return req, nil
}

// TransactionRecord is the optimistic-commit bookkeeping for one user action
type TransactionRecord struct {
	AppliedEffect    Effect            `json:"applied_effect"`
	CreatedAt        time.Time         `json:"created_at"`
	ID               string            `json:"id"`
	IdempotencyKey   string            `json:"idempotency_key"`
	Kind             TransactionKind   `json:"kind"`
	Payload          Payload           `json:"payload"`
	PreStateSnapshot Snapshot          `json:"pre_state_snapshot"`
	Reason           string            `json:"reason,omitempty"`
	SettledAt        *time.Time        `json:"settled_at,omitempty"`
	Status           TransactionStatus `json:"status"`
}

// Transition moves the record to next, refusing non-monotonic changes
func (r *TransactionRecord) Transition(next TransactionStatus, reason string, at time.Time) error {
	if !r.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, next)
	}
	r.Status = next
	r.Reason = reason
	r.SettledAt = &at
	return nil
}

// ExecuteResult is returned synchronously to the caller of Execute
type ExecuteResult struct {
	IdempotencyKey  string
	LocalResultID   string
	OptimisticState PlayerState
	Queued          bool
	Status          TransactionStatus
}
