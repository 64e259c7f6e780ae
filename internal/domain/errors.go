package domain

import "errors"

var (
	ErrDuplicateQueuedKey    = errors.New("idempotency key already queued")
	ErrEmptyCredential       = errors.New("credential token is empty")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidPayload        = errors.New("invalid payload")
	ErrInvalidTransition     = errors.New("invalid transaction status transition")
	ErrLoginFailed           = errors.New("login failed")
	ErrMalformedCredential   = errors.New("malformed credential token")
	ErrMissingIdempotencyKey = errors.New("missing idempotency key")
	ErrRecordNotFound        = errors.New("record not found")
	ErrSessionSettling       = errors.New("session is settling")
	ErrTooManyCharacters     = errors.New("character limit reached")
	ErrUnknownCharacter      = errors.New("unknown character")
	ErrUnknownItem           = errors.New("item not in inventory")
	ErrUnsupportedDriver     = errors.New("unsupported store driver")
	ErrUnsupportedKind       = errors.New("unsupported transaction kind")
)
