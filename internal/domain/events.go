package domain

// AuthChanged is emitted once per debounce window with the settled mode
type AuthChanged struct {
	DisplayName string
	Mode        AuthMode
}

// AuthRequired asks the credential provider to prompt for a new login
type AuthRequired struct {
	Reason string
}

// TransactionSettled reports the outcome of a transaction to the
// presentation layer. NeedsReauth is set while the record stays pending
// behind a login prompt.
type TransactionSettled struct {
	ID             string
	IdempotencyKey string
	Kind           TransactionKind
	NeedsReauth    bool
	Reason         string
	Status         TransactionStatus
}

// QueueDrained is emitted when a drain empties the request queue
type QueueDrained struct {
	Replayed int
}
