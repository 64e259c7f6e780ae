package ui

import "github.com/renato0307/outpost/internal/domain"

// SnapshotMsg carries a fresh engine snapshot
type SnapshotMsg struct {
	Snapshot Snapshot
}

// SettledMsg is sent when a transaction settles
type SettledMsg struct {
	Event domain.TransactionSettled
}

// AuthChangedMsg is sent when the session mode settles
type AuthChangedMsg struct {
	Event domain.AuthChanged
}

// AuthRequiredMsg is sent when the server rejected the credential
type AuthRequiredMsg struct {
	Event domain.AuthRequired
}

// QueueDrainedMsg is sent when the queue was replayed to the end
type QueueDrainedMsg struct {
	Event domain.QueueDrained
}

type settlingMsg struct{}

type errMsg struct {
	err error
}

type actionDoneMsg struct {
	action Action
}
