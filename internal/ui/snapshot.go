package ui

import (
	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/services"
)

// Snapshot is a copy of everything the views show. It is taken on the
// engine loop and rendered anywhere.
type Snapshot struct {
	Draining  bool
	Identity  *domain.Identity
	Ledger    []domain.TransactionRecord
	Pending   int
	Player    domain.PlayerState
	Queue     []domain.QueuedRequest
	Reachable bool
	Session   domain.SessionStatus
}

// TakeSnapshot copies the engine state. Must run on the engine loop.
func TakeSnapshot(e *services.Engine) Snapshot {
	return Snapshot{
		Draining:  e.Drainer.Draining(),
		Identity:  e.Session.Snapshot().Identity,
		Ledger:    e.Coordinator.Records(),
		Pending:   e.Coordinator.Pending(),
		Player:    e.Player.State(),
		Queue:     e.Queue.PeekAll(),
		Reachable: e.Coordinator.Reachable(),
		Session:   e.Session.Status(),
	}
}
