package services

import (
	"context"
	"fmt"

	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// EngineConfig holds the collaborators of the sync engine
type EngineConfig struct {
	Decoder ports.CredentialDecoder
	Events  ports.EventPublisher
	// NewClient builds the sync client around the session's credential
	NewClient       func(credentials ports.CredentialSource) ports.SyncClient
	Scheduler       ports.Scheduler
	StartingBalance int64
	Store           ports.DurableStore
	Subscriber      ports.AuthSubscriber
	Timings         Timings
}

// Engine is the wired set of services
type Engine struct {
	Client      ports.SyncClient
	Coordinator *TransactionCoordinator
	Drainer     *QueueDrainer
	Player      *PlayerService
	Queue       *RequestQueue
	Session     *SessionManager

	subscriber  ports.AuthSubscriber
	unsubscribe func()
}

// NewEngine wires the services. Nothing is loaded until Start.
func NewEngine(cfg EngineConfig) *Engine {
	session := NewSessionManager(cfg.Store, cfg.Scheduler, cfg.Events, cfg.Decoder, cfg.Timings)
	client := cfg.NewClient(session)
	queue := NewRequestQueue(cfg.Store)
	player := NewPlayerService(cfg.Store, cfg.StartingBalance)
	coordinator := NewTransactionCoordinator(
		cfg.Store, queue, client, session, player, cfg.Scheduler, cfg.Events, cfg.Timings)
	drainer := NewQueueDrainer(queue, client, coordinator, session, cfg.Scheduler, cfg.Events, cfg.Timings)
	coordinator.SetDrainer(drainer)

	return &Engine{
		Client:      client,
		Coordinator: coordinator,
		Drainer:     drainer,
		Player:      player,
		Queue:       queue,
		Session:     session,
		subscriber:  cfg.Subscriber,
	}
}

// Start restores persisted state. The session goes last so that its
// AuthChanged finds the queue loaded and the drainer subscribed. Must run
// on the engine loop.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.Player.Load(ctx); err != nil {
		return err
	}
	if err := e.Queue.Load(ctx); err != nil {
		return err
	}
	if err := e.Coordinator.Recover(ctx); err != nil {
		return err
	}

	if e.subscriber != nil {
		unsubscribe, err := e.subscriber.OnAuthChanged(e.Drainer.OnAuthChanged)
		if err != nil {
			return fmt.Errorf("failed to subscribe drainer: %w", err)
		}
		e.unsubscribe = unsubscribe
	}

	if err := e.Session.Restore(ctx); err != nil {
		return err
	}

	logging.Logger.Info("Engine started",
		"mode", e.Session.Status().Mode,
		"queued", e.Queue.Len(),
		"pending", e.Coordinator.Pending())
	return nil
}

// Stop cancels every timer and unsubscribes. Must run on the engine loop.
func (e *Engine) Stop() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.Drainer.Stop()
	e.Coordinator.Stop()
	e.Session.Stop()
}
