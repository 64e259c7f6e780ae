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

// PlayerService holds the local player state optimistic effects land on
type PlayerService struct {
	starting int64
	state    domain.PlayerState
	store    ports.DurableStore
}

// Verify interface compliance at compile time
var _ ports.EffectTarget = (*PlayerService)(nil)

// NewPlayerService creates the service with a fresh state of the given
// starting balance; call Load to restore the persisted state
func NewPlayerService(store ports.DurableStore, startingBalance int64) *PlayerService {
	return &PlayerService{
		starting: startingBalance,
		state:    domain.NewPlayerState(startingBalance),
		store:    store,
	}
}

// Load restores the persisted player state
func (p *PlayerService) Load(ctx context.Context) error {
	data, err := p.store.Load(ctx, ports.RecordPlayerState)
	if errors.Is(err, domain.ErrRecordNotFound) {
		p.state = domain.NewPlayerState(p.starting)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load player state: %w", err)
	}

	state := domain.NewPlayerState(0)
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode player state: %w", err)
	}
	p.state = state
	return nil
}

// Plan computes the effect of an action against the current state
func (p *PlayerService) Plan(kind domain.TransactionKind, payload domain.Payload) (domain.Effect, error) {
	return p.state.Plan(kind, payload)
}

// Capture snapshots what effect is about to change
func (p *PlayerService) Capture(effect domain.Effect) domain.Snapshot {
	return p.state.Capture(effect)
}

// Apply applies effect and persists the result
func (p *PlayerService) Apply(ctx context.Context, effect domain.Effect) error {
	next := p.state.Clone()
	next.Apply(effect)
	if err := p.save(ctx, next); err != nil {
		return err
	}
	logging.Logger.Debug("Effect applied", "kind", effect.Kind, "balance", next.Balance)
	return nil
}

// Revert compensates an applied effect and persists the result
func (p *PlayerService) Revert(ctx context.Context, effect domain.Effect, snap domain.Snapshot) error {
	next := p.state.Clone()
	next.Revert(effect, snap)
	if err := p.save(ctx, next); err != nil {
		return err
	}
	logging.Logger.Debug("Effect reverted", "kind", effect.Kind, "balance", next.Balance)
	return nil
}

// State returns a copy of the current state
func (p *PlayerService) State() domain.PlayerState {
	return p.state.Clone()
}

func (p *PlayerService) save(ctx context.Context, next domain.PlayerState) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode player state: %w", err)
	}
	if err := p.store.Save(ctx, ports.RecordPlayerState, data); err != nil {
		return fmt.Errorf("failed to persist player state: %w", err)
	}
	p.state = next
	return nil
}
