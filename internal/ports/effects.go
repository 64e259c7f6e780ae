package ports

import (
	"context"

	"github.com/renato0307/outpost/internal/domain"
)

// EffectTarget is the local state optimistic effects are applied to
type EffectTarget interface {
	Apply(ctx context.Context, effect domain.Effect) error
	Capture(effect domain.Effect) domain.Snapshot
	Plan(kind domain.TransactionKind, payload domain.Payload) (domain.Effect, error)
	Revert(ctx context.Context, effect domain.Effect, snap domain.Snapshot) error
	State() domain.PlayerState
}
