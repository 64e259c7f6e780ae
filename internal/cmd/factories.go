package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/outpost/internal/adapters/eventbus"
	"github.com/renato0307/outpost/internal/adapters/filelock"
	"github.com/renato0307/outpost/internal/adapters/httpsync"
	"github.com/renato0307/outpost/internal/adapters/jwtcred"
	adapterstorage "github.com/renato0307/outpost/internal/adapters/storage"
	"github.com/renato0307/outpost/internal/config"
	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/loop"
	"github.com/renato0307/outpost/internal/ports"
	"github.com/renato0307/outpost/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Bus     *eventbus.Bus
	Client  *httpsync.Client
	Engine  *services.Engine
	Loop    *loop.Loop
	Runtime config.Runtime

	// Internal - for cleanup only
	lock  *filelock.Lock
	store ports.DurableStore
}

// NewContainer creates a new Container with all dependencies wired. It
// holds the home lock until Close, waiting up to lockWait for another
// outpost process to release it.
func NewContainer(rt config.Runtime, lockWait time.Duration) (*Container, error) {
	var lock *filelock.Lock
	if rt.LockPath != "" {
		var err error
		lock, err = filelock.Acquire(rt.LockPath, lockWait)
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("another outpost process is running: %w", err)
		}
		if err != nil {
			return nil, err
		}
	}

	store, err := adapterstorage.New(rt.Store)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	c := newContainer(rt, store, loop.New(nil))
	c.lock = lock
	return c, nil
}

func newContainer(rt config.Runtime, store ports.DurableStore, l *loop.Loop) *Container {
	bus := eventbus.New(l)
	c := &Container{
		Bus:     bus,
		Loop:    l,
		Runtime: rt,
		store:   store,
	}

	c.Engine = services.NewEngine(services.EngineConfig{
		Decoder: jwtcred.NewDecoder(),
		Events:  bus,
		NewClient: func(credentials ports.CredentialSource) ports.SyncClient {
			c.Client = httpsync.NewClient(rt.APIURL, rt.RequestTimeout, credentials, l)
			return c.Client
		},
		Scheduler:       l,
		StartingBalance: rt.StartingBalance,
		Store:           store,
		Subscriber:      bus,
		Timings:         rt.Timings,
	})
	return c
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	defer c.lock.Release()
	if c.Client != nil {
		_ = c.Client.Close()
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Do runs fn on the engine loop and returns its error
func (c *Container) Do(ctx context.Context, fn func(ctx context.Context, e *services.Engine) error) error {
	var err error
	if callErr := c.Loop.Call(ctx, func() { err = fn(ctx, c.Engine) }); callErr != nil {
		return callErr
	}
	return err
}

// release drops a bus subscription on the loop and waits for it, unless ctx
// is done first
func (c *Container) release(ctx context.Context, unsubscribe func()) {
	if unsubscribe == nil {
		return
	}
	_ = c.Do(ctx, func(context.Context, *services.Engine) error {
		unsubscribe()
		return nil
	})
}

// Run starts the engine loop, restores persisted state and calls fn. The
// engine is stopped and the loop shut down once fn returns.
func (c *Container) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Loop.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if err := c.Do(gctx, func(ctx context.Context, e *services.Engine) error { return e.Start(ctx) }); err != nil {
			return fmt.Errorf("failed to start engine: %w", err)
		}
		err := fn(gctx)
		stopErr := c.Do(gctx, func(context.Context, *services.Engine) error {
			c.Engine.Stop()
			return nil
		})
		if err != nil {
			return err
		}
		return stopErr
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// awaitSettled waits for the transaction of key to leave Pending, or for
// wait to elapse. Returns the last settlement event seen.
func (c *Container) awaitSettled(ctx context.Context, key string, wait time.Duration) (domain.TransactionSettled, bool, error) {
	events := make(chan domain.TransactionSettled, 8)
	var unsubscribe func()
	err := c.Do(ctx, func(context.Context, *services.Engine) error {
		var err error
		unsubscribe, err = c.Bus.OnTransactionSettled(func(e domain.TransactionSettled) {
			if e.IdempotencyKey != key {
				return
			}
			select {
			case events <- e:
			default:
			}
		})
		return err
	})
	if err != nil {
		return domain.TransactionSettled{}, false, err
	}
	defer c.release(ctx, unsubscribe)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	var last domain.TransactionSettled
	for {
		select {
		case e := <-events:
			last = e
			if e.Status != domain.StatusPending || e.NeedsReauth {
				return last, true, nil
			}
		case <-timer.C:
			logging.Logger.Info("Stopped waiting for settlement", "idempotency_key", key, "wait", wait)
			return last, false, nil
		case <-ctx.Done():
			return last, false, ctx.Err()
		}
	}
}

// awaitDrained waits for the drainer to empty the queue, or for wait to
// elapse
func (c *Container) awaitDrained(ctx context.Context, wait time.Duration) (bool, error) {
	drained := make(chan domain.QueueDrained, 1)
	var unsubscribe func()
	var idle bool
	err := c.Do(ctx, func(_ context.Context, e *services.Engine) error {
		var err error
		unsubscribe, err = c.Bus.OnQueueDrained(func(ev domain.QueueDrained) {
			select {
			case drained <- ev:
			default:
			}
		})
		idle = e.Queue.Len() == 0 && !e.Drainer.Draining()
		return err
	})
	if err != nil {
		return false, err
	}
	defer c.release(ctx, unsubscribe)
	if idle {
		return true, nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-drained:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
