package eventbus

import (
	"fmt"

	evbus "github.com/asaskevich/EventBus"

	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/ports"
)

// Topics published by the engine
const (
	TopicAuthChanged        = "auth:changed"
	TopicAuthRequired       = "auth:required"
	TopicQueueDrained       = "queue:drained"
	TopicTransactionSettled = "transaction:settled"
)

// Bus is a typed facade over EventBus.
//
// EventBus holds its lock while running handlers, so a handler that publishes
// would deadlock. When a scheduler is given, each publish is deferred to the
// next loop pass and handlers run on the loop with no lock held by the
// publisher.
type Bus struct {
	bus  evbus.Bus
	post func(func())
}

// Verify interface compliance at compile time
var _ ports.EventPublisher = (*Bus)(nil)

// New creates a bus delivering events on scheduler. A nil scheduler delivers
// synchronously.
func New(scheduler ports.Scheduler) *Bus {
	b := &Bus{bus: evbus.New()}
	if scheduler != nil {
		b.post = scheduler.Post
	}
	return b
}

func (b *Bus) publish(topic string, event any) {
	logging.Logger.Debug("Publishing event", "topic", topic, "event", fmt.Sprintf("%+v", event))
	if b.post == nil {
		b.bus.Publish(topic, event)
		return
	}
	b.post(func() { b.bus.Publish(topic, event) })
}

func (b *Bus) subscribe(topic string, fn any) (func(), error) {
	if err := b.bus.Subscribe(topic, fn); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return func() {
		if err := b.bus.Unsubscribe(topic, fn); err != nil {
			logging.Logger.Warn("Failed to unsubscribe", "topic", topic, "error", err)
		}
	}, nil
}

// HasSubscribers reports whether any handler listens on topic. Must be called
// from outside a handler.
func (b *Bus) HasSubscribers(topic string) bool {
	return b.bus.HasCallback(topic)
}

// PublishAuthChanged emits a settled auth mode
func (b *Bus) PublishAuthChanged(e domain.AuthChanged) {
	b.publish(TopicAuthChanged, e)
}

// PublishAuthRequired asks for a new login
func (b *Bus) PublishAuthRequired(e domain.AuthRequired) {
	b.publish(TopicAuthRequired, e)
}

// PublishQueueDrained reports an emptied queue
func (b *Bus) PublishQueueDrained(e domain.QueueDrained) {
	b.publish(TopicQueueDrained, e)
}

// PublishTransactionSettled reports a transaction outcome
func (b *Bus) PublishTransactionSettled(e domain.TransactionSettled) {
	b.publish(TopicTransactionSettled, e)
}

// OnAuthChanged subscribes fn; the returned func unsubscribes it
func (b *Bus) OnAuthChanged(fn func(domain.AuthChanged)) (func(), error) {
	return b.subscribe(TopicAuthChanged, fn)
}

// OnAuthRequired subscribes fn; the returned func unsubscribes it
func (b *Bus) OnAuthRequired(fn func(domain.AuthRequired)) (func(), error) {
	return b.subscribe(TopicAuthRequired, fn)
}

// OnQueueDrained subscribes fn; the returned func unsubscribes it
func (b *Bus) OnQueueDrained(fn func(domain.QueueDrained)) (func(), error) {
	return b.subscribe(TopicQueueDrained, fn)
}

// OnTransactionSettled subscribes fn; the returned func unsubscribes it
func (b *Bus) OnTransactionSettled(fn func(domain.TransactionSettled)) (func(), error) {
	return b.subscribe(TopicTransactionSettled, fn)
}
