package ports

import "github.com/renato0307/outpost/internal/domain"

// EventPublisher fans engine notifications out to collaborators
type EventPublisher interface {
	PublishAuthChanged(e domain.AuthChanged)
	PublishAuthRequired(e domain.AuthRequired)
	PublishQueueDrained(e domain.QueueDrained)
	PublishTransactionSettled(e domain.TransactionSettled)
}

// AuthSubscriber delivers AuthChanged notifications
type AuthSubscriber interface {
	// OnAuthChanged subscribes fn; the returned func unsubscribes it
	OnAuthChanged(fn func(domain.AuthChanged)) (func(), error)
}
