package mocks

import (
	"context"

	"locallink/internal/repository"
)

// TransactionManager runs fn directly against Repos. Commits counts the
// calls where fn returned nil.
type TransactionManager struct {
	Repos   *repository.Repositories
	Commits int
	Calls   int
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	m.Calls++
	if err := fn(m.Repos); err != nil {
		return err
	}
	m.Commits++
	return nil
}

// Repositories bundles one mock per repository.
type Repositories struct {
	Business     *BusinessRepository
	Session      *SessionRepository
	Product      *ProductRepository
	Order        *OrderRepository
	Connection   *ConnectionRepository
	Message      *MessageRepository
	Review       *ReviewRepository
	Notification *NotificationRepository
	Outbox       *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Business:     new(BusinessRepository),
		Session:      new(SessionRepository),
		Product:      new(ProductRepository),
		Order:        new(OrderRepository),
		Connection:   new(ConnectionRepository),
		Message:      new(MessageRepository),
		Review:       new(ReviewRepository),
		Notification: new(NotificationRepository),
		Outbox:       new(OutboxRepository),
	}
}

func (r *Repositories) Bundle() *repository.Repositories {
	return &repository.Repositories{
		Business:     r.Business,
		Session:      r.Session,
		Product:      r.Product,
		Order:        r.Order,
		Connection:   r.Connection,
		Message:      r.Message,
		Review:       r.Review,
		Notification: r.Notification,
		Outbox:       r.Outbox,
	}
}

func (r *Repositories) TransactionManager() *TransactionManager {
	return &TransactionManager{Repos: r.Bundle()}
}
