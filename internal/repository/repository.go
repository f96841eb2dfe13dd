package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"locallink/internal/pkg/errors"
)

var (
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Business     BusinessRepository
	Session      SessionRepository
	Product      ProductRepository
	Order        OrderRepository
	Connection   ConnectionRepository
	Message      MessageRepository
	Review       ReviewRepository
	Notification NotificationRepository
	Outbox       OutboxRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return newRepositories(db)
}

func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Business:     NewBusinessRepository(q),
		Session:      NewSessionRepository(q),
		Product:      NewProductRepository(q),
		Order:        NewOrderRepository(q),
		Connection:   NewConnectionRepository(q),
		Message:      NewMessageRepository(q),
		Review:       NewReviewRepository(q),
		Notification: NewNotificationRepository(q),
		Outbox:       NewOutboxRepository(q),
	}
}

// TransactionManager runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repos *Repositories) error) error
}

type txManager struct {
	db *sqlx.DB
}

func NewTransactionManager(db *sqlx.DB) TransactionManager {
	return &txManager{db: db}
}

func (m *txManager) Execute(ctx context.Context, fn func(repos *Repositories) error) (err error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func mapPQError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Wrap(ErrDuplicate, op)
		case "23503":
			return errors.Wrap(ErrInvalidReference, op)
		}
	}
	return errors.Wrap(err, op)
}
