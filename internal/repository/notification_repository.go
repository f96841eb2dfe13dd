package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, businessID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create is idempotent on the notification ID so a redelivered outbox event
// does not produce a second notification.
func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, business_id, type, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		notif.ID, notif.BusinessID, notif.Type, notif.Message, jsonOrEmptyObject(notif.Metadata),
	)
	if err != nil {
		return mapPQError(err, "create notification")
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	err := sqlx.GetContext(ctx, r.db, &notif, `SELECT * FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get notification")
	}
	return &notif, nil
}

func (r *notificationRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter) ([]domain.Notification, error) {
	notifications := []domain.Notification{}

	if filter.Read != nil {
		query := `
			SELECT * FROM notifications
			WHERE business_id = $1 AND read = $2
			ORDER BY created_at DESC`
		err := sqlx.SelectContext(ctx, r.db, &notifications, query, businessID, *filter.Read)
		return notifications, errors.Wrap(err, "list notifications")
	}

	query := `
		SELECT * FROM notifications
		WHERE business_id = $1
		ORDER BY created_at DESC`
	err := sqlx.SelectContext(ctx, r.db, &notifications, query, businessID)
	return notifications, errors.Wrap(err, "list notifications")
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `
		UPDATE notifications
		SET read = true, read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING *`
	err := sqlx.GetContext(ctx, r.db, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "mark notification read")
	}
	return &notif, nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, businessID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET read = true, read_at = NOW() WHERE business_id = $1 AND read = false`
	res, err := r.db.ExecContext(ctx, query, businessID)
	if err != nil {
		return 0, errors.Wrap(err, "mark all notifications read")
	}
	return res.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE business_id = $1 AND read = false`
	err := sqlx.GetContext(ctx, r.db, &count, query, businessID)
	return count, errors.Wrap(err, "count unread notifications")
}
