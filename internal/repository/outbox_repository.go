package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, events ...*domain.OutboxEvent) error
	ClaimPending(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxEvent, error)
	MarkDispatched(ctx context.Context, ids []uuid.UUID) error
	RecordFailure(ctx context.Context, ids []uuid.UUID, reason string) error
}

type outboxRepository struct {
	db sqlx.ExtContext
}

func NewOutboxRepository(db sqlx.ExtContext) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, events ...*domain.OutboxEvent) error {
	query := `
		INSERT INTO notification_outbox (id, business_id, type, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	for _, ev := range events {
		err := r.db.QueryRowxContext(ctx, query,
			ev.ID, ev.BusinessID, ev.Type, ev.Message, jsonOrEmptyObject(ev.Metadata),
		).Scan(&ev.CreatedAt)
		if err != nil {
			return errors.Wrap(err, "enqueue outbox event")
		}
	}
	return nil
}

// ClaimPending locks up to limit undispatched events that have failed fewer
// than maxAttempts times, skipping rows another dispatcher already holds.
// Must run inside a transaction.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxEvent, error) {
	events := []domain.OutboxEvent{}
	query := `
		SELECT * FROM notification_outbox
		WHERE dispatched_at IS NULL AND attempts < $2
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	if err := sqlx.SelectContext(ctx, r.db, &events, query, limit, maxAttempts); err != nil {
		return nil, errors.Wrap(err, "claim outbox events")
	}
	return events, nil
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE notification_outbox SET dispatched_at = NOW(), attempts = attempts + 1 WHERE id = ANY($1::uuid[])`
	_, err := r.db.ExecContext(ctx, query, pq.Array(uuidStrings(ids)))
	return errors.Wrap(err, "mark outbox dispatched")
}

func (r *outboxRepository) RecordFailure(ctx context.Context, ids []uuid.UUID, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE notification_outbox
		SET attempts = attempts + 1, last_error = $2
		WHERE id = ANY($1::uuid[]) AND dispatched_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, pq.Array(uuidStrings(ids)), reason)
	return errors.Wrap(err, "record outbox failure")
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
