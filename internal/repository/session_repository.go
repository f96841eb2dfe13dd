package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"locallink/internal/pkg/errors"
)

// Session is a refresh token issued to a business. Only the token hash is stored.
type Session struct {
	ID         uuid.UUID  `db:"session_id"`
	BusinessID uuid.UUID  `db:"business_id"`
	TokenHash  string     `db:"token_hash"`
	UserAgent  *string    `db:"user_agent"`
	ExpiresAt  time.Time  `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForBusiness(ctx context.Context, businessID uuid.UUID) error
}

type sessionRepository struct {
	db sqlx.ExtContext
}

func NewSessionRepository(db sqlx.ExtContext) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (session_id, business_id, token_hash, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		session.ID, session.BusinessID, session.TokenHash, session.UserAgent, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	return errors.Wrap(err, "create session")
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	var session Session
	query := `SELECT * FROM sessions WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()`

	err := sqlx.GetContext(ctx, r.db, &session, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE session_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return errors.Wrap(err, "revoke session")
}

func (r *sessionRepository) RevokeAllForBusiness(ctx context.Context, businessID uuid.UUID) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE business_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, businessID)
	return errors.Wrap(err, "revoke business sessions")
}
