package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.Connection) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, status domain.ConnectionStatus) ([]domain.Connection, error)
	UpdateStatus(ctx context.Context, conn *domain.Connection) error
}

type connectionRepository struct {
	db sqlx.ExtContext
}

func NewConnectionRepository(db sqlx.ExtContext) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	query := `
		INSERT INTO connections (id, business1_id, business2_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, conn.ID, conn.Business1ID, conn.Business2ID, conn.Status).
		Scan(&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		return mapPQError(err, "create connection")
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	var conn domain.Connection
	err := sqlx.GetContext(ctx, r.db, &conn, `SELECT * FROM connections WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get connection")
	}
	return &conn, nil
}

// ListByBusiness returns connections on either side of businessID. An empty
// status matches every status.
func (r *connectionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, status domain.ConnectionStatus) ([]domain.Connection, error) {
	conns := []domain.Connection{}
	query := `
		SELECT * FROM connections
		WHERE (business1_id = $1 OR business2_id = $1)
		  AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &conns, query, businessID, string(status)); err != nil {
		return nil, errors.Wrap(err, "list connections")
	}
	return conns, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, conn *domain.Connection) error {
	query := `UPDATE connections SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, conn.ID, conn.Status).Scan(&conn.UpdatedAt)
	return errors.Wrap(err, "update connection status")
}
