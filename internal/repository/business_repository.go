package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Business, error)
	GetByEmail(ctx context.Context, email string) (*domain.Business, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	UpdateLogo(ctx context.Context, id uuid.UUID, logo *domain.Asset) error
	AppendImages(ctx context.Context, id uuid.UUID, images domain.Assets) (domain.Assets, error)
	RemoveImage(ctx context.Context, id uuid.UUID, publicID string) (domain.Assets, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetPasswordResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetByPasswordResetToken(ctx context.Context, tokenHash string) (*domain.Business, error)
	ClearPasswordResetToken(ctx context.Context, id uuid.UUID) error
}

type businessRepository struct {
	db sqlx.ExtContext
}

func NewBusinessRepository(db sqlx.ExtContext) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	if business.Images == nil {
		business.Images = domain.Assets{}
	}

	query := `
		INSERT INTO businesses (id, email, password_hash, business_name, business_type, description, location, logo, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING rating, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		business.ID, business.Email, business.PasswordHash, business.BusinessName, business.BusinessType,
		business.Description, business.Location, business.Logo, business.Images,
	).Scan(&business.Rating, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		return mapPQError(err, "create business")
	}
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	return r.getOne(ctx, `SELECT * FROM businesses WHERE id = $1`, id)
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *businessRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	return r.getOne(ctx, `SELECT * FROM businesses WHERE id = $1 FOR UPDATE`, id)
}

func (r *businessRepository) GetByEmail(ctx context.Context, email string) (*domain.Business, error) {
	return r.getOne(ctx, `SELECT * FROM businesses WHERE email = $1`, strings.ToLower(email))
}

func (r *businessRepository) getOne(ctx context.Context, query string, args ...interface{}) (*domain.Business, error) {
	var business domain.Business
	err := sqlx.GetContext(ctx, r.db, &business, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get business")
	}
	return &business, nil
}

func (r *businessRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Business, error) {
	result := make(map[uuid.UUID]*domain.Business, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var businesses []domain.Business
	query := `SELECT * FROM businesses WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.db, &businesses, query, pq.Array(keys)); err != nil {
		return nil, errors.Wrap(err, "get businesses by ids")
	}

	for i := range businesses {
		result[businesses[i].ID] = &businesses[i]
	}
	return result, nil
}

func (r *businessRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM businesses WHERE email = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, strings.ToLower(email)); err != nil {
		return false, errors.Wrap(err, "check business email")
	}
	return exists, nil
}

func (r *businessRepository) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.BusinessType != "" {
		args = append(args, filter.BusinessType)
		conditions = append(conditions, "business_type = $"+itoa(len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		conditions = append(conditions, "location->>'address' ILIKE $"+itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := itoa(len(args))
		conditions = append(conditions, "(business_name ILIKE $"+n+" OR description ILIKE $"+n+")")
	}

	query := `SELECT * FROM businesses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	businesses := []domain.Business{}
	if err := sqlx.SelectContext(ctx, r.db, &businesses, query, args...); err != nil {
		return nil, errors.Wrap(err, "list businesses")
	}
	return businesses, nil
}

func (r *businessRepository) Update(ctx context.Context, business *domain.Business) error {
	query := `
		UPDATE businesses
		SET business_name = $2, business_type = $3, description = $4, location = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		business.ID, business.BusinessName, business.BusinessType, business.Description, business.Location,
	).Scan(&business.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update business")
	}
	return nil
}

func (r *businessRepository) UpdateLogo(ctx context.Context, id uuid.UUID, logo *domain.Asset) error {
	return r.exec(ctx, "update business logo",
		`UPDATE businesses SET logo = $2, updated_at = NOW() WHERE id = $1`, id, logo)
}

// AppendImages adds images to the end of the list in a single statement and
// returns the stored list. A missing business yields (nil, nil).
func (r *businessRepository) AppendImages(ctx context.Context, id uuid.UUID, images domain.Assets) (domain.Assets, error) {
	query := `
		UPDATE businesses SET images = images || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING images`
	return r.assets(ctx, "append business images", query, id, images)
}

// RemoveImage drops publicID from the list in a single statement. It yields
// (nil, nil) when the business does not hold that image.
func (r *businessRepository) RemoveImage(ctx context.Context, id uuid.UUID, publicID string) (domain.Assets, error) {
	query := `
		UPDATE businesses SET images = ` + withoutAsset("images") + `, updated_at = NOW()
		WHERE id = $1 AND ` + holdsAsset("images") + `
		RETURNING images`
	return r.assets(ctx, "remove business image", query, id, publicID)
}

func (r *businessRepository) assets(ctx context.Context, op, query string, args ...interface{}) (domain.Assets, error) {
	var images domain.Assets
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&images)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return images, nil
}

func (r *businessRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	return r.exec(ctx, "update business rating",
		`UPDATE businesses SET rating = $2, updated_at = NOW() WHERE id = $1`, id, rating)
}

func (r *businessRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, "update business password",
		`UPDATE businesses SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

func (r *businessRepository) SetPasswordResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.exec(ctx, "set password reset token",
		`UPDATE businesses SET password_reset_token = $2, password_reset_expires_at = $3 WHERE id = $1`,
		id, tokenHash, expiresAt)
}

func (r *businessRepository) GetByPasswordResetToken(ctx context.Context, tokenHash string) (*domain.Business, error) {
	return r.getOne(ctx,
		`SELECT * FROM businesses WHERE password_reset_token = $1 AND password_reset_expires_at > NOW()`, tokenHash)
}

func (r *businessRepository) ClearPasswordResetToken(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "clear password reset token",
		`UPDATE businesses SET password_reset_token = NULL, password_reset_expires_at = NULL WHERE id = $1`, id)
}

func (r *businessRepository) exec(ctx context.Context, op, query string, args ...interface{}) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
