package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Review, error)
	RatingsByBusiness(ctx context.Context, businessID uuid.UUID) ([]int, error)
}

type reviewRepository struct {
	db sqlx.ExtContext
}

func NewReviewRepository(db sqlx.ExtContext) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, business_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.ID, review.BusinessID, review.ReviewerID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		return mapPQError(err, "create review")
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var review domain.Review
	err := sqlx.GetContext(ctx, r.db, &review, `SELECT * FROM reviews WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get review")
	}
	return &review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return errors.Wrap(err, "delete review")
}

func (r *reviewRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Review, error) {
	reviews := []domain.Review{}
	query := `SELECT * FROM reviews WHERE business_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &reviews, query, businessID); err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}

func (r *reviewRepository) RatingsByBusiness(ctx context.Context, businessID uuid.UUID) ([]int, error) {
	ratings := []int{}
	query := `SELECT rating FROM reviews WHERE business_id = $1`
	if err := sqlx.SelectContext(ctx, r.db, &ratings, query, businessID); err != nil {
		return nil, errors.Wrap(err, "list review ratings")
	}
	return ratings, nil
}
