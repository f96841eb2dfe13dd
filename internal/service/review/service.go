package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/cache"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/notification"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrBusinessNotFound = errors.New("business not found")
	ErrSelfReview       = errors.New("you cannot review your own business")
)

type Service interface {
	Create(ctx context.Context, reviewerID uuid.UUID, input domain.CreateReviewInput) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Review, error)
	Delete(ctx context.Context, callerID, id uuid.UUID) error
}

type service struct {
	repos  *repository.Repositories
	tm     repository.TransactionManager
	cache  *cache.Cache
	waker  notification.Waker
	logger *slog.Logger
}

func NewService(repos *repository.Repositories, tm repository.TransactionManager, c *cache.Cache, waker notification.Waker, logger *slog.Logger) Service {
	return &service{repos: repos, tm: tm, cache: c, waker: waker, logger: logger}
}

// Create stores the review and recomputes the business rating while holding
// the business row lock, so concurrent reviews serialise on the recompute.
func (s *service) Create(ctx context.Context, reviewerID uuid.UUID, input domain.CreateReviewInput) (*domain.Review, error) {
	if reviewerID == input.BusinessID {
		return nil, ErrSelfReview
	}

	review := &domain.Review{
		ID:         uuid.New(),
		BusinessID: input.BusinessID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		business, err := repos.Business.GetByIDForUpdate(ctx, review.BusinessID)
		if err != nil {
			return err
		}
		if business == nil {
			return ErrBusinessNotFound
		}

		if err := repos.Review.Create(ctx, review); err != nil {
			return err
		}
		if err := recomputeRating(ctx, repos, review.BusinessID); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(review.BusinessID, domain.NotifNewReview,
			fmt.Sprintf("New %d-star review received", review.Rating),
			map[string]string{"review_id": review.ID.String(), "reviewer_id": reviewerID.String()})
		return repos.Outbox.Enqueue(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.BusinessKey(review.BusinessID))
	s.waker.Wake()
	return review, nil
}

// ListByBusiness returns reviews newest first with the reviewer attached.
func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.repos.Review.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ReviewerID)
	}
	reviewers, err := s.repos.Business.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].Reviewer = reviewers[reviews[i].ReviewerID]
	}
	return reviews, nil
}

func (s *service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	var businessID uuid.UUID

	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		review, err := repos.Review.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if review == nil {
			return ErrReviewNotFound
		}
		if review.ReviewerID != callerID {
			return domain.ErrForbidden
		}
		businessID = review.BusinessID

		if _, err := repos.Business.GetByIDForUpdate(ctx, businessID); err != nil {
			return err
		}
		if err := repos.Review.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeRating(ctx, repos, businessID)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.BusinessKey(businessID))
	s.logger.Info("review deleted", slog.String("review_id", id.String()), slog.String("business_id", businessID.String()))
	return nil
}

func recomputeRating(ctx context.Context, repos *repository.Repositories, businessID uuid.UUID) error {
	ratings, err := repos.Review.RatingsByBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	return repos.Business.UpdateRating(ctx, businessID, domain.MeanRating(ratings))
}
