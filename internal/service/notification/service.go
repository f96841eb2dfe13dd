package notification

import (
	"context"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/cache"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Service interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, businessID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, callerID, id uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	cache     *cache.Cache
}

func NewService(notifRepo repository.NotificationRepository, c *cache.Cache) Service {
	return &service{notifRepo: notifRepo, cache: c}
}

func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter) ([]domain.Notification, error) {
	return s.notifRepo.ListByBusiness(ctx, businessID, filter)
}

func (s *service) UnreadCount(ctx context.Context, businessID uuid.UUID) (int64, error) {
	key := cache.UnreadCountKey(businessID)

	var count int64
	if s.cache.GetJSON(ctx, key, &count) {
		return count, nil
	}

	count, err := s.notifRepo.CountUnread(ctx, businessID)
	if err != nil {
		return 0, err
	}
	s.cache.SetJSON(ctx, key, count)
	return count, nil
}

func (s *service) MarkAsRead(ctx context.Context, callerID, id uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, ErrNotificationNotFound
	}
	if notif.BusinessID != callerID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.notifRepo.MarkAsRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotificationNotFound
	}

	s.cache.Delete(ctx, cache.UnreadCountKey(callerID))
	return updated, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, businessID uuid.UUID) (int64, error) {
	n, err := s.notifRepo.MarkAllAsRead(ctx, businessID)
	if err != nil {
		return 0, err
	}
	s.cache.Delete(ctx, cache.UnreadCountKey(businessID))
	return n, nil
}
