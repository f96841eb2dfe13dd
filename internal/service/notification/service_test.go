package notification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
	"locallink/internal/mocks"
	"locallink/internal/service/notification"
)

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	notifID := uuid.New()
	stored := &domain.Notification{ID: notifID, BusinessID: owner}

	t.Run("Owner marks read", func(t *testing.T) {
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil)
		repo.On("GetByID", ctx, notifID).Return(stored, nil).Once()
		repo.On("MarkAsRead", ctx, notifID).Return(&domain.Notification{ID: notifID, BusinessID: owner, Read: true}, nil).Once()

		n, err := svc.MarkAsRead(ctx, owner, notifID)

		require.NoError(t, err)
		assert.True(t, n.Read)
		repo.AssertExpectations(t)
	})

	t.Run("Other business forbidden", func(t *testing.T) {
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil)
		repo.On("GetByID", ctx, notifID).Return(stored, nil).Once()

		_, err := svc.MarkAsRead(ctx, uuid.New(), notifID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		repo.AssertNotCalled(t, "MarkAsRead", ctx, notifID)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(mocks.NotificationRepository)
		svc := notification.NewService(repo, nil)
		repo.On("GetByID", ctx, notifID).Return(nil, nil).Once()

		_, err := svc.MarkAsRead(ctx, owner, notifID)

		assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	})
}

func TestNotificationService_Counts(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	repo := new(mocks.NotificationRepository)
	svc := notification.NewService(repo, nil)
	repo.On("CountUnread", ctx, owner).Return(int64(4), nil).Once()
	repo.On("MarkAllAsRead", ctx, owner).Return(int64(4), nil).Once()

	count, err := svc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	n, err := svc.MarkAllAsRead(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestNotificationService_ListByBusiness(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	unread := false
	filter := domain.NotificationFilter{Read: &unread}

	repo := new(mocks.NotificationRepository)
	svc := notification.NewService(repo, nil)
	repo.On("ListByBusiness", ctx, owner, filter).Return([]domain.Notification{{ID: uuid.New()}}, nil).Once()

	list, err := svc.ListByBusiness(ctx, owner, filter)

	require.NoError(t, err)
	assert.Len(t, list, 1)
}
