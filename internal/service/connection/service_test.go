package connection_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
	"locallink/internal/mocks"
	"locallink/internal/service/connection"
)

func newService() (*mocks.Repositories, *mocks.Waker, connection.Service) {
	repos := mocks.NewRepositories()
	waker := &mocks.Waker{}
	return repos, waker, connection.NewService(repos.Bundle(), repos.TransactionManager(), waker)
}

func TestConnectionService_Create(t *testing.T) {
	ctx := context.Background()
	requester := uuid.New()
	target := uuid.New()

	t.Run("Notifies target", func(t *testing.T) {
		repos, waker, svc := newService()
		repos.Business.On("GetByID", ctx, target).Return(&domain.Business{ID: target}, nil).Once()
		repos.Business.On("GetByID", ctx, requester).Return(&domain.Business{ID: requester, BusinessName: "Roastery"}, nil).Once()
		repos.Connection.On("Create", ctx, mock.AnythingOfType("*domain.Connection")).Return(nil).Once()
		repos.Outbox.On("Enqueue", ctx, mock.MatchedBy(func(evs []*domain.OutboxEvent) bool {
			return len(evs) == 1 && evs[0].BusinessID == target &&
				evs[0].Type == domain.NotifConnectionRequest &&
				evs[0].Message == "Connection request from Roastery"
		})).Return(nil).Once()

		conn, err := svc.Create(ctx, requester, domain.CreateConnectionInput{Business2ID: target})

		require.NoError(t, err)
		assert.Equal(t, requester, conn.Business1ID)
		assert.Equal(t, domain.ConnectionPending, conn.Status)
		assert.Equal(t, 1, waker.Count)
		repos.Outbox.AssertExpectations(t)
	})

	t.Run("Requester must be caller", func(t *testing.T) {
		_, _, svc := newService()
		other := uuid.New()

		_, err := svc.Create(ctx, requester, domain.CreateConnectionInput{Business1ID: &other, Business2ID: target})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Self connection", func(t *testing.T) {
		_, _, svc := newService()

		_, err := svc.Create(ctx, requester, domain.CreateConnectionInput{Business2ID: requester})

		assert.ErrorIs(t, err, connection.ErrSelfConnection)
	})

	t.Run("Unknown target", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Business.On("GetByID", ctx, target).Return(nil, nil).Once()

		_, err := svc.Create(ctx, requester, domain.CreateConnectionInput{Business2ID: target})

		assert.ErrorIs(t, err, connection.ErrBusinessNotFound)
	})
}

func TestConnectionService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	requester := uuid.New()
	target := uuid.New()
	connID := uuid.New()

	stored := func() *domain.Connection {
		return &domain.Connection{ID: connID, Business1ID: requester, Business2ID: target, Status: domain.ConnectionPending}
	}

	t.Run("Target accepts and requester is notified", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Connection.On("GetByID", ctx, connID).Return(stored(), nil).Once()
		repos.Connection.On("UpdateStatus", ctx, mock.Anything).Return(nil).Once()
		repos.Outbox.On("Enqueue", ctx, mock.MatchedBy(func(evs []*domain.OutboxEvent) bool {
			return evs[0].BusinessID == requester && evs[0].Type == domain.NotifConnectionUpdate
		})).Return(nil).Once()

		conn, err := svc.UpdateStatus(ctx, target, connID, domain.ConnectionAccepted)

		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionAccepted, conn.Status)
	})

	t.Run("Invalid status", func(t *testing.T) {
		_, _, svc := newService()

		_, err := svc.UpdateStatus(ctx, target, connID, "blocked")

		assert.ErrorIs(t, err, connection.ErrInvalidStatus)
	})

	t.Run("Outsider forbidden", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Connection.On("GetByID", ctx, connID).Return(stored(), nil).Once()

		_, err := svc.UpdateStatus(ctx, uuid.New(), connID, domain.ConnectionAccepted)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Missing connection", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Connection.On("GetByID", ctx, connID).Return(nil, nil).Once()

		_, err := svc.UpdateStatus(ctx, target, connID, domain.ConnectionAccepted)

		assert.ErrorIs(t, err, connection.ErrConnectionNotFound)
	})
}

func TestConnectionService_ListByBusiness(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	repos, _, svc := newService()
	repos.Connection.On("ListByBusiness", ctx, a, domain.ConnectionAccepted).Return([]domain.Connection{
		{ID: uuid.New(), Business1ID: a, Business2ID: b},
	}, nil).Once()
	repos.Business.On("GetByIDs", ctx, []uuid.UUID{a, b}).Return(map[uuid.UUID]*domain.Business{
		a: {ID: a}, b: {ID: b, BusinessName: "Dairy"},
	}, nil).Once()

	conns, err := svc.ListByBusiness(ctx, a, domain.ConnectionAccepted)

	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "Dairy", conns[0].Business2.BusinessName)

	_, err = svc.ListByBusiness(ctx, a, "bogus")
	assert.ErrorIs(t, err, connection.ErrInvalidStatus)
}
