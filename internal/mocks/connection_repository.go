package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"locallink/internal/domain"
)

type ConnectionRepository struct {
	mock.Mock
}

func (m *ConnectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *ConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Connection), args.Error(1)
}

func (m *ConnectionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, status domain.ConnectionStatus) ([]domain.Connection, error) {
	args := m.Called(ctx, businessID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Connection), args.Error(1)
}

func (m *ConnectionRepository) UpdateStatus(ctx context.Context, conn *domain.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}
