package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"locallink/internal/domain"
)

type OutboxRepository struct {
	mock.Mock
}

func (m *OutboxRepository) Enqueue(ctx context.Context, events ...*domain.OutboxEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *OutboxRepository) ClaimPending(ctx context.Context, limit, maxAttempts int) ([]domain.OutboxEvent, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboxEvent), args.Error(1)
}

func (m *OutboxRepository) MarkDispatched(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *OutboxRepository) RecordFailure(ctx context.Context, ids []uuid.UUID, reason string) error {
	args := m.Called(ctx, ids, reason)
	return args.Error(0)
}
