package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"locallink/internal/domain"
	"locallink/internal/service/storage"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, businessName string) error {
	args := m.Called(ctx, toEmail, businessName)
	return args.Error(0)
}

func (m *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, businessName, resetToken string) error {
	args := m.Called(ctx, toEmail, businessName, resetToken)
	return args.Error(0)
}

type Store struct {
	mock.Mock
}

func (m *Store) Upload(ctx context.Context, folder domain.AssetFolder, file storage.Upload) (*domain.Asset, error) {
	args := m.Called(ctx, folder, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *Store) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

// Waker counts wake-ups.
type Waker struct {
	Count int
}

func (w *Waker) Wake() {
	w.Count++
}
