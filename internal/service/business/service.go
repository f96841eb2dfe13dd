package business

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/cache"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/storage"
)

var ErrBusinessNotFound = errors.New("business not found")

type Service interface {
	List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateBusinessInput) (*domain.Business, error)
	SetLogo(ctx context.Context, id uuid.UUID, file storage.Upload) (*domain.Business, error)
	AddImages(ctx context.Context, id uuid.UUID, files []storage.Upload) (*domain.Business, error)
	DeleteImage(ctx context.Context, id uuid.UUID, publicID string) error
}

type service struct {
	businessRepo repository.BusinessRepository
	store        storage.Store
	cache        *cache.Cache
	logger       *slog.Logger
}

func NewService(businessRepo repository.BusinessRepository, store storage.Store, c *cache.Cache, logger *slog.Logger) Service {
	return &service{
		businessRepo: businessRepo,
		store:        store,
		cache:        c,
		logger:       logger,
	}
}

func (s *service) List(ctx context.Context, filter domain.BusinessFilter) ([]domain.Business, error) {
	filter.BusinessType = strings.TrimSpace(filter.BusinessType)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.businessRepo.List(ctx, filter)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var cached domain.Business
	if s.cache.GetJSON(ctx, cache.BusinessKey(id), &cached) {
		return &cached, nil
	}

	business, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.BusinessKey(id), business)
	return business, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateBusinessInput) (*domain.Business, error) {
	business, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BusinessName != nil {
		business.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	if input.BusinessType != nil {
		business.BusinessType = *input.BusinessType
	}
	if input.Description != nil {
		business.Description = *input.Description
	}
	if input.Location != nil {
		business.Location = *input.Location
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.BusinessKey(id))
	return business, nil
}

func (s *service) SetLogo(ctx context.Context, id uuid.UUID, file storage.Upload) (*domain.Business, error) {
	business, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	logo, err := storage.ReplaceSingle(ctx, s.store, domain.FolderBusinessProfiles, business.Logo, file, func(a *domain.Asset) error {
		return s.businessRepo.UpdateLogo(ctx, id, a)
	})
	if err != nil {
		return nil, err
	}

	business.Logo = logo
	s.cache.Delete(ctx, cache.BusinessKey(id))
	s.logger.Info("business logo updated", slog.String("business_id", id.String()), slog.String("public_id", logo.PublicID))
	return business, nil
}

func (s *service) AddImages(ctx context.Context, id uuid.UUID, files []storage.Upload) (*domain.Business, error) {
	business, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := storage.AppendBatch(ctx, s.store, domain.FolderBusinessProfiles, files, domain.MaxBusinessImagesPerUpload, func(added domain.Assets) (domain.Assets, error) {
		stored, err := s.businessRepo.AppendImages(ctx, id, added)
		if err == nil && stored == nil {
			return nil, ErrBusinessNotFound
		}
		return stored, err
	})
	if err != nil {
		return nil, err
	}

	business.Images = images
	s.cache.Delete(ctx, cache.BusinessKey(id))
	return business, nil
}

func (s *service) DeleteImage(ctx context.Context, id uuid.UUID, publicID string) error {
	business, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	_, err = storage.RemoveFromList(ctx, s.store, business.Images, publicID, func(publicID string) (domain.Assets, error) {
		return s.businessRepo.RemoveImage(ctx, id, publicID)
	})
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.BusinessKey(id))
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}
