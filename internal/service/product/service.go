package product

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/storage"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrBusinessNotFound  = errors.New("business not found")
	ErrInvalidPriceRange = errors.New("min_price cannot be greater than max_price")
)

type Service interface {
	Create(ctx context.Context, businessID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Product, error)
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error)
	SetMainImage(ctx context.Context, callerID, id uuid.UUID, file storage.Upload) (*domain.Product, error)
	AddGalleryImages(ctx context.Context, callerID, id uuid.UUID, files []storage.Upload) (domain.Assets, error)
	DeleteGalleryImage(ctx context.Context, callerID, id uuid.UUID, publicID string) error
}

type service struct {
	productRepo  repository.ProductRepository
	businessRepo repository.BusinessRepository
	store        storage.Store
}

func NewService(productRepo repository.ProductRepository, businessRepo repository.BusinessRepository, store storage.Store) Service {
	return &service{
		productRepo:  productRepo,
		businessRepo: businessRepo,
		store:        store,
	}
}

func (s *service) Create(ctx context.Context, businessID uuid.UUID, input domain.CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
		Gallery:     domain.Assets{},
	}
	if input.Price != nil {
		product.Price = *input.Price
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetByID returns the product with its owning business attached.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetByID(ctx, product.BusinessID)
	if err != nil {
		return nil, err
	}
	product.Business = business
	return product, nil
}

func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Product, error) {
	return s.productRepo.ListByBusiness(ctx, businessID)
}

func (s *service) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, ErrInvalidPriceRange
	}
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Location = strings.TrimSpace(filter.Location)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.productRepo.Search(ctx, filter)
}

func (s *service) Update(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Location != nil {
		product.Location = *input.Location
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) SetMainImage(ctx context.Context, callerID, id uuid.UUID, file storage.Upload) (*domain.Product, error) {
	product, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	image, err := storage.ReplaceSingle(ctx, s.store, domain.FolderProductImages, product.MainImage, file, func(a *domain.Asset) error {
		return s.productRepo.UpdateMainImage(ctx, id, a)
	})
	if err != nil {
		return nil, err
	}

	product.MainImage = image
	return product, nil
}

func (s *service) AddGalleryImages(ctx context.Context, callerID, id uuid.UUID, files []storage.Upload) (domain.Assets, error) {
	_, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	return storage.AppendBatch(ctx, s.store, domain.FolderProductImages, files, domain.MaxProductGalleryPerUpload, func(added domain.Assets) (domain.Assets, error) {
		stored, err := s.productRepo.AppendGallery(ctx, id, added)
		if err == nil && stored == nil {
			return nil, ErrProductNotFound
		}
		return stored, err
	})
}

func (s *service) DeleteGalleryImage(ctx context.Context, callerID, id uuid.UUID, publicID string) error {
	product, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return err
	}

	_, err = storage.RemoveFromList(ctx, s.store, product.Gallery, publicID, func(publicID string) (domain.Assets, error) {
		return s.productRepo.RemoveGalleryImage(ctx, id, publicID)
	})
	return err
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *service) loadOwned(ctx context.Context, callerID, id uuid.UUID) (*domain.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.BusinessID != callerID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}
