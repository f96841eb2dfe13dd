package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Product, error)
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateMainImage(ctx context.Context, id uuid.UUID, image *domain.Asset) error
	AppendGallery(ctx context.Context, id uuid.UUID, images domain.Assets) (domain.Assets, error)
	RemoveGalleryImage(ctx context.Context, id uuid.UUID, publicID string) (domain.Assets, error)
}

type productRepository struct {
	db sqlx.ExtContext
}

func NewProductRepository(db sqlx.ExtContext) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.Gallery == nil {
		product.Gallery = domain.Assets{}
	}

	query := `
		INSERT INTO products (id, business_id, name, description, category, price, location, main_image, gallery)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID, product.BusinessID, product.Name, product.Description, product.Category,
		product.Price, product.Location, product.MainImage, product.Gallery,
	).Scan(&product.CreatedAt)
	if err != nil {
		return mapPQError(err, "create product")
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := sqlx.GetContext(ctx, r.db, &product, `SELECT * FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	result := make(map[uuid.UUID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var products []domain.Product
	query := `SELECT * FROM products WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.db, &products, query, pq.Array(keys)); err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}

	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

func (r *productRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `SELECT * FROM products WHERE business_id = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &products, query, businessID); err != nil {
		return nil, errors.Wrap(err, "list products by business")
	}
	return products, nil
}

func (r *productRepository) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, "category = $"+itoa(len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, "price >= $"+itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, "price <= $"+itoa(len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		conditions = append(conditions, "location ILIKE $"+itoa(len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := itoa(len(args))
		conditions = append(conditions, "(name ILIKE $"+n+" OR description ILIKE $"+n+")")
	}

	query := `SELECT * FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	products := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &products, query, args...); err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, location = $6
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Description, product.Category, product.Price, product.Location)
	return errors.Wrap(err, "update product")
}

func (r *productRepository) UpdateMainImage(ctx context.Context, id uuid.UUID, image *domain.Asset) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET main_image = $2 WHERE id = $1`, id, image)
	return errors.Wrap(err, "update product main image")
}

func (r *productRepository) AppendGallery(ctx context.Context, id uuid.UUID, images domain.Assets) (domain.Assets, error) {
	query := `UPDATE products SET gallery = gallery || $2::jsonb WHERE id = $1 RETURNING gallery`
	return r.gallery(ctx, "append product gallery", query, id, images)
}

// RemoveGalleryImage yields (nil, nil) when the product does not hold publicID.
func (r *productRepository) RemoveGalleryImage(ctx context.Context, id uuid.UUID, publicID string) (domain.Assets, error) {
	query := `
		UPDATE products SET gallery = ` + withoutAsset("gallery") + `
		WHERE id = $1 AND ` + holdsAsset("gallery") + `
		RETURNING gallery`
	return r.gallery(ctx, "remove product gallery image", query, id, publicID)
}

func (r *productRepository) gallery(ctx context.Context, op, query string, args ...interface{}) (domain.Assets, error) {
	var gallery domain.Assets
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&gallery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return gallery, nil
}
