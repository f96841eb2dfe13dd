package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, role domain.OrderRole) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	db sqlx.ExtContext
}

func NewOrderRepository(db sqlx.ExtContext) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, buyer_id, supplier_id, product_id, quantity, status, verification_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		order.ID, order.BuyerID, order.SupplierID, order.ProductID, order.Quantity, order.Status, order.VerificationCode,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return mapPQError(err, "create order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *orderRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := sqlx.GetContext(ctx, r.db, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return &order, nil
}

func (r *orderRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, role domain.OrderRole) ([]domain.Order, error) {
	column := "supplier_id"
	if role == domain.RoleBuyer {
		column = "buyer_id"
	}

	orders := []domain.Order{}
	query := `SELECT * FROM orders WHERE ` + column + ` = $1 ORDER BY created_at DESC`
	if err := sqlx.SelectContext(ctx, r.db, &orders, query, businessID); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query, order.ID, order.Status).Scan(&order.UpdatedAt)
	return errors.Wrap(err, "update order status")
}
