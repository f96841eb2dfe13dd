package order

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/notification"
	"locallink/internal/service/qrcode"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrSupplierNotFound        = errors.New("supplier not found")
	ErrProductNotOffered       = errors.New("product does not belong to supplier")
	ErrSelfOrder               = errors.New("buyer and supplier must be different businesses")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidTransition       = errors.New("order status cannot be changed")
	ErrInvalidVerificationCode = errors.New("Invalid verification code")
	ErrInvalidRole             = errors.New("type must be buyer or supplier")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.Order, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, role domain.OrderRole) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateOrderStatusInput) (*domain.Order, error)
	QRCode(ctx context.Context, callerID, id uuid.UUID) ([]byte, error)
}

type service struct {
	repos  *repository.Repositories
	tm     repository.TransactionManager
	qr     *qrcode.Service
	waker  notification.Waker
	logger *slog.Logger
}

func NewService(repos *repository.Repositories, tm repository.TransactionManager, qr *qrcode.Service, waker notification.Waker, logger *slog.Logger) Service {
	return &service{
		repos:  repos,
		tm:     tm,
		qr:     qr,
		waker:  waker,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input domain.CreateOrderInput) (*domain.Order, error) {
	buyerID := callerID
	if input.BuyerID != nil && *input.BuyerID != uuid.Nil {
		if *input.BuyerID != callerID {
			return nil, domain.ErrForbidden
		}
		buyerID = *input.BuyerID
	}
	if buyerID == input.SupplierID {
		return nil, ErrSelfOrder
	}

	code := strings.TrimSpace(input.VerificationCode)
	if code == "" {
		generated, err := generateCode()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	order := &domain.Order{
		ID:               uuid.New(),
		BuyerID:          buyerID,
		SupplierID:       input.SupplierID,
		ProductID:        input.ProductID,
		Quantity:         input.Quantity,
		Status:           domain.OrderPending,
		VerificationCode: code,
	}

	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		supplier, err := repos.Business.GetByID(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return ErrSupplierNotFound
		}

		product, err := repos.Product.GetByID(ctx, order.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if product.BusinessID != order.SupplierID {
			return ErrProductNotOffered
		}

		if err := repos.Order.Create(ctx, order); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(order.SupplierID, domain.NotifNewOrder,
			fmt.Sprintf("New order received for %s (quantity %d)", product.Name, order.Quantity),
			map[string]string{"order_id": order.ID.String(), "buyer_id": order.BuyerID.String()})
		return repos.Outbox.Enqueue(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.waker.Wake()
	s.logger.Info("order created", slog.String("order_id", order.ID.String()), slog.String("supplier_id", order.SupplierID.String()))
	return order, nil
}

func (s *service) GetByID(ctx context.Context, callerID, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.IsParticipant(callerID) {
		return nil, domain.ErrForbidden
	}

	orders := []domain.Order{*order}
	if err := s.expand(ctx, orders); err != nil {
		return nil, err
	}
	result := orders[0]
	result.RedactFor(callerID)
	return &result, nil
}

// ListByBusiness returns the orders where businessID holds role. Codes are
// visible only on orders the business placed.
func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID, role domain.OrderRole) ([]domain.Order, error) {
	if role == "" {
		role = domain.RoleSupplier
	}
	if role != domain.RoleBuyer && role != domain.RoleSupplier {
		return nil, ErrInvalidRole
	}

	orders, err := s.repos.Order.ListByBusiness(ctx, businessID, role)
	if err != nil {
		return nil, err
	}
	if err := s.expand(ctx, orders); err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].RedactFor(businessID)
	}
	return orders, nil
}

// UpdateStatus moves an order along its state machine. code may be the bare
// verification code or a scanned QR payload. Input that only resembles a
// payload is compared as a bare code.
func (s *service) UpdateStatus(ctx context.Context, callerID, id uuid.UUID, input domain.UpdateOrderStatusInput) (*domain.Order, error) {
	code := strings.TrimSpace(input.VerificationCode)
	if qrcode.LooksLikePayload(code) {
		if orderID, scanned, err := qrcode.ParseOrderQR(code); err == nil {
			if orderID != id {
				return nil, ErrInvalidVerificationCode
			}
			code = scanned
		}
	}

	var updated *domain.Order
	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		order, err := repos.Order.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.IsParticipant(callerID) {
			return domain.ErrForbidden
		}
		if order.VerificationCode != code {
			return ErrInvalidVerificationCode
		}
		if !input.Status.IsValid() {
			return ErrInvalidStatus
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return ErrInvalidTransition
		}

		order.Status = input.Status
		if err := repos.Order.UpdateStatus(ctx, order); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(order.BuyerID, domain.NotifOrderUpdate,
			fmt.Sprintf("Order #%s status updated to %s", order.ID, order.Status),
			map[string]string{"order_id": order.ID.String(), "status": string(order.Status)})
		if err := repos.Outbox.Enqueue(ctx, event); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.waker.Wake()
	updated.RedactFor(callerID)
	return updated, nil
}

// QRCode renders the hand-over QR for the buyer of the order.
func (s *service) QRCode(ctx context.Context, callerID, id uuid.UUID) ([]byte, error) {
	order, err := s.repos.Order.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.BuyerID != callerID {
		return nil, domain.ErrForbidden
	}
	return s.qr.GenerateOrderQR(order)
}

func (s *service) expand(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	businessIDs := make([]uuid.UUID, 0, len(orders)*2)
	productIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		businessIDs = append(businessIDs, o.BuyerID, o.SupplierID)
		productIDs = append(productIDs, o.ProductID)
	}

	businesses, err := s.repos.Business.GetByIDs(ctx, businessIDs)
	if err != nil {
		return err
	}
	products, err := s.repos.Product.GetByIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	for i := range orders {
		orders[i].Buyer = businesses[orders[i].BuyerID]
		orders[i].Supplier = businesses[orders[i].SupplierID]
		orders[i].Product = products[orders[i].ProductID]
	}
	return nil
}

func generateCode() (string, error) {
	limit := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errors.Wrap(err, "generate verification code")
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
