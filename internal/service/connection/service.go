package connection

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/notification"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrBusinessNotFound   = errors.New("business not found")
	ErrSelfConnection     = errors.New("cannot connect a business to itself")
	ErrInvalidStatus      = errors.New("invalid connection status")
)

type Service interface {
	Create(ctx context.Context, callerID uuid.UUID, input domain.CreateConnectionInput) (*domain.Connection, error)
	UpdateStatus(ctx context.Context, callerID, id uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, status domain.ConnectionStatus) ([]domain.Connection, error)
}

type service struct {
	repos *repository.Repositories
	tm    repository.TransactionManager
	waker notification.Waker
}

func NewService(repos *repository.Repositories, tm repository.TransactionManager, waker notification.Waker) Service {
	return &service{repos: repos, tm: tm, waker: waker}
}

func (s *service) Create(ctx context.Context, callerID uuid.UUID, input domain.CreateConnectionInput) (*domain.Connection, error) {
	requesterID := callerID
	if input.Business1ID != nil && *input.Business1ID != uuid.Nil {
		if *input.Business1ID != callerID {
			return nil, domain.ErrForbidden
		}
		requesterID = *input.Business1ID
	}
	if requesterID == input.Business2ID {
		return nil, ErrSelfConnection
	}

	conn := &domain.Connection{
		ID:          uuid.New(),
		Business1ID: requesterID,
		Business2ID: input.Business2ID,
		Status:      domain.ConnectionPending,
	}

	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		target, err := repos.Business.GetByID(ctx, conn.Business2ID)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrBusinessNotFound
		}

		requester, err := repos.Business.GetByID(ctx, conn.Business1ID)
		if err != nil {
			return err
		}
		name := conn.Business1ID.String()
		if requester != nil {
			name = requester.BusinessName
		}

		if err := repos.Connection.Create(ctx, conn); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(conn.Business2ID, domain.NotifConnectionRequest,
			fmt.Sprintf("Connection request from %s", name),
			map[string]string{"connection_id": conn.ID.String(), "business_id": conn.Business1ID.String()})
		return repos.Outbox.Enqueue(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.waker.Wake()
	return conn, nil
}

// UpdateStatus lets either side change the status. The requester is the one notified.
func (s *service) UpdateStatus(ctx context.Context, callerID, id uuid.UUID, status domain.ConnectionStatus) (*domain.Connection, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var updated *domain.Connection
	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		conn, err := repos.Connection.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if conn == nil {
			return ErrConnectionNotFound
		}
		if !conn.IsParticipant(callerID) {
			return domain.ErrForbidden
		}

		conn.Status = status
		if err := repos.Connection.UpdateStatus(ctx, conn); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(conn.Business1ID, domain.NotifConnectionUpdate,
			fmt.Sprintf("Connection with %s is now %s", conn.Business2ID, status),
			map[string]string{"connection_id": conn.ID.String(), "status": string(status)})
		if err := repos.Outbox.Enqueue(ctx, event); err != nil {
			return err
		}

		updated = conn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.waker.Wake()
	return updated, nil
}

func (s *service) ListByBusiness(ctx context.Context, businessID uuid.UUID, status domain.ConnectionStatus) ([]domain.Connection, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	conns, err := s.repos.Connection.ListByBusiness(ctx, businessID, status)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return conns, nil
	}

	ids := make([]uuid.UUID, 0, len(conns)*2)
	for _, c := range conns {
		ids = append(ids, c.Business1ID, c.Business2ID)
	}
	businesses, err := s.repos.Business.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range conns {
		conns[i].Business1 = businesses[conns[i].Business1ID]
		conns[i].Business2 = businesses[conns[i].Business2ID]
	}
	return conns, nil
}
