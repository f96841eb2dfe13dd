package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
	"locallink/internal/repository"
	"locallink/internal/service/notification"
)

var (
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrEmptyContent     = errors.New("content is required")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
)

type Service interface {
	Send(ctx context.Context, callerID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error)
	Conversation(ctx context.Context, callerID uuid.UUID, q domain.ConversationQuery) ([]domain.Message, error)
}

type service struct {
	repos *repository.Repositories
	tm    repository.TransactionManager
	waker notification.Waker
}

func NewService(repos *repository.Repositories, tm repository.TransactionManager, waker notification.Waker) Service {
	return &service{repos: repos, tm: tm, waker: waker}
}

func (s *service) Send(ctx context.Context, callerID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error) {
	senderID := callerID
	if input.SenderID != nil && *input.SenderID != uuid.Nil {
		if *input.SenderID != callerID {
			return nil, domain.ErrForbidden
		}
		senderID = *input.SenderID
	}
	if senderID == input.ReceiverID {
		return nil, ErrSelfMessage
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	msg := &domain.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Content:    content,
	}

	err := s.tm.Execute(ctx, func(repos *repository.Repositories) error {
		receiver, err := repos.Business.GetByID(ctx, msg.ReceiverID)
		if err != nil {
			return err
		}
		if receiver == nil {
			return ErrReceiverNotFound
		}

		sender, err := repos.Business.GetByID(ctx, msg.SenderID)
		if err != nil {
			return err
		}
		name := msg.SenderID.String()
		if sender != nil {
			name = sender.BusinessName
		}

		if err := repos.Message.Create(ctx, msg); err != nil {
			return err
		}

		event := domain.NewOutboxEvent(msg.ReceiverID, domain.NotifNewMessage,
			fmt.Sprintf("New message from %s", name),
			map[string]string{"message_id": msg.ID.String(), "sender_id": msg.SenderID.String()})
		return repos.Outbox.Enqueue(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.waker.Wake()
	return msg, nil
}

// Conversation returns the messages between the pair, oldest first. When a
// limit is set only the most recent messages are kept.
func (s *service) Conversation(ctx context.Context, callerID uuid.UUID, q domain.ConversationQuery) ([]domain.Message, error) {
	if callerID != q.Business1 && callerID != q.Business2 {
		return nil, domain.ErrForbidden
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	if q.Limit > domain.MaxConversationLimit {
		q.Limit = domain.MaxConversationLimit
	}
	return s.repos.Message.Conversation(ctx, q)
}
