package message_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locallink/internal/domain"
	"locallink/internal/mocks"
	"locallink/internal/service/message"
)

func newService() (*mocks.Repositories, *mocks.Waker, message.Service) {
	repos := mocks.NewRepositories()
	waker := &mocks.Waker{}
	return repos, waker, message.NewService(repos.Bundle(), repos.TransactionManager(), waker)
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()
	sender := uuid.New()
	receiver := uuid.New()

	t.Run("Stores and notifies receiver", func(t *testing.T) {
		repos, waker, svc := newService()
		repos.Business.On("GetByID", ctx, receiver).Return(&domain.Business{ID: receiver}, nil).Once()
		repos.Business.On("GetByID", ctx, sender).Return(&domain.Business{ID: sender, BusinessName: "Bakery"}, nil).Once()
		repos.Message.On("Create", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.SenderID == sender && m.Content == "hello"
		})).Return(nil).Once()
		repos.Outbox.On("Enqueue", ctx, mock.MatchedBy(func(evs []*domain.OutboxEvent) bool {
			return evs[0].BusinessID == receiver && evs[0].Type == domain.NotifNewMessage
		})).Return(nil).Once()

		msg, err := svc.Send(ctx, sender, domain.SendMessageInput{ReceiverID: receiver, Content: "  hello "})

		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Content)
		assert.Equal(t, 1, waker.Count)
	})

	t.Run("Sender must be caller", func(t *testing.T) {
		_, _, svc := newService()
		other := uuid.New()

		_, err := svc.Send(ctx, sender, domain.SendMessageInput{SenderID: &other, ReceiverID: receiver, Content: "hi"})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Blank content", func(t *testing.T) {
		_, _, svc := newService()

		_, err := svc.Send(ctx, sender, domain.SendMessageInput{ReceiverID: receiver, Content: "   "})

		assert.ErrorIs(t, err, message.ErrEmptyContent)
	})

	t.Run("Unknown receiver", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Business.On("GetByID", ctx, receiver).Return(nil, nil).Once()

		_, err := svc.Send(ctx, sender, domain.SendMessageInput{ReceiverID: receiver, Content: "hi"})

		assert.ErrorIs(t, err, message.ErrReceiverNotFound)
	})
}

func TestMessageService_Conversation(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	t.Run("Caps limit", func(t *testing.T) {
		repos, _, svc := newService()
		repos.Message.On("Conversation", ctx, domain.ConversationQuery{Business1: a, Business2: b, Limit: domain.MaxConversationLimit}).
			Return([]domain.Message{}, nil).Once()

		_, err := svc.Conversation(ctx, b, domain.ConversationQuery{Business1: a, Business2: b, Limit: 10000})

		require.NoError(t, err)
		repos.Message.AssertExpectations(t)
	})

	t.Run("Outsider forbidden", func(t *testing.T) {
		_, _, svc := newService()

		_, err := svc.Conversation(ctx, uuid.New(), domain.ConversationQuery{Business1: a, Business2: b})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
