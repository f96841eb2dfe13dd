package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"locallink/internal/domain"
	"locallink/internal/pkg/errors"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Conversation(ctx context.Context, q domain.ConversationQuery) ([]domain.Message, error)
}

type messageRepository struct {
	db sqlx.ExtContext
}

func NewMessageRepository(db sqlx.ExtContext) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		return mapPQError(err, "create message")
	}
	return nil
}

// Conversation returns messages between the pair oldest first. With a limit
// only the most recent messages are kept.
func (r *messageRepository) Conversation(ctx context.Context, q domain.ConversationQuery) ([]domain.Message, error) {
	messages := []domain.Message{}

	if q.Limit <= 0 {
		query := `
			SELECT * FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at ASC, id ASC`
		if err := sqlx.SelectContext(ctx, r.db, &messages, query, q.Business1, q.Business2); err != nil {
			return nil, errors.Wrap(err, "get conversation")
		}
		return messages, nil
	}

	query := `
		SELECT * FROM (
			SELECT * FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC, id ASC`
	if err := sqlx.SelectContext(ctx, r.db, &messages, query, q.Business1, q.Business2, q.Limit); err != nil {
		return nil, errors.Wrap(err, "get conversation")
	}
	return messages, nil
}
