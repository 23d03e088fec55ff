package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create appends a message. The timestamp is assigned by the database
// at insert time so persistence order and timestamp order agree.
func (r *MessageRepository) Create(m *entity.Message) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender, recipient, body, sender_name, is_anonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.Sender, m.Recipient, m.Body, m.SenderName, m.IsAnonymous)

	return row.Scan(&m.ID, &m.Timestamp)
}

// Conversation returns both directions of the pair ascending by
// timestamp, ties broken by insert order.
func (r *MessageRepository) Conversation(userA, userB string) ([]entity.Message, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, sender, recipient, body, sender_name, is_anonymous, created_at
		FROM messages
		WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		ORDER BY created_at, id
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Body,
			&m.SenderName, &m.IsAnonymous, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
