package repository

import "github.com/expertlink/api/internal/domain/entity"

// MessageRepository defines the interface for the append-only chat log.
// Create assigns the timestamp at persistence time; Conversation
// returns both directions of a pair ordered ascending by timestamp.
type MessageRepository interface {
	Create(m *entity.Message) error
	Conversation(userA, userB string) ([]entity.Message, error)
}
