package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
)

type MessageRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages []entity.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.Timestamp = time.Now().UTC()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MessageRepository) Conversation(userA, userB string) ([]entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Message
	for _, m := range r.messages {
		if (m.Sender == userA && m.Recipient == userB) || (m.Sender == userB && m.Recipient == userA) {
			out = append(out, m)
		}
	}
	// append order equals id order; timestamps may collide at clock resolution
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
