package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/domain/entity"
	repo "github.com/expertlink/api/internal/domain/repository"
)

var (
	ErrEmptyMessage = errors.New("message body is empty")
)

// Notifier pushes a message to every live channel registered under an
// identity. Delivery is best-effort; persistence is the source of
// truth and offline peers catch up from history.
type Notifier interface {
	Push(email string, m entity.Message)
}

// ChatService persists chat messages and relays them to live
// connections. The Notifier is optional; without one, send degrades to
// persistence only.
type ChatService struct {
	Messages repo.MessageRepository
	Notify   Notifier
	Logger   *logrus.Logger
}

func NewChatService(messages repo.MessageRepository, notify Notifier, logger *logrus.Logger) *ChatService {
	return &ChatService{Messages: messages, Notify: notify, Logger: logger}
}

type SendMessageInput struct {
	Sender      string
	Recipient   string
	Body        string
	IsAnonymous bool
}

// Send validates, persists and relays one message. The stored record
// keeps the true sender even for anonymous messages; the relayed copy
// to the recipient is anonymized, while the sender's own channels see
// the raw message (other open tabs of the same user).
func (s *ChatService) Send(ctx context.Context, in SendMessageInput) (*entity.Message, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	m := &entity.Message{
		Sender:      in.Sender,
		Recipient:   in.Recipient,
		Body:        body,
		IsAnonymous: in.IsAnonymous,
		SenderName:  in.Sender,
	}
	if in.IsAnonymous {
		m.SenderName = entity.AnonymousSender
	}
	if err := s.Messages.Create(m); err != nil {
		return nil, err
	}

	if s.Notify != nil {
		s.Notify.Push(m.Sender, *m)
		s.Notify.Push(m.Recipient, m.Anonymized())
	}
	return m, nil
}

// History returns the conversation between two users, ascending by
// timestamp. Anonymous messages are anonymized for every caller; the
// transform cannot be bypassed from the outside.
func (s *ChatService) History(ctx context.Context, userA, userB string) ([]entity.Message, error) {
	msgs, err := s.Messages.Conversation(userA, userB)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Anonymized())
	}
	return out, nil
}
