package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/infrastructure/memory"
)

type pushRecord struct {
	email string
	msg   entity.Message
}

type fakeNotifier struct {
	pushes []pushRecord
}

func (f *fakeNotifier) Push(email string, m entity.Message) {
	f.pushes = append(f.pushes, pushRecord{email: email, msg: m})
}

func (f *fakeNotifier) pushedTo(email string) (entity.Message, bool) {
	for _, p := range f.pushes {
		if p.email == email {
			return p.msg, true
		}
	}
	return entity.Message{}, false
}

func TestSendPersistsAndRelays(t *testing.T) {
	notify := &fakeNotifier{}
	svc := NewChatService(memory.NewMessageRepository(), notify, nil)

	m, err := svc.Send(context.Background(), SendMessageInput{
		Sender:    "ada@example.com",
		Recipient: "bob@example.com",
		Body:      "  hello there  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", m.Body)
	assert.Equal(t, "ada@example.com", m.SenderName)
	assert.NotZero(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())

	require.Len(t, notify.pushes, 2)
	toSender, ok := notify.pushedTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", toSender.Sender)
	toRecipient, ok := notify.pushedTo("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", toRecipient.Sender)
}

func TestSendAnonymous(t *testing.T) {
	notify := &fakeNotifier{}
	messages := memory.NewMessageRepository()
	svc := NewChatService(messages, notify, nil)

	m, err := svc.Send(context.Background(), SendMessageInput{
		Sender:      "ada@example.com",
		Recipient:   "bob@example.com",
		Body:        "guess who",
		IsAnonymous: true,
	})
	require.NoError(t, err)

	// stored row keeps the true sender; only the display name is masked
	assert.Equal(t, "ada@example.com", m.Sender)
	assert.Equal(t, entity.AnonymousSender, m.SenderName)

	// the sender's own channels see the raw copy, the recipient's don't
	toSender, ok := notify.pushedTo("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", toSender.Sender)
	toRecipient, ok := notify.pushedTo("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, entity.AnonymousSender, toRecipient.Sender)
	assert.Equal(t, entity.AnonymousSender, toRecipient.SenderName)
	assert.Equal(t, "guess who", toRecipient.Body)
}

func TestSendEmptyBody(t *testing.T) {
	notify := &fakeNotifier{}
	svc := NewChatService(memory.NewMessageRepository(), notify, nil)

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(context.Background(), SendMessageInput{
			Sender:    "ada@example.com",
			Recipient: "bob@example.com",
			Body:      body,
		})
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, notify.pushes)
}

func TestSendWithoutNotifier(t *testing.T) {
	svc := NewChatService(memory.NewMessageRepository(), nil, nil)
	_, err := svc.Send(context.Background(), SendMessageInput{
		Sender:    "ada@example.com",
		Recipient: "bob@example.com",
		Body:      "persist only",
	})
	require.NoError(t, err)
}

func TestHistoryAnonymizesForEveryone(t *testing.T) {
	messages := memory.NewMessageRepository()
	svc := NewChatService(messages, nil, nil)
	ctx := context.Background()

	_, err := svc.Send(ctx, SendMessageInput{Sender: "ada@example.com", Recipient: "bob@example.com", Body: "open"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendMessageInput{Sender: "ada@example.com", Recipient: "bob@example.com", Body: "masked", IsAnonymous: true})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendMessageInput{Sender: "bob@example.com", Recipient: "ada@example.com", Body: "reply"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, SendMessageInput{Sender: "ada@example.com", Recipient: "carol@example.com", Body: "elsewhere"})
	require.NoError(t, err)

	// same result regardless of argument order, sender included
	for _, pair := range [][2]string{
		{"ada@example.com", "bob@example.com"},
		{"bob@example.com", "ada@example.com"},
	} {
		history, err := svc.History(ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.Len(t, history, 3)

		assert.Equal(t, "open", history[0].Body)
		assert.Equal(t, "ada@example.com", history[0].Sender)

		assert.Equal(t, "masked", history[1].Body)
		assert.Equal(t, entity.AnonymousSender, history[1].Sender)
		assert.Equal(t, entity.AnonymousSender, history[1].SenderName)

		assert.Equal(t, "reply", history[2].Body)
		assert.Equal(t, "bob@example.com", history[2].Sender)
	}
}

func TestHistoryEmptyConversation(t *testing.T) {
	svc := NewChatService(memory.NewMessageRepository(), nil, nil)
	history, err := svc.History(context.Background(), "a@example.com", "b@example.com")
	require.NoError(t, err)
	assert.Empty(t, history)
}
