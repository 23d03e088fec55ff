package entity

import "time"

// AnonymousSender is the sentinel shown in place of the real sender
// identity whenever an anonymous message leaves the process.
const AnonymousSender = "Anonymous"

// Message is a persisted chat entry between two accounts. The stored
// row always keeps the true sender; anonymization happens on the way
// out, never on the way in.
type Message struct {
	ID          int64     `json:"id,omitempty"`
	Sender      string    `json:"sender"`
	Recipient   string    `json:"recipient"`
	Body        string    `json:"message"`
	SenderName  string    `json:"senderName"`
	IsAnonymous bool      `json:"isAnonymous"`
	Timestamp   time.Time `json:"timestamp"`
}

// Anonymized returns the recipient-facing view of the message. For
// anonymous messages both the sender identity and the display name are
// replaced with the sentinel; other messages pass through unchanged.
func (m Message) Anonymized() Message {
	if !m.IsAnonymous {
		return m
	}
	m.Sender = AnonymousSender
	m.SenderName = AnonymousSender
	return m
}
