// Package ws carries the live chat channel: a websocket endpoint, a
// per-connection send pump and the connection registry that maps
// account identities to their open channels. The registry is process
// local and rebuilt from join events; nothing here is persisted.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/domain/entity"
)

// Event names on the wire.
const (
	EventJoin           = "join"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
)

// Event is the envelope for every frame in both directions.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub is the connection registry. An identity may hold several
// simultaneous channels (multiple tabs); a channel belongs to at most
// one identity at a time.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]map[*Conn]struct{}
	identby map[*Conn]string
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		conns:   make(map[string]map[*Conn]struct{}),
		identby: make(map[*Conn]string),
		log:     log,
	}
}

// Join registers a channel under an identity. Re-joining under a new
// identity moves the channel.
func (h *Hub) Join(email string, c *Conn) {
	if email == "" || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.identby[c]; ok {
		h.detach(prev, c)
	}
	set, ok := h.conns[email]
	if !ok {
		set = make(map[*Conn]struct{})
		h.conns[email] = set
	}
	set[c] = struct{}{}
	h.identby[c] = email
}

// Leave removes a channel from whichever identity it was joined under.
func (h *Hub) Leave(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if email, ok := h.identby[c]; ok {
		h.detach(email, c)
		delete(h.identby, c)
	}
}

func (h *Hub) detach(email string, c *Conn) {
	if set, ok := h.conns[email]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.conns, email)
		}
	}
}

// ChannelsFor returns the live channels for an identity; empty when
// none are connected, never an error.
func (h *Hub) ChannelsFor(email string) []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.conns[email]
	out := make([]*Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Push delivers a receiveMessage event to every channel of an
// identity. Fire-and-forget: a slow or dead channel drops the frame
// rather than blocking the caller; history remains the source of truth.
func (h *Hub) Push(email string, m entity.Message) {
	payload, err := marshalEvent(EventReceiveMessage, m)
	if err != nil {
		if h.log != nil {
			h.log.WithError(err).Warn("marshal receiveMessage failed")
		}
		return
	}
	for _, c := range h.ChannelsFor(email) {
		c.trySend(payload)
	}
}

// relay handles a sendMessage event from a connected client: the
// message is already persisted over HTTP, so only fan-out happens
// here. Recipient channels get the anonymized view; the sender's other
// channels get the raw message.
func (h *Hub) relay(origin *Conn, m entity.Message) {
	if anon, err := marshalEvent(EventReceiveMessage, m.Anonymized()); err == nil {
		for _, c := range h.ChannelsFor(m.Recipient) {
			if c != origin {
				c.trySend(anon)
			}
		}
	}
	if m.Sender == m.Recipient || m.Sender == "" {
		return
	}
	if raw, err := marshalEvent(EventReceiveMessage, m); err == nil {
		for _, c := range h.ChannelsFor(m.Sender) {
			if c != origin {
				c.trySend(raw)
			}
		}
	}
}

func marshalEvent(name string, data any) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: name, Data: b})
}
