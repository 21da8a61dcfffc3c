package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Almyria/VillagerGPT/internal/conversations"
	"github.com/Almyria/VillagerGPT/internal/vglog"
)

const writeTimeout = 5 * time.Second

// eventPayload is the JSON shape pushed to connected viewers.
type eventPayload struct {
	Type     string `json:"type"`
	Villager string `json:"villager"`
	Player   string `json:"player"`
	Role     string `json:"role,omitempty"`
	Content  string `json:"content,omitempty"`
}

// client is one connected viewer. The mutex serializes writes; events
// arrive from every conversation's goroutine but the websocket allows
// only one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload eventPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(payload)
}

// Broadcaster fans conversation events out to websocket clients as
// JSON, for a live log viewer. It implements conversations.Notifier.
type Broadcaster struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

var _ conversations.Notifier = (*Broadcaster)(nil)

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: map[*client]struct{}{},
	}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until it drops.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		vglog.Warn("Web", "error", "websocket upgrade failed", "err", err.Error())
		return
	}

	c := &client{conn: conn}

	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	vglog.Debug("Web", "info", "event viewer connected", "remote", conn.RemoteAddr().String())

	// Drain (and discard) client frames so pings are answered and
	// closure is noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.drop(c)
				return
			}
		}
	}()
}

// Notify implements conversations.Notifier.
func (b *Broadcaster) Notify(evt conversations.Event) {

	var payload eventPayload

	switch e := evt.(type) {
	case conversations.SessionStarted:
		payload = eventPayload{
			Type:     `session_started`,
			Villager: e.Conversation.Character().Name,
			Player:   e.Conversation.Participant().Name,
		}
	case conversations.SessionEnded:
		payload = eventPayload{
			Type:     `session_ended`,
			Villager: e.Conversation.Character().Name,
			Player:   e.Conversation.Participant().Name,
		}
	case conversations.MessageAppended:
		payload = eventPayload{
			Type:     `message`,
			Villager: e.Conversation.Character().Name,
			Player:   e.Conversation.Participant().Name,
			Role:     string(e.Message.Role),
			Content:  e.Message.Content,
		}
	default:
		return
	}

	for _, c := range b.snapshot() {
		if err := c.write(payload); err != nil {
			b.drop(c)
		}
	}
}

func (b *Broadcaster) snapshot() []*client {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	return clients
}

func (b *Broadcaster) drop(c *client) {
	b.mu.Lock()
	_, known := b.clients[c]
	delete(b.clients, c)
	b.mu.Unlock()

	if known {
		c.conn.Close()
		vglog.Debug("Web", "info", "event viewer disconnected", "remote", c.conn.RemoteAddr().String())
	}
}

// Close drops every connected client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.clients = map[*client]struct{}{}
	b.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
