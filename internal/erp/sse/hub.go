package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one message written to a stream.
type Event struct {
	EventType  string `json:"event"`
	Data       string `json:"data"`
	Collection string `json:"-"`
}

const clientBuffer = 64

// Client is one open event stream. An empty watch set receives every
// collection.
type Client struct {
	ID     string
	UserID string
	Events chan Event
	watch  map[string]bool
}

func (c *Client) wants(collection string) bool {
	return len(c.watch) == 0 || collection == "" || c.watch[collection]
}

// Hub fans events out to the open streams of this instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.Named("sse"),
	}
}

// Subscribe opens a stream limited to the given collections.
func (h *Hub) Subscribe(userID string, collections []string) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Events: make(chan Event, clientBuffer),
		watch:  make(map[string]bool, len(collections)),
	}
	for _, name := range collections {
		client.watch[name] = true
	}
	h.Register(client)
	return client
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("stream opened",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("open", len(h.clients)))
}

// Unregister closes the client's channel. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(c.Events)
	delete(h.clients, clientID)
	h.logger.Debug("stream closed", zap.String("client_id", clientID), zap.Int("open", len(h.clients)))
}

// Broadcast never blocks. A client whose buffer is full misses the event.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if !c.wants(event.Collection) {
			continue
		}
		select {
		case c.Events <- event:
		default:
			h.logger.Warn("stream buffer full, event dropped", zap.String("client_id", id))
		}
	}
}

// Close ends every stream. Buffered events are still delivered.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.Events)
		delete(h.clients, id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ChangeEvent announces a mutation of one record in a collection.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"` // created, updated, deleted
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
}

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventTypeCollectionChanged is the SSE event name for ChangeEvent payloads.
const EventTypeCollectionChanged = "collection_changed"

// deliver pushes a change to local clients.
func (h *Hub) deliver(ev ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal change event", zap.Error(err))
		return
	}
	h.Broadcast(Event{EventType: EventTypeCollectionChanged, Data: string(data), Collection: ev.Collection})
}
