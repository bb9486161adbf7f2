package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

type Client struct {
	ID       string
	TenantID string
	Send     chan []byte
}

// Hub is the in-memory registry of live realtime connections. It is
// constructed once per process and injected where broadcasts are triggered.
// Locking is internal; callers never synchronize around it.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

type Event struct {
	Type      string          `json:"type"`
	Tenant    string          `json:"tenant"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

type SubscribeMessage struct {
	Type   string `json:"type"`
	Tenant string `json:"tenant"`
}

func New() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client.ID)
	close(client.Send)
}

// Subscribe swaps the client's tenant subscription; an empty tenant clears it.
// A client is never registered under two tenants at once.
func (h *Hub) Subscribe(client *Client, tenantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.TenantID = tenantID
}

// Broadcast pushes payload to every connection subscribed to the tenant.
// Sends are non-blocking: a connection with a full buffer is skipped so one
// stalled client never delays or aborts delivery to the rest.
func (h *Hub) Broadcast(tenantID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.TenantID == "" || client.TenantID != tenantID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("drop message for client %s", client.ID)
		}
	}
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Type != "subscribe" && msg.Type != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
