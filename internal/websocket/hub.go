package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
)

// Connection roles
const (
	RoleRider    = "rider"
	RoleObserver = "observer"
)

var (
	// ErrClientNotFound is returned by SendTo when no client holds the id
	ErrClientNotFound = errors.New("websocket client not found")

	// ErrSendBufferFull is returned when a client could not keep up and was dropped
	ErrSendBufferFull = errors.New("websocket client send buffer full")
)

// Hub maintains active WebSocket connections keyed by client id.
// Riders use their rider id; observers get a generated id.
type Hub struct {
	// Registered clients (clientID -> Client)
	clients map[string]*Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client, replacing any earlier connection with the same id.
// The replaced connection's send channel is closed so its pumps wind down.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if old, ok := h.clients[client.ID]; ok && old != client {
		close(old.send)
		log.Printf("⚠️ [WEBSOCKET] Replacing existing connection for %s", client.ID)
	}
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✅ [WEBSOCKET] Client CONNECTED")
	log.Printf("   Client ID: %s", client.ID)
	log.Printf("   Role: %s", client.Role)
	log.Printf("   Total connected clients: %d", total)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// Unregister removes the client only if it is still the registered
// connection for its id. A stale connection closing after a reconnect
// leaves the new one alone.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.ID]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
	remaining := len(h.clients)
	h.mu.Unlock()

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED")
	log.Printf("   Client ID: %s", client.ID)
	log.Printf("   Role: %s", client.Role)
	log.Printf("   Remaining connected clients: %d", remaining)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// SendTo delivers a JSON message to one client. A client whose buffer is
// full is disconnected.
func (h *Hub) SendTo(clientID string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.send <- payload:
		return nil
	default:
		h.drop(client)
		log.Printf("⚠️ Client buffer full, disconnecting: %s", clientID)
		return ErrSendBufferFull
	}
}

// BroadcastToRole sends a message to every client with the given role.
// Clients that cannot accept it are pruned in the same critical section.
func (h *Hub) BroadcastToRole(role string, data interface{}) int {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for id, client := range h.clients {
		if client.Role != role {
			continue
		}
		select {
		case client.send <- payload:
			sent++
		default:
			h.drop(client)
			log.Printf("⚠️ Client buffer full, pruning %s: %s", role, id)
		}
	}
	return sent
}

// BroadcastToObservers fans a message out to every observer
func (h *Hub) BroadcastToObservers(data interface{}) {
	h.BroadcastToRole(RoleObserver, data)
}

// drop removes a client; caller holds h.mu
func (h *Hub) drop(client *Client) {
	delete(h.clients, client.ID)
	close(client.send)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsConnected checks if a client id is currently connected
func (h *Hub) IsConnected(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[clientID]
	return ok
}

// ConnectedIDs returns the ids of all connected clients with the given role
func (h *Hub) ConnectedIDs(role string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id, client := range h.clients {
		if client.Role == role {
			ids = append(ids, id)
		}
	}
	return ids
}
