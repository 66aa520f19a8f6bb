package gameserver

import "sync"

// ClientManager tracks all connected clients by connection id.
// Thread-safe for concurrent access.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewClientManager creates an empty client manager.
func NewClientManager() *ClientManager {
	return &ClientManager{clients: make(map[string]*Client, 64)}
}

// Register adds a client. Called when a websocket is accepted.
func (cm *ClientManager) Register(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[c.ID()] = c
}

// Unregister removes a client. Called on disconnect.
func (cm *ClientManager) Unregister(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.clients, id)
}

// Get returns the client for a connection id, or nil.
func (cm *ClientManager) Get(id string) *Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.clients[id]
}

// Count returns the number of connected clients.
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// CloseAll closes every connection. Used during shutdown.
func (cm *ClientManager) CloseAll() {
	cm.mu.Lock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, c := range cm.clients {
		clients = append(clients, c)
	}
	cm.clients = make(map[string]*Client)
	cm.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
