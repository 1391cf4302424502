package core

import "sync"

// Registry tracks which user identities currently have a live connection.
// It holds at most one entry per user id; registering a new connection for
// the same identity supersedes the previous one. The registry never closes
// a superseded handle, the transport owning that socket tears it down on
// its own disconnect.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register installs the mapping for the client's user id and returns the
// superseded handle, if any.
func (r *Registry) Register(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.clients[c.UserID]
	r.clients[c.UserID] = c
	return prev
}

// Unregister removes the entry only if it still points at this exact
// client, so a late disconnect of a superseded handle never evicts the
// fresh connection.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.clients[c.UserID]; ok && cur == c {
		delete(r.clients, c.UserID)
	}
}

// Lookup returns the live handle for a user id, if any. Never blocks.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[userID]
	return c, ok
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
