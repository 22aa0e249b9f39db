// Package registry tracks which connection belongs to which collaboration
// room. State lives only in process memory, scoped to the lifetime of the
// websocket transport; nothing here is persisted.
package registry

import "sync"

// Room is the ephemeral record binding one connection to a room. A roomID
// may have many entries (multiple collaborators); a connection has at most
// one. UserID 0 means an anonymous collaborator.
type Room struct {
	RoomID string
	ConnID string
	UserID uint
}

// Registry is the in-memory room table, keyed by connection id. Handlers
// run on separate goroutines, so mutation is mutex-guarded.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Room
}

// New returns an empty registry. It is constructed once in bootstrap and
// injected into the session coordinator; there is no package-level instance.
func New() *Registry {
	return &Registry{conns: make(map[string]Room)}
}

// Join registers a connection under a room. Idempotent per connection id:
// re-joining replaces the prior entry, so a connection only ever belongs to
// its most recent room.
func (r *Registry) Join(roomID, connID string, userID uint) Room {
	room := Room{RoomID: roomID, ConnID: connID, UserID: userID}
	r.mu.Lock()
	r.conns[connID] = room
	r.mu.Unlock()
	return room
}

// Find returns the room entry for a connection, if any.
func (r *Registry) Find(connID string) (Room, bool) {
	r.mu.RLock()
	room, ok := r.conns[connID]
	r.mu.RUnlock()
	return room, ok
}

// Leave removes the entry for a connection. No-op when absent.
func (r *Registry) Leave(connID string) {
	r.mu.Lock()
	delete(r.conns, connID)
	r.mu.Unlock()
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	n := len(r.conns)
	r.mu.RUnlock()
	return n
}
