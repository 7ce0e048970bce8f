package engine

import (
	"sync"

	"github.com/peria-go/peria/internal/surface"
)

// ClientID identifies a connected Wayland client.
type ClientID uint64

// Mediator maps surface identifiers to the client that owns them. It is
// the single piece of state the exhibitor thread shares with the
// surrounding system's other threads (spec.md §5), so it is guarded by a
// mutex held only for the duration of a lookup or insertion — never
// across an I/O or render operation.
type Mediator struct {
	mu      sync.Mutex
	owners  map[surface.ID]ClientID
}

// NewMediator constructs an empty Mediator.
func NewMediator() *Mediator {
	return &Mediator{owners: make(map[surface.ID]ClientID)}
}

// Register records that client owns sid.
func (m *Mediator) Register(sid surface.ID, client ClientID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[sid] = client
}

// Unregister forgets sid's ownership, e.g. once its surface is destroyed.
func (m *Mediator) Unregister(sid surface.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.owners, sid)
}

// Owner returns sid's owning client, if known.
func (m *Mediator) Owner(sid surface.ID) (ClientID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.owners[sid]
	return client, ok
}
