package draft

import (
	"sync"

	"github.com/google/uuid"
	"github.com/qfast/qfast/internal/kv"
)

// Flow bundles one user's draft store with its persistence session.
type Flow struct {
	Store   *Store
	Session *Session
}

// Manager owns the live draft flows, one per user. A flow is constructed
// when the user enters the creation flow and torn down on commit or
// explicit exit; it is never a process-wide singleton shared across users.
type Manager struct {
	deps    Deps
	durable kv.Store

	mu    sync.Mutex
	flows map[uuid.UUID]*Flow
}

// NewManager creates a flow manager. durable is the shared persistent
// tier; each flow gets its own namespaced view of it.
func NewManager(deps Deps, durable kv.Store) *Manager {
	return &Manager{
		deps:    deps,
		durable: durable,
		flows:   make(map[uuid.UUID]*Flow),
	}
}

// Flow returns the user's live flow, constructing one on first use.
func (m *Manager) Flow(userID uuid.UUID) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flow, ok := m.flows[userID]; ok {
		return flow
	}

	store := NewStore(m.deps)
	session := NewSession(
		store,
		kv.NewMemoryStore(),
		kv.NewPrefixed(m.durable, "u_"+userID.String()+"_"),
		m.deps.Logger,
	)
	flow := &Flow{Store: store, Session: session}
	m.flows[userID] = flow
	return flow
}

// End tears down the user's flow, purging its persistence keys. Called
// after a successful commit or an explicit exit.
func (m *Manager) End(userID uuid.UUID) {
	m.mu.Lock()
	flow, ok := m.flows[userID]
	delete(m.flows, userID)
	m.mu.Unlock()

	if ok {
		flow.Session.Purge()
	}
}
