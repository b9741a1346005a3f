package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// MemoryGateway keeps encoded states in memory. It is used by tests and by
// the server when no database is configured.
type MemoryGateway struct {
	mu     sync.RWMutex
	states map[uuid.UUID][]byte
}

// NewMemoryGateway creates an empty in-memory store.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{states: make(map[uuid.UUID][]byte)}
}

// Load returns a copy of the stored state, or nil if none.
func (m *MemoryGateway) Load(_ context.Context, userID uuid.UUID) (*types.GamificationState, error) {
	m.mu.RLock()
	data, ok := m.states[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return Decode(data)
}

// Save stores a copy of state.
func (m *MemoryGateway) Save(_ context.Context, userID uuid.UUID, state types.GamificationState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[userID] = data
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryGateway) Close() error {
	return nil
}
