package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotNotFound is returned by Storage.Read when the session has no slot.
var ErrSlotNotFound = errors.New("cart slot not found")

// Storage persists one serialized cart document per session slot. Writes are
// read-modify-write with no concurrency token: the last writer wins, which is
// the accepted limitation for a single-user session.
type Storage interface {
	Read(ctx context.Context, sessionID string) ([]byte, error)
	Write(ctx context.Context, sessionID string, payload []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStorage keeps slots in process memory. Used in tests and as the
// fallback when no durable backend is configured.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: map[string][]byte{}}
}

func (m *MemoryStorage) Read(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.slots[sessionID]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (m *MemoryStorage) Write(_ context.Context, sessionID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.slots[sessionID] = stored
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, sessionID)
	return nil
}
