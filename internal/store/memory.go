// internal/store/memory.go
package store

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MemoryStore is an in-process DocumentStore with subscription fan-out.
// Used for tests and single-node runs.
type MemoryStore struct {
	mu          sync.Mutex
	docs        map[string]RoomDoc
	subscribers map[string][]chan Snapshot
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:        make(map[string]RoomDoc),
		subscribers: make(map[string][]chan Snapshot),
	}
}

// Create stores the document and notifies subscribers.
func (m *MemoryStore) Create(ctx context.Context, id string, doc RoomDoc) error {
	return m.Set(ctx, id, doc)
}

// Exists reports whether a document with the id is stored.
func (m *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[id]
	return ok, nil
}

// Get returns the stored document, or RoomNotFoundError.
func (m *MemoryStore) Get(ctx context.Context, id string) (RoomDoc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return RoomDoc{}, notFoundErr(id)
	}
	return doc, nil
}

// Set replaces the document and fans the new snapshot out to subscribers.
// The nonblocking sends happen under the mutex: unsubscription closes the
// channel under the same lock, so a send can never hit a closed channel.
func (m *MemoryStore) Set(ctx context.Context, id string, doc RoomDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[id] = doc

	snap := Snapshot{Doc: &doc, Exists: true}
	for _, ch := range m.subscribers[id] {
		select {
		case ch <- snap:
		default:
			log.Warnf("memory store: dropped snapshot for room %s, subscriber channel full", id)
		}
	}
	return nil
}

// Subscribe registers a subscriber channel. The current state (document or
// not-found) is emitted immediately; the channel is removed and closed when
// ctx is cancelled.
func (m *MemoryStore) Subscribe(ctx context.Context, id string) (<-chan Snapshot, error) {
	ch := make(chan Snapshot, 16)

	m.mu.Lock()
	if doc, ok := m.docs[id]; ok {
		ch <- Snapshot{Doc: &doc, Exists: true}
	} else {
		ch <- Snapshot{Exists: false}
	}
	m.subscribers[id] = append(m.subscribers[id], ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		subs := m.subscribers[id]
		for i, sub := range subs {
			if sub == ch {
				m.subscribers[id] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
		m.mu.Unlock()
	}()

	return ch, nil
}
