package provider

import (
	"context"
	"sync"
	"time"
)

// StateStore keeps one typed value per key, such as a chat's battle
// session. A ttl of 0 keeps the value until it is deleted.
type StateStore[C any] interface {
	// Load yields (nil, nil) when nothing is stored under key.
	Load(ctx context.Context, key string) (*C, error)
	Save(ctx context.Context, key string, val *C, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryState is a StateStore held in process memory. It stores and hands
// out copies, so a caller mutating a loaded value changes nothing until
// it saves again.
type MemoryState[C any] struct {
	mu      sync.Mutex
	entries map[string]stateEntry[C]
	clock   func() time.Time
}

type stateEntry[C any] struct {
	val      C
	deadline time.Time
}

func (e stateEntry[C]) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

var _ StateStore[any] = (*MemoryState[any])(nil)

func NewMemoryState[C any]() *MemoryState[C] {
	return &MemoryState[C]{entries: map[string]stateEntry[C]{}, clock: time.Now}
}

// Load evicts an expired entry on the way out.
func (s *MemoryState[C]) Load(_ context.Context, key string) (*C, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	switch {
	case !ok:
		return nil, nil
	case e.expired(s.clock()):
		delete(s.entries, key)
		return nil, nil
	}
	out := e.val
	return &out, nil
}

// Save with a nil val behaves like Delete.
func (s *MemoryState[C]) Save(ctx context.Context, key string, val *C, ttl time.Duration) error {
	if val == nil {
		return s.Delete(ctx, key)
	}
	e := stateEntry[C]{val: *val}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl > 0 {
		e.deadline = s.clock().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryState[C]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len counts entries, expired ones included until they are next loaded.
func (s *MemoryState[C]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
