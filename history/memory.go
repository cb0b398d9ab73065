package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64][]ChatRecord
	nextID  uint64
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64][]ChatRecord), now: time.Now}
}

func (s *MemoryStore) Append(_ context.Context, rec ChatRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = s.nextID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.records[rec.ChatID] = append(s.records[rec.ChatID], rec)
	return nil
}

func (s *MemoryStore) LastN(_ context.Context, chatID int64, n int) ([]ChatRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.records[chatID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]ChatRecord(nil), all...), nil
}

func (s *MemoryStore) Since(_ context.Context, chatID int64, t time.Time) ([]ChatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ChatRecord
	for _, r := range s.records[chatID] {
		if !r.CreatedAt.Before(t) {
			out = append(out, r)
		}
	}
	return out, nil
}
