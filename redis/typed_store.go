package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbukum/quorumbot/provider"
)

// TypedStore is the Redis provider.StateStore. Each value is one JSON
// string key, "<prefix>:<key>", so any bot replica sharing the Redis
// database sees the same battle state.
type TypedStore[C any] struct {
	client *Client
	prefix string
}

var _ provider.StateStore[any] = (*TypedStore[any])(nil)

// NewTypedStore returns a store writing under prefix. An empty prefix
// uses the keys as given.
func NewTypedStore[C any](client *Client, prefix string) *TypedStore[C] {
	return &TypedStore[C]{client: client, prefix: prefix}
}

func (s *TypedStore[C]) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *TypedStore[C]) Load(ctx context.Context, k string) (*C, error) {
	raw, err := s.client.Get(ctx, s.key(k))
	if IsNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %s: %w", s.key(k), err)
	}
	val := new(C)
	if err := json.Unmarshal([]byte(raw), val); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", s.key(k), err)
	}
	return val, nil
}

// Save writes val for ttl (0 keeps it); a nil val deletes the key.
func (s *TypedStore[C]) Save(ctx context.Context, k string, val *C, ttl time.Duration) error {
	if val == nil {
		return s.Delete(ctx, k)
	}
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", s.key(k), err)
	}
	if err := s.client.Set(ctx, s.key(k), data, ttl); err != nil {
		return fmt.Errorf("redis: save %s: %w", s.key(k), err)
	}
	return nil
}

func (s *TypedStore[C]) Delete(ctx context.Context, k string) error {
	if err := s.client.Del(ctx, s.key(k)); err != nil {
		return fmt.Errorf("redis: delete %s: %w", s.key(k), err)
	}
	return nil
}
