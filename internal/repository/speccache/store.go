package speccache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/apicat/internal/db"
)

// Store holds fetched specification documents. Get returns
// db.ErrKeyNotFound on a miss. Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps every document for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an unbounded in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// Get returns a stored document.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// Set stores a document.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// Delete drops a document.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// LRUStore keeps at most size documents, each for at most ttl.
type LRUStore struct {
	cache *lru.LRU[string, []byte]
}

// NewLRUStore creates a bounded store. size <= 0 means no size bound and
// ttl <= 0 means entries never expire.
func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	if size < 0 {
		size = 0
	}
	return &LRUStore{cache: lru.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns a stored document.
func (s *LRUStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// Set stores a document, evicting the least recently used one when full.
func (s *LRUStore) Set(_ context.Context, key string, value []byte) error {
	s.cache.Add(key, value)
	return nil
}

// Delete drops a document.
func (s *LRUStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

// kvStore is the consumer interface of the shared backend (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// KVStore shares documents between processes through a key-value backend.
type KVStore struct {
	kv     kvStore
	prefix string
	ttl    time.Duration
}

// NewKVStore namespaces keys under prefix. ttl <= 0 stores without expiry.
func NewKVStore(kv kvStore, prefix string, ttl time.Duration) *KVStore {
	return &KVStore{kv: kv, prefix: prefix, ttl: ttl}
}

// Get returns a stored document.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.kv.Get(ctx, s.prefix+key) //nolint:wrapcheck // db errors are already typed
}

// Set stores a document.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.kv.SetWithTTL(ctx, s.prefix+key, value, s.ttl) //nolint:wrapcheck // db errors are already typed
}

// Delete drops a document from the shared backend.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.kv.Del(ctx, s.prefix+key) //nolint:wrapcheck // db errors are already typed
}
