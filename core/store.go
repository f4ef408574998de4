package core

import (
	"bytes"
	"sort"
	"sync"
)

// Store is the persisted key/value surface this package needs from the
// host ledger. The real implementation (host storage primitives) is an
// external collaborator per spec.md §1; InMemoryStore below is a
// reference implementation used by tests and the cmd/cli admin tool.
type Store interface {
	Get(key []byte) ([]byte, bool)
	Set(key, value []byte)
	Delete(key []byte)
	// SetTTL stores value under key and records an expiry in terms of
	// logical "bucket units" (used for the flow counters, spec.md §3's
	// "temporary with TTL" entries). InMemoryStore enforces the TTL
	// lazily on Get.
	SetTTL(key, value []byte, expiresAtBucket uint64)
	IteratePrefix(prefix []byte, fn func(key, value []byte) bool)
}

// InMemoryStore is a single-writer, lock-protected map store, grounded on
// the KVStore/InMemoryStore pattern used for cross-chain bridge records.
type InMemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	expiry   map[string]uint64
	curBkt   func() uint64
}

// NewInMemoryStore constructs an empty store. curBucket supplies the
// current flow bucket so TTL'd entries can be lazily evicted on read;
// pass nil to disable TTL eviction (entries then live forever).
func NewInMemoryStore(curBucket func() uint64) *InMemoryStore {
	return &InMemoryStore{
		data:   make(map[string][]byte),
		expiry: make(map[string]uint64),
		curBkt: curBucket,
	}
}

func (s *InMemoryStore) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := string(key)
	if exp, ok := s.expiry[k]; ok && s.curBkt != nil && s.curBkt() > exp {
		return nil, false
	}
	v, ok := s.data[k]
	return v, ok
}

func (s *InMemoryStore) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = value
}

func (s *InMemoryStore) Delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	delete(s.data, k)
	delete(s.expiry, k)
}

func (s *InMemoryStore) SetTTL(key, value []byte, expiresAtBucket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := string(key)
	s.data[k] = value
	s.expiry[k] = expiresAtBucket
}

func (s *InMemoryStore) IteratePrefix(prefix []byte, fn func(key, value []byte) bool) {
	s.mu.RLock()
	type kv struct {
		k string
		v []byte
	}
	var all []kv
	for k, v := range s.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			all = append(all, kv{k, v})
		}
	}
	s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].k < all[j].k })
	for _, e := range all {
		if !fn([]byte(e.k), e.v) {
			return
		}
	}
}
