package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value      string
	expiration time.Time
}

type memoryStore struct {
	mu     sync.RWMutex
	items  map[string]memoryEntry
	stopGC chan struct{}
	closed bool
}

func NewMemoryStore() Store {
	s := &memoryStore{
		items:  make(map[string]memoryEntry),
		stopGC: make(chan struct{}),
	}
	go s.startGC()
	return s
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}
	item, exists := s.items[key]
	if !exists || item.expired(time.Now()) {
		return "", ErrKeyNotFound
	}
	return item.value, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.items[key] = memoryEntry{value: value, expiration: expiry(ttl)}
	return nil
}

func (s *memoryStore) SetNX(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	if item, exists := s.items[key]; exists && !item.expired(time.Now()) {
		return false, nil
	}
	s.items[key] = memoryEntry{value: value, expiration: expiry(ttl)}
	return true, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, exists := s.items[key]; !exists {
		return ErrKeyNotFound
	}
	delete(s.items, key)
	return nil
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}
	item, exists := s.items[key]
	return exists && !item.expired(time.Now()), nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	close(s.stopGC)
	s.items = nil
	s.closed = true
	return nil
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiration.IsZero() && e.expiration.Before(now)
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

func (s *memoryStore) startGC() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopGC:
			return
		}
	}
}

func (s *memoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.items == nil {
		return
	}
	now := time.Now()
	for k, v := range s.items {
		if v.expired(now) {
			delete(s.items, k)
		}
	}
}
