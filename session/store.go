// Package session persists TonPlace access tokens keyed by phone number so a
// login only has to happen once per account.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyKey is returned when a store is asked about an empty phone number.
var ErrEmptyKey = errors.New("session key is empty")

// Store maps a normalized phone number to an access token.
type Store interface {
	// Get returns the token for phone and whether one was found.
	Get(ctx context.Context, phone string) (string, bool, error)
	// Set stores token for phone, replacing any previous value.
	Set(ctx context.Context, phone, token string) error
	// Delete forgets phone. Deleting a missing entry is not an error.
	Delete(ctx context.Context, phone string) error
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, phone string) (string, bool, error) {
	if phone == "" {
		return "", false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[phone]
	return token, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, phone, token string) error {
	if phone == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[phone] = token
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	if phone == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, phone)
	return nil
}
