// internal/auth/store.go
package auth

import (
	"context"
	"fmt"
	"sync"
)

// TokenKey is the storage key holding the raw bearer string.
const TokenKey = "token"

// Store is the authentication context handed to the request layer.
// Set on successful login, cleared on logout, read on every request.
type Store interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != "", nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// KeyValue is the slice of persistent storage the token store needs.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// PersistentStore keeps the token under TokenKey in local storage and reads
// it back on every Get. A non-nil sealer encrypts it at rest.
type PersistentStore struct {
	kv     KeyValue
	sealer *Sealer
}

func NewPersistentStore(kv KeyValue, sealer *Sealer) *PersistentStore {
	return &PersistentStore{kv: kv, sealer: sealer}
}

func (s *PersistentStore) Get(ctx context.Context) (string, bool, error) {
	value, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil || !ok || value == "" {
		return "", false, err
	}
	if s.sealer == nil {
		return value, true, nil
	}
	token, err := s.sealer.Open(value)
	if err != nil {
		return "", false, fmt.Errorf("failed to open stored token: %w", err)
	}
	return token, true, nil
}

func (s *PersistentStore) Set(ctx context.Context, token string) error {
	value := token
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return fmt.Errorf("failed to seal token: %w", err)
		}
		value = sealed
	}
	return s.kv.Set(ctx, TokenKey, value)
}

func (s *PersistentStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}
