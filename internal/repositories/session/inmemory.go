package session

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-session/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage. It keeps
// the encoded document, so a load never shares memory with a save.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Load retrieves the session stored under the key
func (r *InMemoryRepository) Load(_ context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	key := keyOrDefault(input.Key)

	r.mu.RLock()
	data, exists := r.store[key]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NotFoundf("no session stored under %q", key)
	}
	return decodeStored(key, data)
}

// Save stores the session under the key
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	data, err := encodeSession(input)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[keyOrDefault(input.Key)] = data
	return &SaveOutput{Bytes: len(data)}, nil
}
