package user

import (
	"context"
	"sync"
)

// memoryRepository implements Repository using in-memory storage
type memoryRepository struct {
	opts options

	mu    sync.Mutex
	users map[string]User
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository(opts ...Option) Repository {
	return &memoryRepository{
		opts:  buildOptions(opts),
		users: make(map[string]User),
	}
}

func (r *memoryRepository) Create(ctx context.Context, input CreateInput) (*User, error) {
	record, err := r.opts.newRecord(input)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[record.ClerkID]; exists {
		return nil, ErrConflict
	}
	r.users[record.ClerkID] = record
	return &record, nil
}

func (r *memoryRepository) Update(ctx context.Context, clerkID string, input UpdateInput) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.users[clerkID]
	if !exists {
		return nil, ErrNotFound
	}
	input.apply(&record)
	record.UpdatedAt = r.opts.clock.Now().UTC()
	r.users[clerkID] = record
	return &record, nil
}

func (r *memoryRepository) Delete(ctx context.Context, clerkID string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.users[clerkID]
	if !exists {
		return nil, ErrNotFound
	}
	delete(r.users, clerkID)
	return &record, nil
}
