package repository

import (
	"context"
	"sync"

	"github.com/ipvault/ipvault/internal/model"
)

// MemorySubscriptionRepository keeps subscriptions in process memory.
// Contents are lost on restart.
type MemorySubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]model.Subscription
}

// NewMemorySubscriptionRepository creates an empty in-memory store.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{subs: make(map[string]model.Subscription)}
}

// Get returns a copy of the stored subscription.
func (r *MemorySubscriptionRepository) Get(ctx context.Context, address string) (*model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[address]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return &sub, nil
}

// Put overwrites the subscription for its address.
func (r *MemorySubscriptionRepository) Put(ctx context.Context, sub *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[sub.Address] = *sub
	return nil
}

// Delete removes the subscription; deleting a missing address is not an error.
func (r *MemorySubscriptionRepository) Delete(ctx context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.subs, address)
	return nil
}

// Len returns the number of stored subscriptions.
func (r *MemorySubscriptionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
