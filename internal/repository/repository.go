// Package repository provides persistence for minted items and premium
// subscriptions.
package repository

import (
	"context"
	"errors"

	"github.com/ipvault/ipvault/internal/model"
)

// Common errors for repository operations.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUnknownBackend       = errors.New("unknown storage backend")
)

// ItemRepository is the append-only content store.
// ListAll returns items in insertion order.
type ItemRepository interface {
	Append(ctx context.Context, item *model.MintedItem) error
	ListAll(ctx context.Context) ([]model.MintedItem, error)
	Ping(ctx context.Context) error
	Close() error
}

// SubscriptionRepository is a key-value store of subscriptions keyed by
// normalized wallet address.
type SubscriptionRepository interface {
	Get(ctx context.Context, address string) (*model.Subscription, error)
	Put(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, address string) error
}
