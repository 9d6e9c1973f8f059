package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ipvault/ipvault/internal/model"
)

// Redis key layout.
const (
	DefaultItemsKey       = "ipvault:items"
	subscriptionKeyPrefix = "ipvault:premium:"
)

// RedisItemRepository stores items as JSON entries of a Redis list.
// RPUSH is atomic, so concurrent appends never lose updates.
type RedisItemRepository struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewRedisItemRepository creates a repository on the given list key.
func NewRedisItemRepository(client *redis.Client, key string, logger *slog.Logger) *RedisItemRepository {
	if key == "" {
		key = DefaultItemsKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisItemRepository{
		client: client,
		key:    key,
		logger: logger.With("component", "repository.redis"),
	}
}

// Append pushes the item onto the end of the list.
func (r *RedisItemRepository) Append(ctx context.Context, item *model.MintedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to append item: %w", err)
	}
	return nil
}

// ListAll returns the whole list. Entries that fail to decode are skipped.
func (r *RedisItemRepository) ListAll(ctx context.Context) ([]model.MintedItem, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]model.MintedItem, 0, len(values))
	for i, raw := range values {
		var item model.MintedItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			r.logger.Warn("skipping undecodable item", "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Ping checks Redis connectivity.
func (r *RedisItemRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close is a no-op; the client is owned by the cache package.
func (r *RedisItemRepository) Close() error {
	return nil
}

// RedisSubscriptionRepository stores subscriptions as JSON strings whose
// TTL ends at the subscription expiry.
type RedisSubscriptionRepository struct {
	client *redis.Client
}

// NewRedisSubscriptionRepository creates a Redis-backed subscription store.
func NewRedisSubscriptionRepository(client *redis.Client) *RedisSubscriptionRepository {
	return &RedisSubscriptionRepository{client: client}
}

// Get returns the subscription or ErrSubscriptionNotFound.
func (r *RedisSubscriptionRepository) Get(ctx context.Context, address string) (*model.Subscription, error) {
	data, err := r.client.Get(ctx, subscriptionKeyPrefix+address).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	var sub model.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subscription: %w", err)
	}
	return &sub, nil
}

// Put overwrites the subscription for its address.
func (r *RedisSubscriptionRepository) Put(ctx context.Context, sub *model.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	// Zero TTL keeps the key; expired entries are removed lazily on read.
	var ttl time.Duration
	if sub.ExpiresAt != nil {
		if until := time.Until(sub.ExpiryTime()); until > 0 {
			ttl = until
		}
	}

	if err := r.client.Set(ctx, subscriptionKeyPrefix+sub.Address, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store subscription: %w", err)
	}
	return nil
}

// Delete removes the subscription for address.
func (r *RedisSubscriptionRepository) Delete(ctx context.Context, address string) error {
	if err := r.client.Del(ctx, subscriptionKeyPrefix+address).Err(); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}
