package basket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
)

// Store is the durable per-account basket.
type Store interface {
	GetAll(ctx context.Context, accountID uuid.UUID) ([]LineItem, error)
	UpsertIncrement(ctx context.Context, accountID uuid.UUID, key string, delta int, snapshot Snapshot) error
	SetQuantity(ctx context.Context, accountID uuid.UUID, key string, qty int) error
	Remove(ctx context.Context, accountID uuid.UUID, key string) error
	ClearAll(ctx context.Context, accountID uuid.UUID) error
}

// MergeStore is the store surface the merge coordinator needs.
type MergeStore interface {
	ApplyMergeIncrement(ctx context.Context, accountID uuid.UUID, mergeID, sourceKey string, item LineItem) (int, error)
	ForgetMerge(ctx context.Context, mergeID string) error
}

// LocalBasket is the per-visitor basket kept before login.
type LocalBasket interface {
	GetAll(ctx context.Context, sessionID string) ([]LineItem, error)
	UpsertIncrement(ctx context.Context, sessionID, key string, delta int, snapshot Snapshot) error
	SetQuantity(ctx context.Context, sessionID, key string, qty int) error
	Remove(ctx context.Context, sessionID, key string) error
	ClearAll(ctx context.Context, sessionID string) error
	MergeID(ctx context.Context, sessionID string) (string, error)
}

// redisStore defines the operations the cache and merge lock use.
type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Expire(ctx context.Context, ttl time.Duration, keys ...string) error
	Del(ctx context.Context, keys ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetNX(ctx context.Context, key, field string, value any) (bool, error)
	HIncrBySeeded(ctx context.Context, countKey, seedKey, field string, delta int64, seed any, ttl time.Duration, touch ...string) (int64, error)
	HDelFromAll(ctx context.Context, field string, keys ...string) error
	HSetIfExists(ctx context.Context, key, field string, value any) (bool, error)
	ExpireIfValue(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	AnonymousBasketKey(sessionID, part string) string
	LockKey(scope, id string) string
}

// ProductSource resolves catalog products by id.
type ProductSource interface {
	Get(productID string) (*catalog.Product, error)
}
