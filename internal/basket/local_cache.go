package basket

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
)

const (
	cachePartQuantities = "qty"
	cachePartItems      = "items"
	cachePartMeta       = "meta"

	metaFieldMergeID = "merge_id"
)

// LocalCache keeps anonymous baskets in Redis, one set of hashes per
// visitor session. A quantity field never exists without its snapshot:
// every mutation touching both hashes is a single server-side script.
type LocalCache struct {
	store redisStore
	ttl   time.Duration
}

// NewLocalCache constructs a Redis-backed anonymous basket cache.
func NewLocalCache(store redisStore, ttl time.Duration) (*LocalCache, error) {
	if store == nil {
		return nil, errors.New("redis store required for local basket cache")
	}
	return &LocalCache{store: store, ttl: ttl}, nil
}

func (c *LocalCache) keys(sessionID string) (qty, items, meta string) {
	return c.store.AnonymousBasketKey(sessionID, cachePartQuantities),
		c.store.AnonymousBasketKey(sessionID, cachePartItems),
		c.store.AnonymousBasketKey(sessionID, cachePartMeta)
}

// GetAll returns the cached lines ordered by key.
func (c *LocalCache) GetAll(ctx context.Context, sessionID string) ([]LineItem, error) {
	qtyKey, itemsKey, _ := c.keys(sessionID)

	quantities, err := c.store.HGetAll(ctx, qtyKey)
	if err != nil {
		return nil, cacheError("read cached quantities", err)
	}
	if len(quantities) == 0 {
		return []LineItem{}, nil
	}
	snapshots, err := c.store.HGetAll(ctx, itemsKey)
	if err != nil {
		return nil, cacheError("read cached items", err)
	}

	items := make([]LineItem, 0, len(quantities))
	for key, raw := range quantities {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			continue
		}
		var snapshot Snapshot
		if err := json.Unmarshal([]byte(snapshots[key]), &snapshot); err != nil {
			continue
		}
		items = append(items, LineItem{Key: key, Quantity: qty, Snapshot: snapshot})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}

// UpsertIncrement adds delta to the cached line at key, storing snapshot
// when the line is new.
func (c *LocalCache) UpsertIncrement(ctx context.Context, sessionID, key string, delta int, snapshot Snapshot) error {
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}
	if delta <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode basket snapshot")
	}

	qtyKey, itemsKey, metaKey := c.keys(sessionID)
	if _, err := c.store.HIncrBySeeded(ctx, qtyKey, itemsKey, key, int64(delta), string(payload), c.ttl, metaKey); err != nil {
		return cacheError("increment cached item", err)
	}
	return nil
}

// SetQuantity overwrites the cached quantity; zero or less removes the line.
func (c *LocalCache) SetQuantity(ctx context.Context, sessionID, key string, qty int) error {
	if qty <= 0 {
		return c.Remove(ctx, sessionID, key)
	}
	qtyKey, _, _ := c.keys(sessionID)
	if _, err := c.store.HSetIfExists(ctx, qtyKey, key, qty); err != nil {
		return cacheError("set cached quantity", err)
	}
	return nil
}

// Remove drops the cached line at key if present.
func (c *LocalCache) Remove(ctx context.Context, sessionID, key string) error {
	qtyKey, itemsKey, _ := c.keys(sessionID)
	if err := c.store.HDelFromAll(ctx, key, qtyKey, itemsKey); err != nil {
		return cacheError("remove cached item", err)
	}
	return nil
}

// ClearAll drops the whole anonymous basket including its merge id.
func (c *LocalCache) ClearAll(ctx context.Context, sessionID string) error {
	qtyKey, itemsKey, metaKey := c.keys(sessionID)
	if err := c.store.Del(ctx, qtyKey, itemsKey, metaKey); err != nil {
		return cacheError("clear cached basket", err)
	}
	return nil
}

// MergeID returns the id every merge attempt of this basket shares. It is
// minted on first use and lives until the basket is cleared.
func (c *LocalCache) MergeID(ctx context.Context, sessionID string) (string, error) {
	_, _, metaKey := c.keys(sessionID)
	if _, err := c.store.HSetNX(ctx, metaKey, metaFieldMergeID, uuid.NewString()); err != nil {
		return "", cacheError("mint merge id", err)
	}
	meta, err := c.store.HGetAll(ctx, metaKey)
	if err != nil {
		return "", cacheError("read merge id", err)
	}
	if err := c.store.Expire(ctx, c.ttl, metaKey); err != nil {
		return "", cacheError("refresh cache ttl", err)
	}
	return meta[metaFieldMergeID], nil
}

func cacheError(op string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, op)
}
