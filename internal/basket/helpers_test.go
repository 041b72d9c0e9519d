package basket

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/db/models"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	pkgredis "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/redis"
	"go.uber.org/goleak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:basket_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.BasketItem{}, &models.BasketMergeEntry{}); err != nil {
		t.Fatalf("migrate basket tables: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

// quoted prices a configuration and returns it as a basket line.
func quoted(t *testing.T, c *catalog.Catalog, productID string, qty int, selections ...pricing.Selection) LineItem {
	t.Helper()
	product, err := c.Get(productID)
	if err != nil {
		t.Fatalf("get %s: %v", productID, err)
	}
	quote, err := pricing.NewEngine().Quote(product, selections)
	if err != nil {
		t.Fatalf("quote %s: %v", productID, err)
	}
	return LineItem{
		Key:      CanonicalKey(product, quote.Configuration),
		Quantity: qty,
		Snapshot: Snapshot{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Configuration: quote.Configuration,
			UnitPrice:     quote.UnitPrice,
		},
	}
}

func quantities(items []LineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.Key] = item.Quantity
	}
	return out
}

// fakeRedis is an in-memory stand-in for the redis client.
type fakeRedis struct {
	mu      sync.Mutex
	strings map[string]string
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	failAll error

	refreshes int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		strings: map[string]string{},
		hashes:  map[string]map[string]string{},
		ttls:    map[string]time.Duration{},
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return "", f.failAll
	}
	v, ok := f.strings[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	if _, ok := f.strings[key]; ok {
		return false, nil
	}
	f.strings[key] = toString(value)
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeRedis) Expire(_ context.Context, ttl time.Duration, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	for _, key := range keys {
		if _, ok := f.hashes[key]; ok {
			f.ttls[key] = ttl
		}
	}
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	for _, key := range keys {
		delete(f.strings, key)
		delete(f.hashes, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeRedis) HGetAll(_ context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRedis) hash(key string) map[string]string {
	h, ok := f.hashes[key]
	if !ok {
		h = map[string]string{}
		f.hashes[key] = h
	}
	return h
}

func (f *fakeRedis) HSetNX(_ context.Context, key, field string, value any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	h := f.hash(key)
	if _, ok := h[field]; ok {
		return false, nil
	}
	h[field] = toString(value)
	return true, nil
}

func (f *fakeRedis) HIncrBySeeded(_ context.Context, countKey, seedKey, field string, delta int64, seed any, ttl time.Duration, touch ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return 0, f.failAll
	}
	seeds := f.hash(seedKey)
	if _, ok := seeds[field]; !ok {
		seeds[field] = toString(seed)
	}
	counts := f.hash(countKey)
	current, _ := strconv.ParseInt(counts[field], 10, 64)
	current += delta
	counts[field] = strconv.FormatInt(current, 10)
	if ttl > 0 {
		for _, key := range append([]string{countKey, seedKey}, touch...) {
			if _, ok := f.hashes[key]; ok {
				f.ttls[key] = ttl
			}
		}
	}
	return current, nil
}

func (f *fakeRedis) HDelFromAll(_ context.Context, field string, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	for _, key := range keys {
		delete(f.hashes[key], field)
		if len(f.hashes[key]) == 0 {
			delete(f.hashes, key)
		}
	}
	return nil
}

func (f *fakeRedis) HSetIfExists(_ context.Context, key, field string, value any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	if _, ok := f.hashes[key][field]; !ok {
		return false, nil
	}
	f.hashes[key][field] = toString(value)
	return true, nil
}

func (f *fakeRedis) ExpireIfValue(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	if current, ok := f.strings[key]; !ok || current != value {
		return false, nil
	}
	f.ttls[key] = ttl
	f.refreshes++
	return true, nil
}

// rawHash returns a copy of the stored hash without going through the cache.
func (f *fakeRedis) rawHash(key string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out
}

func (f *fakeRedis) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *fakeRedis) AnonymousBasketKey(sessionID, part string) string {
	return strings.Join([]string{"oak", "basket", "anon", sessionID, part}, ":")
}

func (f *fakeRedis) LockKey(scope, id string) string {
	return strings.Join([]string{"oak", "lock", scope, id}, ":")
}

func (f *fakeRedis) keyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.strings) + len(f.hashes)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// memStore is an in-memory account basket with injectable failures.
type memStore struct {
	mu     sync.Mutex
	items  map[uuid.UUID]map[string]LineItem
	ledger map[string]int
	// failures maps an item key to the errors returned by successive
	// ApplyMergeIncrement calls before it starts succeeding.
	failures map[string][]error
	calls    map[string]int
	// delay stalls every ApplyMergeIncrement call.
	delay time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		items:    map[uuid.UUID]map[string]LineItem{},
		ledger:   map[string]int{},
		failures: map[string][]error{},
		calls:    map[string]int{},
	}
}

func (s *memStore) GetAll(_ context.Context, accountID uuid.UUID) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, 0, len(s.items[accountID]))
	for _, item := range s.items[accountID] {
		out = append(out, item)
	}
	return out, nil
}

func (s *memStore) upsert(accountID uuid.UUID, key string, delta int, snapshot Snapshot) {
	lines, ok := s.items[accountID]
	if !ok {
		lines = map[string]LineItem{}
		s.items[accountID] = lines
	}
	line, ok := lines[key]
	if !ok {
		line = LineItem{Key: key, Snapshot: snapshot}
	}
	line.Quantity += delta
	lines[key] = line
}

func (s *memStore) UpsertIncrement(_ context.Context, accountID uuid.UUID, key string, delta int, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsert(accountID, key, delta, snapshot)
	return nil
}

func (s *memStore) SetQuantity(_ context.Context, accountID uuid.UUID, key string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.items[accountID][key]
	if !ok {
		return nil
	}
	if qty <= 0 {
		delete(s.items[accountID], key)
		return nil
	}
	line.Quantity = qty
	s.items[accountID][key] = line
	return nil
}

func (s *memStore) Remove(_ context.Context, accountID uuid.UUID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[accountID], key)
	return nil
}

func (s *memStore) ClearAll(_ context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, accountID)
	return nil
}

func (s *memStore) ApplyMergeIncrement(_ context.Context, accountID uuid.UUID, mergeID, sourceKey string, item LineItem) (int, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[item.Key]++
	if pending := s.failures[item.Key]; len(pending) > 0 {
		s.failures[item.Key] = pending[1:]
		return 0, pending[0]
	}
	ledgerKey := mergeID + "/" + sourceKey
	applied := item.Quantity - s.ledger[ledgerKey]
	if applied <= 0 {
		return 0, nil
	}
	s.ledger[ledgerKey] = item.Quantity
	s.upsert(accountID, item.Key, applied, item.Snapshot)
	return applied, nil
}

func (s *memStore) ForgetMerge(_ context.Context, mergeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.ledger {
		if strings.HasPrefix(key, mergeID+"/") {
			delete(s.ledger, key)
		}
	}
	return nil
}

var errTransient = pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, errors.New("connection reset"), "apply merge increment")
