package basket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/metrics"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMergeConcurrency = 4
	defaultMergeRetryBase   = 100 * time.Millisecond
)

// MergeOptions tunes the merge fan-out. LockTTL is raised to at least one
// item's full retry budget, (MaxRetries+1) x StoreTimeout; the lock is also
// refreshed for as long as the merge runs.
type MergeOptions struct {
	Concurrency  int
	LockTTL      time.Duration
	MaxRetries   int
	RetryBase    time.Duration
	StoreTimeout time.Duration
}

// MergeCoordinator folds an anonymous basket into an account basket on login.
type MergeCoordinator struct {
	products ProductSource
	engine   *pricing.Engine
	store    MergeStore
	cache    LocalBasket
	locks    redisStore
	metrics  *metrics.BasketMetrics
	logg     *logger.Logger
	opts     MergeOptions
}

// MergeCoordinatorParams groups the coordinator's collaborators.
type MergeCoordinatorParams struct {
	Products ProductSource
	Engine   *pricing.Engine
	Store    MergeStore
	Cache    LocalBasket
	Locks    redisStore
	Metrics  *metrics.BasketMetrics
	Logger   *logger.Logger
	Options  MergeOptions
}

// NewMergeCoordinator validates collaborators and applies option defaults.
func NewMergeCoordinator(p MergeCoordinatorParams) (*MergeCoordinator, error) {
	if p.Products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if p.Store == nil {
		return nil, fmt.Errorf("merge store required")
	}
	if p.Cache == nil {
		return nil, fmt.Errorf("local basket cache required")
	}
	if p.Locks == nil {
		return nil, fmt.Errorf("lock store required")
	}
	if p.Engine == nil {
		p.Engine = pricing.NewEngine()
	}
	if p.Options.Concurrency <= 0 {
		p.Options.Concurrency = defaultMergeConcurrency
	}
	if p.Options.RetryBase <= 0 {
		p.Options.RetryBase = defaultMergeRetryBase
	}
	if p.Options.MaxRetries < 0 {
		p.Options.MaxRetries = 0
	}
	if p.Options.LockTTL <= 0 {
		p.Options.LockTTL = defaultMergeLockTTL
	}
	if budget := time.Duration(p.Options.MaxRetries+1) * p.Options.StoreTimeout; p.Options.LockTTL < budget {
		p.Options.LockTTL = budget
	}
	return &MergeCoordinator{
		products: p.Products,
		engine:   p.Engine,
		store:    p.Store,
		cache:    p.Cache,
		locks:    p.Locks,
		metrics:  p.Metrics,
		logg:     p.Logger,
		opts:     p.Options,
	}, nil
}

type mergePlanItem struct {
	sourceKey string
	item      LineItem
}

// Merge folds the anonymous basket of sessionID into accountID. A merge
// already running for the account makes this call a no-op reporting the
// merging state. The anonymous basket is cleared only after every line was
// applied; otherwise it is kept whole for the next attempt, and the merge
// ledger keeps already applied lines from being counted twice.
func (m *MergeCoordinator) Merge(ctx context.Context, accountID uuid.UUID, sessionID string) (MergeResult, error) {
	if accountID == uuid.Nil {
		return MergeResult{State: enums.MergeStateIdle}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account id required")
	}
	if sessionID == "" {
		return MergeResult{State: enums.MergeStateIdle}, pkgerrors.New(pkgerrors.CodeValidation, "basket session id required")
	}

	started := time.Now()
	ctx = m.withFields(ctx, accountID, sessionID)

	lock := newMergeLock(m.locks, accountID, m.opts.LockTTL)
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return MergeResult{State: enums.MergeStateIdle}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire merge lock")
	}
	if !acquired {
		m.info(ctx, "basket.merge.in_flight")
		return MergeResult{State: enums.MergeStateMerging}, nil
	}
	stopRefresh := lock.keepAlive(context.WithoutCancel(ctx), func(err error) {
		m.warn(ctx, "basket.merge.lock_refresh_failed", err)
	})
	defer func() {
		stopRefresh()
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			m.warn(ctx, "basket.merge.lock_release_failed", err)
		}
	}()

	result, err := m.merge(ctx, accountID, sessionID)
	m.metrics.ObserveMerge(result.State.String(), time.Since(started))
	m.metrics.AddMergeItems("applied", result.Merged)
	m.metrics.AddMergeItems("skipped", result.Skipped)
	m.metrics.AddMergeItems("dropped", result.Dropped)
	if err != nil {
		m.logError(ctx, "basket.merge.failed", err)
		return result, err
	}
	m.info(ctx, "basket.merge.done")
	return result, nil
}

func (m *MergeCoordinator) merge(ctx context.Context, accountID uuid.UUID, sessionID string) (MergeResult, error) {
	failed := MergeResult{State: enums.MergeStateFailed}

	cached, err := m.cache.GetAll(ctx, sessionID)
	if err != nil {
		return failed, err
	}
	if len(cached) == 0 {
		return MergeResult{State: enums.MergeStateDone}, nil
	}

	mergeID, err := m.cache.MergeID(ctx, sessionID)
	if err != nil {
		return failed, err
	}
	result := MergeResult{State: enums.MergeStateMerging, MergeID: mergeID}
	failed.MergeID = mergeID
	if m.logg != nil {
		ctx = m.logg.WithMergeID(ctx, mergeID)
	}

	plan := make([]mergePlanItem, 0, len(cached))
	for _, item := range cached {
		repriced, err := m.reprice(item)
		if err != nil {
			result.Dropped++
			m.warn(ctx, "basket.merge.item_dropped", fmt.Errorf("item %s: %w", item.Key, err))
			continue
		}
		plan = append(plan, mergePlanItem{sourceKey: item.Key, item: repriced})
	}

	// Dispatched increments outlive the caller so an abandoned request does
	// not leave half a batch in flight.
	callCtx := context.WithoutCancel(ctx)

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(m.opts.Concurrency)
	for _, entry := range plan {
		g.Go(func() error {
			applied, err := m.applyWithRetry(callCtx, accountID, mergeID, entry)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("item %s: %w", entry.sourceKey, err))
				return nil
			}
			if applied > 0 {
				result.Merged++
			} else {
				result.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	if errs != nil {
		failed.Merged, failed.Skipped, failed.Dropped = result.Merged, result.Skipped, result.Dropped
		return failed, mergeFailure(errs)
	}

	if err := m.cache.ClearAll(callCtx, sessionID); err != nil {
		failed.Merged, failed.Skipped, failed.Dropped = result.Merged, result.Skipped, result.Dropped
		return failed, err
	}
	if err := m.store.ForgetMerge(callCtx, mergeID); err != nil {
		m.warn(ctx, "basket.merge.ledger_cleanup_failed", err)
	}

	result.State = enums.MergeStateDone
	return result, nil
}

// mergeFailure reports a partial merge as retryable only when every item
// failed with a retryable error. Otherwise the first non-retryable item's
// code is surfaced.
func mergeFailure(errs error) error {
	code := pkgerrors.CodeStoreUnavailable
	for _, err := range multierr.Errors(errs) {
		if pkgerrors.IsRetryable(err) {
			continue
		}
		code = pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		break
	}
	return pkgerrors.Wrap(code, errs, "merge incomplete, anonymous basket kept")
}

// reprice rebuilds a cached line against the current catalog. The cached key
// is not trusted: the configuration is re-resolved and keyed afresh.
func (m *MergeCoordinator) reprice(item LineItem) (LineItem, error) {
	product, err := m.products.Get(item.ProductID)
	if err != nil {
		return LineItem{}, err
	}
	cfg, err := m.engine.Resolve(product, item.Configuration.Selections())
	if err != nil {
		return LineItem{}, err
	}
	price, err := m.engine.Price(product, cfg)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		Key:      CanonicalKey(product, cfg),
		Quantity: item.Quantity,
		Snapshot: Snapshot{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Configuration: cfg,
			UnitPrice:     price,
		},
	}, nil
}

func (m *MergeCoordinator) applyWithRetry(ctx context.Context, accountID uuid.UUID, mergeID string, entry mergePlanItem) (int, error) {
	backoff := retry.WithMaxRetries(uint64(m.opts.MaxRetries), retry.NewExponential(m.opts.RetryBase))

	var applied int
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		n, err := m.store.ApplyMergeIncrement(ctx, accountID, mergeID, entry.sourceKey, entry.item)
		if err != nil {
			if pkgerrors.IsRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		applied = n
		return nil
	})
	return applied, err
}

func (m *MergeCoordinator) withFields(ctx context.Context, accountID uuid.UUID, sessionID string) context.Context {
	if m.logg == nil {
		return ctx
	}
	ctx = m.logg.WithAccountID(ctx, accountID.String())
	return m.logg.WithBasketSession(ctx, sessionID)
}

func (m *MergeCoordinator) info(ctx context.Context, msg string) {
	if m.logg != nil {
		m.logg.Info(ctx, msg)
	}
}

func (m *MergeCoordinator) warn(ctx context.Context, msg string, err error) {
	if m.logg != nil {
		m.logg.WarnErr(ctx, msg, err)
	}
}

func (m *MergeCoordinator) logError(ctx context.Context, msg string, err error) {
	if m.logg != nil {
		m.logg.Error(ctx, msg, err)
	}
}
