package basket

import (
	"context"
	"fmt"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/metrics"
)

const maxLineQuantity = 999

// Service exposes quoting and basket operations for either session mode.
type Service interface {
	Quote(ctx context.Context, productID string, selections []pricing.Selection) (pricing.Quote, error)
	Add(ctx context.Context, session Session, input AddItemInput) (LineItem, error)
	List(ctx context.Context, session Session) (Basket, error)
	SetQuantity(ctx context.Context, session Session, key string, qty int) error
	Remove(ctx context.Context, session Session, key string) error
	Clear(ctx context.Context, session Session) error
	Merge(ctx context.Context, session Session) (MergeResult, error)
}

// AddItemInput is a configured product the caller wants in the basket.
type AddItemInput struct {
	ProductID  string
	Selections []pricing.Selection
	Quantity   int
}

type service struct {
	products ProductSource
	engine   *pricing.Engine
	store    Store
	cache    LocalBasket
	merger   *MergeCoordinator
	metrics  *metrics.BasketMetrics
}

// NewService wires the basket service.
func NewService(products ProductSource, engine *pricing.Engine, store Store, cache LocalBasket, merger *MergeCoordinator, m *metrics.BasketMetrics) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if store == nil {
		return nil, fmt.Errorf("basket store required")
	}
	if cache == nil {
		return nil, fmt.Errorf("local basket cache required")
	}
	if merger == nil {
		return nil, fmt.Errorf("merge coordinator required")
	}
	if engine == nil {
		engine = pricing.NewEngine()
	}
	return &service{
		products: products,
		engine:   engine,
		store:    store,
		cache:    cache,
		merger:   merger,
		metrics:  m,
	}, nil
}

func (s *service) Quote(ctx context.Context, productID string, selections []pricing.Selection) (pricing.Quote, error) {
	product, err := s.products.Get(productID)
	if err != nil {
		return pricing.Quote{}, err
	}
	quote, err := s.engine.Quote(product, selections)
	s.metrics.IncQuote(product.ID, err)
	return quote, err
}

// Add prices the configuration and adds it under its canonical key, so the
// same configuration added twice lands on one line.
func (s *service) Add(ctx context.Context, session Session, input AddItemInput) (LineItem, error) {
	if err := session.validate(); err != nil {
		return LineItem{}, err
	}
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 || qty > maxLineQuantity {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", maxLineQuantity))
	}

	product, err := s.products.Get(input.ProductID)
	if err != nil {
		return LineItem{}, err
	}
	quote, err := s.engine.Quote(product, input.Selections)
	s.metrics.IncQuote(product.ID, err)
	if err != nil {
		return LineItem{}, err
	}

	item := LineItem{
		Key:      CanonicalKey(product, quote.Configuration),
		Quantity: qty,
		Snapshot: Snapshot{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Configuration: quote.Configuration,
			UnitPrice:     quote.UnitPrice,
		},
	}

	if session.Mode == enums.SessionModeAuthenticated {
		err = s.store.UpsertIncrement(ctx, session.AccountID, item.Key, qty, item.Snapshot)
	} else {
		err = s.cache.UpsertIncrement(ctx, session.AnonymousID, item.Key, qty, item.Snapshot)
	}
	s.metrics.IncMutation("add", session.Mode.String(), err)
	if err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (s *service) List(ctx context.Context, session Session) (Basket, error) {
	if err := session.validate(); err != nil {
		return Basket{}, err
	}
	var (
		items []LineItem
		err   error
	)
	if session.Mode == enums.SessionModeAuthenticated {
		items, err = s.store.GetAll(ctx, session.AccountID)
	} else {
		items, err = s.cache.GetAll(ctx, session.AnonymousID)
	}
	if err != nil {
		return Basket{}, err
	}
	return newBasket(session.Mode, items), nil
}

func (s *service) SetQuantity(ctx context.Context, session Session, key string, qty int) error {
	if err := session.validate(); err != nil {
		return err
	}
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}
	if qty > maxLineQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must not exceed %d", maxLineQuantity))
	}

	var err error
	if session.Mode == enums.SessionModeAuthenticated {
		err = s.store.SetQuantity(ctx, session.AccountID, key, qty)
	} else {
		err = s.cache.SetQuantity(ctx, session.AnonymousID, key, qty)
	}
	s.metrics.IncMutation("set_quantity", session.Mode.String(), err)
	return err
}

func (s *service) Remove(ctx context.Context, session Session, key string) error {
	if err := session.validate(); err != nil {
		return err
	}
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}

	var err error
	if session.Mode == enums.SessionModeAuthenticated {
		err = s.store.Remove(ctx, session.AccountID, key)
	} else {
		err = s.cache.Remove(ctx, session.AnonymousID, key)
	}
	s.metrics.IncMutation("remove", session.Mode.String(), err)
	return err
}

func (s *service) Clear(ctx context.Context, session Session) error {
	if err := session.validate(); err != nil {
		return err
	}

	var err error
	if session.Mode == enums.SessionModeAuthenticated {
		err = s.store.ClearAll(ctx, session.AccountID)
	} else {
		err = s.cache.ClearAll(ctx, session.AnonymousID)
	}
	s.metrics.IncMutation("clear", session.Mode.String(), err)
	return err
}

// Merge runs the login merge for an authenticated session that still
// carries its anonymous basket id.
func (s *service) Merge(ctx context.Context, session Session) (MergeResult, error) {
	if session.Mode != enums.SessionModeAuthenticated {
		return MergeResult{State: enums.MergeStateIdle}, pkgerrors.New(pkgerrors.CodeUnauthorized, "merge requires an authenticated session")
	}
	if err := session.validate(); err != nil {
		return MergeResult{State: enums.MergeStateIdle}, err
	}
	if session.AnonymousID == "" {
		return MergeResult{State: enums.MergeStateIdle}, pkgerrors.New(pkgerrors.CodeValidation, "basket session id required")
	}
	return s.merger.Merge(ctx, session.AccountID, session.AnonymousID)
}
