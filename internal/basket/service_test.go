package basket

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/pricing"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/enums"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func newTestService(t *testing.T) (Service, *memStore) {
	t.Helper()
	store := newMemStore()
	f := newMergeFixture(t, store)
	svc, err := NewService(mustCatalog(t), pricing.NewEngine(), store, f.cache, f.coordinator, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	if _, err := NewService(nil, nil, newMemStore(), nil, nil, nil); err == nil {
		t.Fatal("expected error for missing product source")
	}
}

func TestServiceQuote(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.Quote(context.Background(), "oak-gazebo", []pricing.Selection{{OptionID: "sizeType", Value: "4x4"}})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("expected 3500, got %s", quote.UnitPrice)
	}

	_, err = svc.Quote(context.Background(), "oak-shed", nil)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAnonymousAddConsolidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	session := AnonymousSession("sid-1")

	first, err := svc.Add(ctx, session, AddItemInput{
		ProductID:  "oak-gazebo",
		Selections: []pricing.Selection{{OptionID: "sizeType", Value: "4x4"}},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := svc.Add(ctx, session, AddItemInput{
		ProductID: "oak-gazebo",
		Selections: []pricing.Selection{
			{OptionID: "roofStyle", Value: "hipped"},
			{OptionID: "sizeType", Value: "4x4"},
		},
		Quantity: 2,
	})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if first.Key != second.Key {
		t.Fatalf("expected same line, got %q and %q", first.Key, second.Key)
	}

	basket, err := svc.List(ctx, session)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := Basket{
		Mode: enums.SessionModeAnonymous,
		Items: []LineItemDTO{{
			LineItem:  LineItem{Key: first.Key, Quantity: 3, Snapshot: first.Snapshot},
			LineTotal: decimal.NewFromInt(10500),
		}},
		Subtotal: decimal.NewFromInt(10500),
		Count:    3,
	}
	if diff := cmp.Diff(want, basket, decimalEqual); diff != "" {
		t.Fatalf("basket mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceAuthenticatedRoutesToStore(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	account := uuid.New()
	session := AuthenticatedSession(account, "")

	item, err := svc.Add(ctx, session, AddItemInput{ProductID: "oak-porch"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Key != "oak-porch" {
		t.Fatalf("expected default porch to key to its id, got %q", item.Key)
	}

	stored, _ := store.GetAll(ctx, account)
	if diff := cmp.Diff(map[string]int{"oak-porch": 1}, quantities(stored)); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}

	if err := svc.SetQuantity(ctx, session, item.Key, 4); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	basket, err := svc.List(ctx, session)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if basket.Count != 4 || !basket.Subtotal.Equal(decimal.NewFromInt(5800)) {
		t.Fatalf("unexpected basket %+v", basket)
	}

	if err := svc.SetQuantity(ctx, session, item.Key, 0); err != nil {
		t.Fatalf("zero quantity: %v", err)
	}
	if err := svc.Remove(ctx, session, "absent"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	basket, _ = svc.List(ctx, session)
	if len(basket.Items) != 0 {
		t.Fatalf("expected empty basket, got %+v", basket.Items)
	}
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	session := AnonymousSession("sid-1")

	cases := []struct {
		name    string
		session Session
		input   AddItemInput
		code    pkgerrors.Code
	}{
		{"unknown option", session, AddItemInput{ProductID: "oak-gazebo", Selections: []pricing.Selection{{OptionID: "moat", Value: "yes"}}}, pkgerrors.CodeUnknownOption},
		{"bad value", session, AddItemInput{ProductID: "oak-gazebo", Selections: []pricing.Selection{{OptionID: "sizeType", Value: "1x1"}}}, pkgerrors.CodeInvalidOptionValue},
		{"negative quantity", session, AddItemInput{ProductID: "oak-porch", Quantity: -1}, pkgerrors.CodeValidation},
		{"huge quantity", session, AddItemInput{ProductID: "oak-porch", Quantity: maxLineQuantity + 1}, pkgerrors.CodeValidation},
		{"unknown product", session, AddItemInput{ProductID: "oak-shed"}, pkgerrors.CodeNotFound},
		{"missing session", AnonymousSession(""), AddItemInput{ProductID: "oak-porch"}, pkgerrors.CodeValidation},
		{"missing account", AuthenticatedSession(uuid.Nil, ""), AddItemInput{ProductID: "oak-porch"}, pkgerrors.CodeUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.session, tc.input)
			if !pkgerrors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}

	basket, err := svc.List(ctx, session)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(basket.Items) != 0 {
		t.Fatalf("expected rejected adds to leave basket empty, got %+v", basket.Items)
	}
}

func TestServiceMergeAfterLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	account := uuid.New()

	if _, err := svc.Add(ctx, AnonymousSession("sid-9"), AddItemInput{ProductID: "oak-flooring", Quantity: 2}); err != nil {
		t.Fatalf("anonymous add: %v", err)
	}

	if _, err := svc.Merge(ctx, AnonymousSession("sid-9")); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for anonymous merge, got %v", err)
	}
	if _, err := svc.Merge(ctx, AuthenticatedSession(account, "")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error without basket session, got %v", err)
	}

	result, err := svc.Merge(ctx, AuthenticatedSession(account, "sid-9"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if result.State != enums.MergeStateDone || result.Merged != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	stored, _ := store.GetAll(ctx, account)
	if diff := cmp.Diff(map[string]int{"oak-flooring": 2}, quantities(stored)); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
	anon, _ := svc.List(ctx, AnonymousSession("sid-9"))
	if len(anon.Items) != 0 {
		t.Fatalf("expected anonymous basket emptied, got %+v", anon.Items)
	}

	if err := svc.Clear(ctx, AuthenticatedSession(account, "")); err != nil {
		t.Fatalf("clear: %v", err)
	}
	stored, _ = store.GetAll(ctx, account)
	if len(stored) != 0 {
		t.Fatalf("expected cleared account basket, got %+v", stored)
	}
}
