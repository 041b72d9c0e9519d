package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

type ctxKey struct{}

func TestBaseDB_BindsContextWithDeadline(t *testing.T) {
	base := NewBase(newTestDB(t), 2*time.Second)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	db, cancel := base.DB(ctx)
	defer cancel()

	if db.Statement == nil || db.Statement.Context == nil {
		t.Fatalf("expected statement context after binding")
	}
	bound := db.Statement.Context
	if bound.Value(ctxKey{}) != "value" {
		t.Fatalf("expected caller context values to flow through")
	}
	deadline, ok := bound.Deadline()
	if !ok {
		t.Fatalf("expected deadline on bound context")
	}
	if remaining := time.Until(deadline); remaining > 2*time.Second || remaining <= 0 {
		t.Fatalf("unexpected deadline distance %v", remaining)
	}
	if base.Timeout() != 2*time.Second {
		t.Fatalf("unexpected timeout %v", base.Timeout())
	}

	cancel()
	if bound.Err() == nil {
		t.Fatalf("expected cancel to end the bound context")
	}
}

func TestBaseDB_NoTimeout(t *testing.T) {
	base := NewBase(newTestDB(t), 0)

	db, cancel := base.DB(nil)
	defer cancel()

	if _, ok := db.Statement.Context.Deadline(); ok {
		t.Fatalf("expected no deadline without a timeout")
	}
	if base.Timeout() != 0 {
		t.Fatalf("unexpected timeout %v", base.Timeout())
	}
}
