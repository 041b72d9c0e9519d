package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
)

func TestNewSQLiteClient(t *testing.T) {
	cfg := config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "oak.db"),
	}

	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}
	defer client.Close()

	if client.Dialect() != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", client.Dialect())
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite pool capped at 1, got %d", got)
	}
}

func TestNewRequiresDSNForPostgres(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DriverPostgres}, nil); err == nil {
		t.Fatal("expected missing DSN to fail")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}
