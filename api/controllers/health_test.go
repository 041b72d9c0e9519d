package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev"}}
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Oak-Env") != "dev" {
		t.Fatalf("missing env header")
	}
}

func TestHealthReady(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
	}{
		{"all up", ok, ok, http.StatusOK},
		{"database down", down, ok, http.StatusServiceUnavailable},
		{"redis down", ok, down, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			HealthReady(testConfig(), nil, tc.db, tc.redis).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if resp.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, resp.Code)
			}
		})
	}
}
