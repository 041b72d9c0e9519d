package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/responses"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	pkgerrors "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/errors"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Oak-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the basket store and the cache; either failing marks the
// instance unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Oak-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]Pinger{"database": dbP, "redis": redisP}
		status := map[string]string{}
		var failed error
		for name, p := range checks {
			if p == nil {
				status[name] = "skipped"
				continue
			}
			if err := p.Ping(ctx); err != nil {
				status[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").
						WithDetails(map[string]any{"dependency": name})
				}
				continue
			}
			status[name] = "up"
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
