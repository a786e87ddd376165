package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/marisolvega/skinroutine-backend/api/responses"
	"github.com/marisolvega/skinroutine-backend/pkg/config"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"github.com/marisolvega/skinroutine-backend/pkg/logger"
	"go.uber.org/multierr"
)

const readyProbeTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SkinRoutine-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every backing store and reports ready only when all of
// them respond. Failures are combined so one probe does not mask another.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SkinRoutine-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		var probeErr error
		checks := map[string]string{}

		probe := func(name string, p pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				probeErr = multierr.Append(probeErr, err)
				return
			}
			checks[name] = "up"
		}

		probe("database", database)
		probe("redis", cache)

		if probeErr != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, probeErr, "readiness probe failed").
				WithDetails(checks)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
