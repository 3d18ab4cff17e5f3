package controllers

import (
	"context"
	"net/http"

	"github.com/lmarceau/privastore-backend/api/responses"
	"github.com/lmarceau/privastore-backend/pkg/config"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

const envHeader = "X-PrivaStore-Env"

// Pinger is the liveness surface a backing dependency must expose.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing dependencies and reports per-component
// status. Any failing component flips the whole response to 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		components := map[string]string{}
		ready := true
		for name, dep := range deps {
			if dep == nil {
				components[name] = "not configured"
				ready = false
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				components[name] = err.Error()
				ready = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "component", name), "readiness check failed", err)
				}
				continue
			}
			components[name] = "ok"
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !ready {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status":     status,
			"components": components,
		})
	}
}
