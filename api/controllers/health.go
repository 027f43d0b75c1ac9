package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/pickpackz-backend/api/responses"
	"github.com/angelmondragon/pickpackz-backend/pkg/config"
	"github.com/angelmondragon/pickpackz-backend/pkg/db"
	"github.com/angelmondragon/pickpackz-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/pickpackz-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PickPackz-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each hard dependency. Any failure marks the instance
// not-ready so the load balancer stops routing to it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	type check struct {
		name   string
		pinger interface {
			Ping(context.Context) error
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		w.Header().Set("X-PickPackz-Env", cfg.App.Env)

		checks := []check{}
		if dbP != nil {
			checks = append(checks, check{name: "postgres", pinger: dbP})
		}
		if redisP != nil {
			checks = append(checks, check{name: "redis", pinger: redisP})
		}

		status := map[string]string{}
		healthy := true
		for _, c := range checks {
			if err := c.pinger.Ping(ctx); err != nil {
				healthy = false
				status[c.name] = "down"
				if logg != nil {
					logCtx := logg.WithField(ctx, "dependency", c.name)
					logg.Error(logCtx, "health.ready.check_failed", err)
				}
				continue
			}
			status[c.name] = "up"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
