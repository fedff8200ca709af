package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthResponse reports the status of each backing dependency.
type HealthResponse map[string]HealthCheck

type HealthCheck struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := HealthResponse{
			"sqlite": {Status: "ok"},
			"redis":  {Status: "ok"},
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "name", "sqlite", "error", err)
			checks["sqlite"] = HealthCheck{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("health check failed", "name", "redis", "error", err)
			checks["redis"] = HealthCheck{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, checks)
	}
}
