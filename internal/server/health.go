package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthStatus reports the state of one backend dependency.
type HealthStatus struct {
	Status string `json:"status"`
}

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]HealthStatus{
			"database": {Status: "ok"},
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "name", "database", "error", err)
			checks["database"] = HealthStatus{Status: "error"}
			status = http.StatusServiceUnavailable
		}

		if rdb != nil {
			checks["redis"] = HealthStatus{Status: "ok"}
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Error("health check failed", "name", "redis", "error", err)
				checks["redis"] = HealthStatus{Status: "error"}
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(checks)
	}
}
