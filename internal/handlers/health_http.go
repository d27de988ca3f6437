package handlers

import (
	"net/http"

	"agencydesk/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health is the liveness probe. It answers as long as the process runs.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Ready is the readiness probe. It fails when the database is unreachable
// so the load balancer stops routing to this instance.
func Ready(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			utils.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
