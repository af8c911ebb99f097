package handlers

import (
	"context"
	"net/http"
	"time"

	"rider-fleet-backend/pkg/utils"
)

// Pinger is anything whose connectivity can be checked
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness plus database reachability
func Health(db Pinger, hub ConnectionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status = http.StatusServiceUnavailable
				dbStatus = "unreachable"
			}
		}

		utils.RespondJSON(w, status, map[string]interface{}{
			"status":      http.StatusText(status),
			"database":    dbStatus,
			"connections": hub.GetClientCount(),
		})
	}
}

// ConnectionCounter reports the number of open sockets
type ConnectionCounter interface {
	GetClientCount() int
}
