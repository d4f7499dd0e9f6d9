package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visa-pathway-workers/internal/common/database"
)

// newServeMux exposes liveness, readiness and Prometheus metrics. /ready
// answers 503 while any dependency fails its ping.
func newServeMux(deps map[string]database.Pinger, now func() time.Time) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failed := database.CheckAll(ctx, deps)
		if len(failed) == 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status": "ready",
				"time":   now().Format(time.RFC3339),
			})
			return
		}

		reasons := make(map[string]string, len(failed))
		for name, err := range failed {
			reasons[name] = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"time":   now().Format(time.RFC3339),
			"failed": reasons,
		})
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
