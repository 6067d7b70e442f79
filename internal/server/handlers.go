package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/upstream"
	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "ORB Scanner Realtime API",
		"status":    "running",
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Timestamp  string         `json:"timestamp"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Timestamp:  time.Now().Format(time.RFC3339),
		Components: make(map[string]any),
	}

	// Check feed link
	stats := s.relay.Stats()
	feed := map[string]any{
		"state":          string(stats.FeedState),
		"key_configured": s.cfg.FeedKeyConfigured,
	}
	if stats.LastFeedError != "" {
		feed["last_error"] = stats.LastFeedError
	}
	health.Components["feed"] = feed
	if stats.FeedState != upstream.StateReady {
		health.Status = "degraded"
	}

	health.Components["sessions"] = map[string]any{
		"active": stats.ActiveSessions,
	}

	// Check archive database
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}
