// Package control exposes the session start/stop HTTP surface, using plain
// net/http handlers the same way the teacher's adapters package wires
// health/readiness/metrics handlers: no framework, just ServeMux and
// encoding/json.
package control

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"telemetryd/internal/session"
)

type startRequest struct {
	CarID          *int64 `json:"car_id"`
	TrackID        string `json:"track_id"`
	TuningConfigID *int64 `json:"tuning_config_id,omitempty"`
}

type operationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewMux returns a ServeMux serving /session/start and /session/stop
// against registry.
func NewMux(registry *session.Registry, log *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/session/start", startHandler(registry, log))
	mux.HandleFunc("/session/stop", stopHandler(registry, log))
	return mux
}

func startHandler(registry *session.Registry, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.CarID == nil {
			writeError(w, http.StatusBadRequest, "car_id is required")
			return
		}
		if req.TrackID == "" {
			writeError(w, http.StatusBadRequest, "track_id is required")
			return
		}
		if err := registry.Start(r.Context(), *req.CarID, req.TrackID, req.TuningConfigID); err != nil {
			log.Error("session start failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to start session")
			return
		}
		log.Info("session started", "car_id", *req.CarID, "track_id", req.TrackID)
		writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "Session started"})
	}
}

func stopHandler(registry *session.Registry, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		registry.Stop()
		log.Info("session stopped")
		writeJSON(w, http.StatusOK, operationResponse{Status: "success", Message: "Session stopped"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, operationResponse{Status: "error", Message: msg})
}
