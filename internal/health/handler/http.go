// Package handler serves liveness and readiness probes over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// pingTimeout bounds the readiness dependency check.
const pingTimeout = 2 * time.Second

// Pinger checks connectivity to a dependency (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server answers health probes for Kubernetes, load balancers, and CI.
type Server struct {
	pinger Pinger
}

// NewServer returns a health server. A nil pinger makes readiness always succeed.
func NewServer(pinger Pinger) *Server {
	return &Server{pinger: pinger}
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Liveness reports that the process is serving.
func (s *Server) Liveness(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Readiness reports whether the database is reachable.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := s.pinger.PingContext(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable", Error: "database unreachable"})
			return
		}
	}
	writeStatus(w, http.StatusOK, statusResponse{Status: "ok"})
}

func writeStatus(w http.ResponseWriter, code int, body statusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
