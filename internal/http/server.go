// Package http is the JSON API surface over the trip and ledger
// services.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"itinera/internal/middleware/ratelimit"
	"itinera/internal/middleware/security"
	"itinera/internal/middleware/trace"
	"itinera/internal/services"
)

type Server struct {
	http.Server

	trips  *services.TripService
	ledger *services.LedgerService

	traceMw  *trace.Middleware
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, trips *services.TripService, ledger *services.LedgerService) *Server {
	detector := security.NewDetector()
	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	traceMw := trace.NewMiddleware(detector.ExtractClientIP)

	s := &Server{
		trips:    trips,
		ledger:   ledger,
		traceMw:  traceMw,
		limiter:  limiter,
		detector: detector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/trips", s.handleListTrips)
	mux.HandleFunc("POST /api/trips", s.handleCreateTrip)
	mux.HandleFunc("GET /api/trips/{tripID}", s.handleGetTrip)
	mux.HandleFunc("DELETE /api/trips/{tripID}", s.handleDeleteTrip)

	mux.HandleFunc("POST /api/trips/{tripID}/days", s.handleAddDay)
	mux.HandleFunc("GET /api/trips/{tripID}/days/{day}", s.handleGetDay)

	mux.HandleFunc("POST /api/trips/{tripID}/days/{day}/activities", s.handleAddActivity)
	mux.HandleFunc("PUT /api/trips/{tripID}/days/{day}/activities/{activityID}", s.handleUpdateActivity)
	mux.HandleFunc("POST /api/trips/{tripID}/days/{day}/activities/{activityID}/move", s.handleMoveActivity)
	mux.HandleFunc("DELETE /api/trips/{tripID}/days/{day}/activities/{activityID}", s.handleDeleteActivity)

	mux.HandleFunc("GET /api/trips/{tripID}/ledger", s.handleLedger)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	rateLimited := limiter.Middleware(detector.ExtractClientIP, nil)

	var handler http.Handler = mux
	handler = traceMw.Middleware(handler)
	handler = rateLimited(handler)
	handler = s.flagSuspicious(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Metrics exposes the request counters collected by the trace
// middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.traceMw.GetMetrics()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// flagSuspicious logs requests matching known attack patterns. They
// are logged and counted, not blocked; the rate limiter handles abuse.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
