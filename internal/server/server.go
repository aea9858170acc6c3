package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"svcreg/internal/app"
	"svcreg/internal/registry"
	"svcreg/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the timeout for writing responses.
	DefaultWriteTimeout = 30 * time.Second
	// DefaultIdleTimeout is the idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second
)

// Server serves the readiness surface and the guarded demo endpoints.
type Server struct {
	app  *app.App
	http *http.Server
}

// New creates the HTTP server for the given application, listening on addr.
func New(a *app.App, addr string) *Server {
	s := &Server{app: a}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz/{service}", s.handleReady)
	mux.HandleFunc("GET /plan/{service}", s.handlePlan)
	mux.HandleFunc("GET /users/me", s.handleUserForToken)
	mux.HandleFunc("GET /users/{id}", s.handleUser)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	logging.Info("Server", "Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Server", "Shutting down")
	return s.http.Shutdown(ctx)
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// handleHealth reports the lifecycle state of every registered service. It
// never triggers initialization.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	states := s.app.Registry.States()

	resp := healthResponse{Status: "ok", Services: make(map[string]string, len(states))}
	code := http.StatusOK
	for name, state := range states {
		resp.Services[name] = state.String()
		if state == registry.StateFailed {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, resp)
}

// handleReady reports whether one service is Ready. Anything else, including
// an unknown name, is not ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("service")
	states := s.app.Registry.States()
	state, known := states[name]
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown service: " + name})
		return
	}
	code := http.StatusServiceUnavailable
	if state == registry.StateReady {
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]string{"service": name, "state": state.String()})
}

// handlePlan returns the initialization order that would be used for the
// given target, without initializing anything.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("service")
	order, err := s.app.Registry.Plan(name)
	if err != nil {
		code := http.StatusInternalServerError
		var unknown *registry.UnknownServiceError
		if errors.As(err, &unknown) {
			code = http.StatusNotFound
		}
		var cycle *registry.CircularDependencyError
		if errors.As(err, &cycle) {
			code = http.StatusConflict
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"target": name, "order": order})
}

// handleUser serves a user record through the guarded users service.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.app.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeGuardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleUserForToken resolves the bearer token to its user.
func (s *Server) handleUserForToken(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		return
	}
	user, err := s.app.Users.GetForToken(r.Context(), token)
	if err != nil {
		writeGuardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// writeGuardError maps errors from guarded operations to HTTP status codes.
// Initialization failures mean the dependency chain is unusable, which is a
// 503; everything else is treated as a bad request against a working service.
func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusNotFound
	var initErr *registry.InitializationError
	if errors.As(err, &initErr) {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Server", err, "Failed to encode response")
	}
}
