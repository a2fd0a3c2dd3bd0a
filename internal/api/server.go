// Package api exposes the worktime services over HTTP/JSON under /api/v1.
// Authentication happens upstream; the gateway forwards the verified
// caller in headers.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/worktime/internal/service"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Services is the set of use cases the API dispatches to.
type Services struct {
	Sessions  service.SessionService
	Summaries service.SummaryService
	Projects  service.ProjectService
	Users     service.UserService
}

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

type Options struct {
	UserHeader  string
	RoleHeader  string
	CORSOrigins []string
	Health      HealthFunc
	Logger      *slog.Logger
}

type Server struct {
	services Services
	opts     Options
	logger   *slog.Logger
	router   *mux.Router
}

func NewServer(services Services, opts Options) *Server {
	if opts.UserHeader == "" {
		opts.UserHeader = "X-User-Id"
	}
	if opts.RoleHeader == "" {
		opts.RoleHeader = "X-User-Role"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		services: services,
		opts:     opts,
		logger:   logger.With("component", "api"),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.identityMiddleware)

	authed.HandleFunc("/work-sessions/start", s.startSession).Methods(http.MethodPost)
	authed.HandleFunc("/work-sessions/stop/{sessionId:[0-9]+}", s.stopSession).Methods(http.MethodPost)
	authed.HandleFunc("/work-sessions/summary", s.userSummary).Methods(http.MethodGet)
	authed.HandleFunc("/work-sessions/summary/all", s.allUsersSummary).Methods(http.MethodGet)
	authed.HandleFunc("/work-sessions/{sessionId:[0-9]+}", s.getSession).Methods(http.MethodGet)
	authed.HandleFunc("/work-sessions", s.listSessions).Methods(http.MethodGet)

	authed.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	authed.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{projectId:[0-9]+}/work-sessions", s.projectSessions).Methods(http.MethodGet)

	authed.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", s.opts.UserHeader, s.opts.RoleHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return requestIDMiddleware(s.accessLog(c.Handler(s.router)))
}

// ServeConfig holds the http.Server limits.
type ServeConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg ServeConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}
	return s.Serve(ctx, ln, cfg)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg ServeConfig) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.ReadTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.opts.Health(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
