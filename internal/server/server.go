package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jonathan/recruit-tracker/internal/config"
	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/jonathan/recruit-tracker/internal/server/middleware"
	"github.com/jonathan/recruit-tracker/internal/server/ratelimit"
	"github.com/jonathan/recruit-tracker/internal/store"
)

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Store     *store.Store
	Config    *config.Config
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	RateLimit *ratelimit.Config // nil reads RATE_LIMIT_* from the environment
	Logger    *slog.Logger
	Now       func() time.Time
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a new server instance
func New(d Deps) (*Server, error) {
	if d.Store == nil || d.Config == nil {
		return nil, fmt.Errorf("server needs a store and a config")
	}
	if d.JWT == nil || d.Passwords == nil {
		return nil, fmt.Errorf("server needs JWT and password configuration")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.RateLimit == nil {
		d.RateLimit = ratelimit.LoadConfig()
	}

	jwtService := NewJWTService(d.JWT)
	jwtService.now = d.Now

	s := &Server{
		store:       d.Store,
		jwtService:  jwtService,
		authHandler: NewAuthHandler(d.Config, d.Passwords, jwtService, d.Logger),
		rateLimiter: ratelimit.NewLimiter(d.RateLimit),
		logger:      d.Logger,
		now:         d.Now,
	}

	s.httpServer = &http.Server{
		Addr:         d.Config.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(s.rateLimiter.Middleware)

	r.Get("/health", s.handleHealth)
	r.Post("/login", s.authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))

		r.Get("/me", s.handleMe)
		r.Get("/overview", s.handleOverview)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/charts/{chart}", s.handleChart)
		r.Get("/follow-ups", s.handleFollowUps)
		r.Get("/integrity", s.handleIntegrity)

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", s.handleListCandidates)
			r.Get("/options", s.handleCandidateOptions)
			s.mountTableRoutes(r, store.Candidates, s.handleCreateCandidate, s.handleUpdateCandidate)
		})
		r.Route("/interviews", func(r chi.Router) {
			r.Get("/", s.handleListInterviews)
			r.Get("/options", s.handleInterviewOptions)
			s.mountTableRoutes(r, store.Interviews, s.handleCreateInterview, s.handleUpdateInterview)
		})
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handleListClients)
			s.mountTableRoutes(r, store.Clients, s.handleCreateClient, s.handleUpdateClient)
		})
	})

	return r
}

// mountTableRoutes registers the routes every table shares. Writes require
// a role that can modify data.
func (s *Server) mountTableRoutes(r chi.Router, table store.TableName, create, update http.HandlerFunc) {
	r.Get("/export", s.handleExport(table))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireWriter)
		r.Post("/", create)
		r.Put("/{id}", update)
		r.Delete("/{id}", s.handleDelete(table))
		r.Post("/upload", s.handleUpload(table))
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// session loads a fresh snapshot for the authenticated operator.
func (s *Server) session(r *http.Request) (*dashboard.Session, error) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		return nil, err
	}
	return dashboard.NewSession(r.Context(), s.store, identity, s.now())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status. Internal errors are logged and not echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()), "error", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
