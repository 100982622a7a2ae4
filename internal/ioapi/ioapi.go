// Package ioapi implements the REST API of the notebook mobile client:
// registration and login, species search and field notes.
package ioapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gnames/fungidb/internal/iometrics"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the REST API.
type Server struct {
	cfg      *config.Config
	store    store.Store
	validate *validator.Validate

	// bcryptCost is lowered in tests.
	bcryptCost int
}

// New creates a Server on top of a store.
func New(cfg *config.Config, s store.Store) *Server {
	return &Server{
		cfg:        cfg,
		store:      s,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Handler builds the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(metrics)

	r.Get("/health", s.health)
	r.Handle("/metrics", iometrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.Server.RateLimit, time.Minute))

		r.Post("/register", s.register)
		r.Post("/login", s.login)

		r.Route("/fungi", func(r chi.Router) {
			r.Get("/search", s.searchSpecies)
			r.Post("/", s.saveSpecies)
		})

		// cuaderno is the path used by released mobile clients
		r.Route("/notes", s.noteRoutes)
		r.Route("/cuaderno", s.noteRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (s *Server) noteRoutes(r chi.Router) {
	r.Get("/", s.notes)
	r.Post("/", s.createNote)
	r.Put("/{id}", s.updateNote)
	r.Delete("/{id}", s.deleteNote)
}

// Run serves the API until ctx is cancelled, then shuts the server down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("REST API listening", "addr", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return StartError(addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down REST API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("REST API shutdown failed", "error", err)
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		respondError(w, http.StatusServiceUnavailable, "Database is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metrics records Prometheus metrics of every request.
func metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		iometrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
		slog.Debug("HTTP request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
