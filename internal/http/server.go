package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/moviestore/moviestore/internal/catalog"
	"github.com/moviestore/moviestore/internal/config"
	"github.com/moviestore/moviestore/internal/rental"
	"github.com/moviestore/moviestore/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	catalog *catalog.Service
	rentals *rental.Service
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, catalogSvc *catalog.Service, rentalSvc *rental.Service, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		catalog: catalogSvc,
		rentals: rentalSvc,
		logger:  logger,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleSearchMovies)
		r.Post("/", s.handleCreateMovie)
		r.Route("/{movieID}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.Put("/", s.handleUpdateMovie)
			r.Delete("/", s.handleDeleteMovie)
			r.Get("/categories", s.handleCategoriesForMovie)
			r.Post("/categories/{categoryID}", s.handleAssignCategory)
		})
	})
	s.router.Route("/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.Post("/", s.handleCreateCategory)
		r.Route("/{categoryID}", func(r chi.Router) {
			r.Put("/", s.handleRenameCategory)
			r.Delete("/", s.handleDeleteCategory)
			r.Get("/movies", s.handleMoviesForCategory)
		})
	})
	s.router.Route("/rentals", func(r chi.Router) {
		r.Get("/", s.handleListRentals)
		r.Post("/", s.handleRentMovies)
		r.Get("/quote", s.handleQuote)
		r.Get("/popular", s.handlePopular)
		r.Get("/user/{userID}", s.handleRentalsByUser)
		r.Get("/movie/{movieID}", s.handleRentalsByMovie)
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
