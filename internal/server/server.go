// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it is the one place where config,
// OAuth providers, storage, services, handlers, and middleware get wired
// together. main.go stays minimal — it builds a Config and calls Start.
//
// DEPENDENCY FLOW:
//
//	config.Config → auth providers (one per OAuth backend)
//	              → sqlite.DB (optional) → AuthService → AuthHandler
//	              → PageHandler (templates)
//
// Each layer only receives what it needs: the service sees the repository
// interface, handlers see the service, and nothing below the server package
// knows which routes it is mounted on.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marco-souza/tremtec/internal/auth"
	"github.com/marco-souza/tremtec/internal/config"
	"github.com/marco-souza/tremtec/internal/handler"
	"github.com/marco-souza/tremtec/internal/middleware"
	"github.com/marco-souza/tremtec/internal/model"
	"github.com/marco-souza/tremtec/internal/repository"
	sqliteRepo "github.com/marco-souza/tremtec/internal/repository/sqlite"
	"github.com/marco-souza/tremtec/internal/routes"
	"github.com/marco-souza/tremtec/internal/service"
)

// Server holds the router and every resource the process owns.
//
// RESOURCE OWNERSHIP:
// The server owns the login directory's database connection (when one is
// configured) and closes it during graceful shutdown so the WAL gets
// flushed and the file lock released.
type Server struct {
	router      *chi.Mux
	cfg         config.Config
	templateDir string
	staticDir   string
	logger      *slog.Logger
	db          *sqliteRepo.DB // nil when no login directory is configured
}

// New wires the whole application together.
//
// The login directory is OPTIONAL: if the database cannot be opened the
// server logs a warning and runs stateless. Authentication never depends on
// storage — the session cookie is the session — so losing the directory
// only loses the record of who logged in, not the ability to log in.
func New(cfg config.Config, templateDir, staticDir string, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router:      chi.NewRouter(),
		cfg:         cfg,
		templateDir: templateDir,
		staticDir:   staticDir,
		logger:      logger,
	}

	if cfg.DBPath != "" {
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			logger.Warn("login directory unavailable, continuing stateless",
				slog.String("path", cfg.DBPath),
				slog.String("error", err.Error()),
			)
		} else {
			s.db = db
		}
	}

	if err := s.setupRoutes(); err != nil {
		if s.db != nil {
			s.db.Close()
		}
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE TABLE:
//
//	GET /                    → landing page (public)
//	GET /login               → login page; authenticated users bounce to /dashboard
//	GET /dashboard           → dashboard (private; anonymous users bounce to /login)
//	GET /static/*            → static assets
//	GET /api/healthcheck     → liveness probe
//	GET /api/me              → current session as JSON
//	GET /api/auth/github     → GitHub OAuth (begin AND callback, one path)
//	GET /api/auth/google     → Google OAuth (begin AND callback, one path)
//	GET /api/auth/logout     → clear session cookie, redirect to /login
//
// MIDDLEWARE ORDER MATTERS:
// RequestID and RealIP first so the logger sees them, Recoverer before our
// own middleware so a panic anywhere still becomes a 500, and AccessControl
// last so every route below it — pages and API alike — sees the decoded
// session in its request context.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.AccessControl)

	fileServer := http.FileServer(http.Dir(s.staticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// === Pages ===
	pages, err := handler.NewPageHandler(s.templateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get(routes.Home, pages.HandleLanding)
	s.router.Get(routes.Login, pages.HandleLogin)
	s.router.Get(routes.Dashboard, pages.HandleDashboard)

	// === Auth + API ===
	// The repository interface is nil when no directory is configured; the
	// service treats that as "don't record logins".
	var users repository.UserRepository
	if s.db != nil {
		users = s.db
	}
	authService := service.NewAuthService(users, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.cfg.IsProduction(), s.logger)

	github := auth.NewGitHub(s.cfg.GitHubID, s.cfg.GitHubSecret, s.cfg.CallbackURL(model.ProviderGitHub))
	google := auth.NewGoogle(s.cfg.GoogleID, s.cfg.GoogleSecret, s.cfg.CallbackURL(model.ProviderGoogle))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/healthcheck", handler.HandleHealthcheck)
		r.Get("/me", authHandler.HandleMe)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/github", authHandler.HandleOAuth(github))
			r.Get("/google", authHandler.HandleOAuth(google))
			r.Get("/logout", authHandler.HandleLogout)
		})
	})

	return nil
}

// Router exposes the assembled handler, mainly for tests that want to drive
// the full middleware + routing stack with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database.
func (s *Server) Start() error {
	defer func() {
		if s.db != nil {
			s.db.Close()
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("env", s.cfg.Env),
			slog.String("base_url", s.cfg.BaseURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
