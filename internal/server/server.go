package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hongminglow/blog-be/internal/apperr"
	"github.com/hongminglow/blog-be/internal/auth"
	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/http/handlers"
	"github.com/hongminglow/blog-be/internal/http/respond"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/middleware"
	"github.com/hongminglow/blog-be/internal/services"
	"github.com/hongminglow/blog-be/internal/storage"
)

const codeMethodNotAllowed = "METHOD_NOT_ALLOWED"

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
	users *services.UserDirectory
	admin config.AdminBootstrap
	log   logging.Logger
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, log logging.Logger) *Server {
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	users := services.NewUserDirectory(store, hasher, tokens, log)
	posts := services.NewPostService(store, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(r.Context(), log, w, apperr.NotFound())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, respond.ErrorBody{Error: codeMethodNotAllowed})
	})

	authenticate := middleware.Authenticate(tokens, store, log)
	requireAdmin := middleware.RequireAdmin(log)

	r.Route(cfg.APIPrefix, func(api chi.Router) {
		handlers.NewHealthHandler(time.Now()).Register(api)
		handlers.NewUsersHandler(users, log).Register(api, authenticate, requireAdmin)
		handlers.NewPostsHandler(posts, log).Register(api, authenticate)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer, users: users, admin: cfg.Admin, log: log}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Bootstrap provisions the configured administrator, if any.
func (s *Server) Bootstrap(ctx context.Context) error {
	if !s.admin.Enabled() {
		return nil
	}
	created, err := s.users.EnsureAdmin(ctx, s.admin.Name, s.admin.Email, s.admin.Password)
	if err != nil {
		return err
	}
	if created {
		s.log.Info(ctx, "bootstrap admin created", "email", s.admin.Email)
	}
	return nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
