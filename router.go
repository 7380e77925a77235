package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/notekeeper/apperror"
	"github.com/user/notekeeper/auth"
	"github.com/user/notekeeper/config"
	_ "github.com/user/notekeeper/docs" // Generated Swagger docs
	"github.com/user/notekeeper/notes"
)

// newRouter assembles the HTTP API. The auth and notes groups are served both
// at the root and under /api.
func newRouter(cfg *config.AppConfig, ping func(context.Context) error, tokens auth.TokenVerifier, authHandlers *auth.Handlers, noteHandler *notes.NoteHandler) http.Handler {
	r := chi.NewRouter()

	// chi requires all middleware before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", cfg.Auth.TokenHeader},
		MaxAge:         300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "health check failed", "error", err)
			auth.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		auth.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	requireAuth := auth.TokenMiddleware(tokens, cfg.Auth.TokenHeader)
	mount := func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandlers.RegisterRoutes(r, requireAuth)
		})
		r.Route("/notes", func(r chi.Router) {
			r.Use(requireAuth)
			noteHandler.RegisterRoutes(r)
		})
	}
	mount(r)
	r.Route("/api", mount)

	return r
}

// recoverer turns a handler panic into a logged 500 response.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			auth.WriteError(w, r, apperror.NewInternalError("panic", fmt.Errorf("%v", rvr)))
		}()
		next.ServeHTTP(w, r)
	})
}
