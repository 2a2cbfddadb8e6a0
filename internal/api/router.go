// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smiei/ranking-for-jellyfin/internal/config"
	"github.com/smiei/ranking-for-jellyfin/internal/middleware"
)

// Router builds the HTTP handler tree.
type Router struct {
	handler *Handler
	cfg     config.ServerConfig

	// posterDir is served as static content under /images/.
	posterDir string
}

// NewRouter builds the router around the handler set.
func NewRouter(handler *Handler, cfg config.ServerConfig, posterDir string) *Router {
	return &Router{
		handler:   handler,
		cfg:       cfg,
		posterDir: posterDir,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware stack, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints stay outside the rate limit so monitors never
	// trip it.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.RateLimitRequests, router.cfg.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Route("/rank", func(r chi.Router) {
			r.Get("/state", router.handler.RankState)
			r.Get("/pair", router.handler.RankPair)
			r.Post("/vote", router.handler.RankVote)
			r.Post("/reset", router.handler.RankReset)
			r.Post("/confirm", router.handler.RankConfirm)
		})

		r.Route("/swipe", func(r chi.Router) {
			r.Get("/state", router.handler.SwipeState)
			r.Post("/state", router.handler.SwipeStateReplace)
			r.Post("/start", router.handler.SwipeStart)
			r.Post("/action", router.handler.SwipeAction)
			r.Post("/reset", router.handler.SwipeReset)
			r.Post("/confirm", router.handler.SwipeConfirm)
			r.Post("/items", router.handler.SwipeAddItem)
			r.Delete("/items/{title}", router.handler.SwipeRemoveItem)
			r.Get("/matches/notifications", router.handler.SwipeMatchNotifications)
		})

		r.Post("/reset-all", router.handler.ResetAll)

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/generate", router.handler.CatalogGenerate)
			r.Get("/movies", router.handler.CatalogMovies)
		})

		r.Get("/client-config", router.handler.ClientConfig)
	})

	// Poster static files.
	if router.posterDir != "" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(router.posterDir)))
		r.Get("/images/*", fs.ServeHTTP)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}
