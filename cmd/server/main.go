// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package main is the entry point for the Ranking for Jellyfin server.
//
// The server turns a Jellyfin movie library into a group ranking session
// and a swipe-to-match session for 2-5 people. It initializes components
// in the following order:
//
//  1. Configuration: Koanf v2 layered load (defaults, config.yaml, env)
//  2. Logging: global zerolog instance
//  3. State store: BadgerDB snapshots (or in-memory for ephemeral runs)
//  4. Engines: ranking and swipe engines, restored from the last snapshot
//  5. Catalog: Jellyfin client, TMDB translator, poster store
//  6. HTTP server and snapshot autosaver under a suture supervision tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
//
// Minimal setup against a local Jellyfin:
//
//	export JELLYFIN_URL=http://localhost:8096
//	export JELLYFIN_API_KEY=your-api-key
//	export JELLYFIN_USER_ID=your-user-id
//	./server
//
// Optional localized display titles:
//
//	export TMDB_API_KEY=your-tmdb-key
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, both engines persist a final snapshot, and the
// Badger store closes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/smiei/ranking-for-jellyfin/internal/api"
	"github.com/smiei/ranking-for-jellyfin/internal/catalog"
	"github.com/smiei/ranking-for-jellyfin/internal/config"
	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/rank"
	"github.com/smiei/ranking-for-jellyfin/internal/state"
	"github.com/smiei/ranking-for-jellyfin/internal/supervisor"
	"github.com/smiei/ranking-for-jellyfin/internal/supervisor/services"
	"github.com/smiei/ranking-for-jellyfin/internal/swipe"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})
	logging.Info().Str("version", version).Msg("Starting ranking-for-jellyfin")

	// State store.
	var gateway state.Gateway
	if cfg.Storage.InMemory {
		gateway = state.NewMemoryStore()
		logging.Warn().Msg("Using in-memory state store; snapshots will not survive restarts")
	} else {
		store, err := state.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening state store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Err(err).Msg("Failed to close state store")
			}
		}()
		gateway = store
	}

	// Engines, restored from the last snapshot if one exists.
	rankEngine := rank.NewEngine(rank.Params{
		Mu0:     cfg.Rating.Mu0,
		Sigma0:  cfg.Rating.Sigma0,
		Beta:    cfg.Rating.Beta,
		Epsilon: cfg.Rating.Epsilon,
	}, cfg.Rating.Seed, gateway)
	if _, err := rankEngine.Restore(); err != nil {
		return fmt.Errorf("restoring ranking state: %w", err)
	}

	swipeEngine := swipe.NewEngine(cfg.Rating.Seed, gateway)
	if _, err := swipeEngine.Restore(); err != nil {
		return fmt.Errorf("restoring swipe state: %w", err)
	}

	// Catalog collaborators.
	jellyfin := catalog.NewJellyfinBreakerClient(catalog.NewJellyfinClient(
		cfg.Jellyfin.URL,
		cfg.Jellyfin.APIKey,
		cfg.Jellyfin.UserID,
		cfg.Jellyfin.Timeout,
	))
	translator := catalog.NewTMDBTranslator(
		cfg.TMDB.URL,
		cfg.TMDB.APIKey,
		cfg.TMDB.Timeout,
		cfg.TMDB.CacheSize,
		cfg.TMDB.CacheTTL,
	)
	posters := catalog.NewPosterStore(
		cfg.Catalog.PosterDir,
		jellyfin,
		cfg.Catalog.PosterRatePerSecond,
		cfg.Catalog.PosterBurst,
	)
	catalogService := catalog.NewService(jellyfin, translator, posters, cfg.Catalog.CSVPath)

	// HTTP surface.
	handler := api.NewHandler(rankEngine, swipeEngine, catalogService)
	router := api.NewRouter(handler, cfg.Server, cfg.Catalog.PosterDir)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Setup(),
	}

	// Supervision tree: autosaver in the storage layer, HTTP server in
	// the API layer.
	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddStorageService(services.NewAutosaveService(cfg.Storage.AutosaveInterval, rankEngine, swipeEngine))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
