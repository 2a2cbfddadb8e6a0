// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package config loads server configuration using Koanf v2 with layered
// sources. Precedence, highest wins:
//
//  1. Environment variables (JELLYFIN_URL, SERVER_PORT, ...)
//  2. Optional YAML config file (config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Jellyfin JellyfinConfig `koanf:"jellyfin"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Storage  StorageConfig  `koanf:"storage"`
	Rating   RatingConfig   `koanf:"rating"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`

	// RateLimitRequests requests per RateLimitWindow, keyed by client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// JellyfinConfig holds the connection to the Jellyfin media server.
// The catalog collaborator is read-only: it lists movies and fetches
// posters, nothing more.
type JellyfinConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	APIKey  string        `koanf:"api_key"`
	UserID  string        `koanf:"user_id"`
	Timeout time.Duration `koanf:"timeout"`
}

// TMDBConfig holds the optional TMDB title translation settings.
// Translation is skipped entirely when APIKey is empty.
type TMDBConfig struct {
	APIKey  string        `koanf:"api_key"`
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"`

	// CacheSize and CacheTTL bound the in-process translation cache.
	CacheSize int           `koanf:"cache_size" validate:"min=1"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// CatalogConfig holds local catalog artifact settings.
type CatalogConfig struct {
	PosterDir string `koanf:"poster_dir" validate:"required"`
	CSVPath   string `koanf:"csv_path" validate:"required"`

	// PosterRatePerSecond throttles poster downloads against Jellyfin.
	PosterRatePerSecond float64 `koanf:"poster_rate_per_second" validate:"min=0"`
	PosterBurst         int     `koanf:"poster_burst" validate:"min=1"`
}

// StorageConfig holds snapshot persistence settings.
type StorageConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is true.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// AutosaveInterval is how often the autosaver re-persists the current
	// snapshots as a safety net behind the synchronous per-mutation saves.
	AutosaveInterval time.Duration `koanf:"autosave_interval"`
}

// RatingConfig holds the belief model constants.
type RatingConfig struct {
	// Mu0 and Sigma0 initialize every new Belief.
	Mu0    float64 `koanf:"mu0"`
	Sigma0 float64 `koanf:"sigma0"`

	// Beta is the fixed performance variance of a single comparison.
	Beta float64 `koanf:"beta"`

	// Epsilon floors sigma and the update denominator so beliefs never
	// collapse to a deterministic tie.
	Epsilon float64 `koanf:"epsilon"`

	// Seed fixes the Thompson sampling random source when non-zero.
	// Zero selects a time-based seed.
	Seed int64 `koanf:"seed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. The rating
// constants follow the TrueSkill convention: sigma0 = mu0/3, beta = sigma0/2.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              5000,
			ShutdownTimeout:   10 * time.Second,
			AllowedOrigins:    []string{"*"},
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Jellyfin: JellyfinConfig{
			URL:     "http://localhost:8096",
			APIKey:  "",
			UserID:  "",
			Timeout: 15 * time.Second,
		},
		TMDB: TMDBConfig{
			APIKey:    "",
			URL:       "https://api.themoviedb.org/3",
			Timeout:   8 * time.Second,
			CacheSize: 2048,
			CacheTTL:  24 * time.Hour,
		},
		Catalog: CatalogConfig{
			PosterDir:           "images",
			CSVPath:             "movies.csv",
			PosterRatePerSecond: 4,
			PosterBurst:         2,
		},
		Storage: StorageConfig{
			Path:             "data/state",
			InMemory:         false,
			AutosaveInterval: 30 * time.Second,
		},
		Rating: RatingConfig{
			Mu0:     25.0,
			Sigma0:  25.0 / 3.0,
			Beta:    25.0 / 6.0,
			Epsilon: 1e-4,
			Seed:    0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for internal consistency beyond what
// the struct tags express.
func (c *Config) Validate() error {
	if err := validateTags(c); err != nil {
		return err
	}
	if c.Rating.Sigma0 <= 0 {
		return fmt.Errorf("rating.sigma0 must be positive, got %g", c.Rating.Sigma0)
	}
	if c.Rating.Beta <= 0 {
		return fmt.Errorf("rating.beta must be positive, got %g", c.Rating.Beta)
	}
	if c.Rating.Epsilon <= 0 || c.Rating.Epsilon >= c.Rating.Sigma0 {
		return fmt.Errorf("rating.epsilon must be in (0, sigma0), got %g", c.Rating.Epsilon)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required unless storage.in_memory is set")
	}
	return nil
}
