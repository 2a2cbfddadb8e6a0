// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
	if cfg.Rating.Sigma0 <= cfg.Rating.Epsilon {
		t.Error("sigma0 must be well above the epsilon floor")
	}
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"SERVER_PORT", "server.port"},
		{"JELLYFIN_API_KEY", "jellyfin.api_key"},
		{"TMDB_CACHE_TTL", "tmdb.cache_ttl"},
		{"LOG_LEVEL", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransform(tt.input); got != tt.expected {
				t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 6001\njellyfin:\n  url: http://media.local:8096\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SERVER_PORT", "7002")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7002 {
		t.Errorf("env must override file: port = %d, want 7002", cfg.Server.Port)
	}
	if cfg.Jellyfin.URL != "http://media.local:8096" {
		t.Errorf("file must override default: url = %s", cfg.Jellyfin.URL)
	}
	if cfg.TMDB.Timeout != 8*time.Second {
		t.Errorf("defaults must survive: tmdb timeout = %v", cfg.TMDB.Timeout)
	}
}

func TestValidateRejectsBadRatingConstants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sigma0", func(c *Config) { c.Rating.Sigma0 = 0 }},
		{"negative beta", func(c *Config) { c.Rating.Beta = -1 }},
		{"epsilon above sigma0", func(c *Config) { c.Rating.Epsilon = c.Rating.Sigma0 * 2 }},
		{"zero epsilon", func(c *Config) { c.Rating.Epsilon = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"missing storage path", func(c *Config) { c.Storage.Path = ""; c.Storage.InMemory = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
