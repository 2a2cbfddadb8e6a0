// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
)

// PosterStore downloads primary posters into a local directory, throttled
// so a catalog generate does not hammer the media server.
type PosterStore struct {
	dir     string
	client  JellyfinClientInterface
	limiter *rate.Limiter
}

// NewPosterStore builds a poster store writing into dir.
func NewPosterStore(dir string, client JellyfinClientInterface, perSecond float64, burst int) *PosterStore {
	if perSecond <= 0 {
		perSecond = 4
	}
	if burst < 1 {
		burst = 1
	}
	return &PosterStore{
		dir:     dir,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Dir returns the poster directory.
func (p *PosterStore) Dir() string {
	return p.dir
}

// Clear removes every file in the poster directory and recreates it.
func (p *PosterStore) Clear() error {
	if err := os.RemoveAll(p.dir); err != nil {
		return fmt.Errorf("clearing poster dir: %w", err)
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("creating poster dir: %w", err)
	}
	return nil
}

// Fetch downloads the poster for item unless a file for the title already
// exists. Returns the poster filename relative to the poster directory,
// or "" when the item has no poster.
func (p *PosterStore) Fetch(ctx context.Context, item JellyfinItem) (string, error) {
	tag := item.PrimaryImageTag()
	if tag == "" {
		metrics.PosterDownloadsTotal.WithLabelValues("absent").Inc()
		return "", nil
	}

	filename := SanitizeTitle(item.Name) + ".jpg"
	path := filepath.Join(p.dir, filename)
	if _, err := os.Stat(path); err == nil {
		metrics.PosterDownloadsTotal.WithLabelValues("cached").Inc()
		return filename, nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("poster rate limit wait: %w", err)
	}

	data, err := p.client.DownloadPrimaryImage(ctx, item.ID, tag)
	if err != nil {
		metrics.PosterDownloadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("downloading poster for %q: %w", item.Name, err)
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating poster dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		metrics.PosterDownloadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("writing poster for %q: %w", item.Name, err)
	}

	metrics.PosterDownloadsTotal.WithLabelValues("downloaded").Inc()
	logging.Debug().Str("title", item.Name).Str("file", filename).Msg("Poster downloaded")
	return filename, nil
}

// SanitizeTitle turns a movie title into a safe filename stem: filesystem
// metacharacters are stripped, whitespace collapses to single spaces, and
// the result is capped at 150 runes. An empty result becomes "untitled".
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")

	runes := []rune(cleaned)
	if len(runes) > 150 {
		cleaned = string(runes[:150])
		cleaned = strings.TrimSpace(cleaned)
	}
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}
