// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// Service orchestrates a catalog build: Jellyfin listing, title
// translation, poster download, and CSV export.
type Service struct {
	jellyfin   JellyfinClientInterface
	translator *TMDBTranslator
	posters    *PosterStore
	csvPath    string
}

// NewService wires the catalog collaborators together.
func NewService(jellyfin JellyfinClientInterface, translator *TMDBTranslator, posters *PosterStore, csvPath string) *Service {
	return &Service{
		jellyfin:   jellyfin,
		translator: translator,
		posters:    posters,
		csvPath:    csvPath,
	}
}

// GenerateOptions control a catalog build.
type GenerateOptions struct {
	List ListOptions

	// Lang selects the display-title language; translation is skipped for
	// "" and "en".
	Lang string

	// TMDBKey optionally overrides the configured TMDB key for this build.
	TMDBKey string
}

// Generate builds a fresh catalog: the poster directory is cleared, the
// filtered Jellyfin listing is fetched, display titles are translated,
// posters are downloaded, and the title CSV is rewritten. Poster and
// translation failures degrade the affected movie, never the build.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) ([]models.Movie, error) {
	start := time.Now()

	if err := s.posters.Clear(); err != nil {
		return nil, err
	}

	items, err := s.jellyfin.ListMovies(ctx, opts.List)
	if err != nil {
		return nil, fmt.Errorf("listing jellyfin movies: %w", err)
	}

	movies := make([]models.Movie, 0, len(items))
	for _, item := range items {
		movie := s.toMovie(ctx, item, opts)

		image, err := s.posters.Fetch(ctx, item)
		if err != nil {
			logging.Warn().Err(err).Str("title", item.Name).Msg("Poster fetch failed")
		} else {
			movie.Image = image
		}

		movies = append(movies, movie)
	}

	if err := WriteCSV(s.csvPath, movies); err != nil {
		return nil, err
	}

	metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())
	metrics.CatalogItems.Set(float64(len(movies)))
	logging.Info().
		Int("movies", len(movies)).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog generated")
	return movies, nil
}

// List returns the live Jellyfin listing without touching posters or the
// CSV. Used by the movies endpoint.
func (s *Service) List(ctx context.Context, opts GenerateOptions) ([]models.Movie, error) {
	items, err := s.jellyfin.ListMovies(ctx, opts.List)
	if err != nil {
		return nil, fmt.Errorf("listing jellyfin movies: %w", err)
	}

	movies := make([]models.Movie, 0, len(items))
	for _, item := range items {
		movies = append(movies, s.toMovie(ctx, item, opts))
	}
	return movies, nil
}

// LoadCSV builds a catalog from the exported title CSV instead of a live
// Jellyfin listing. The file carries titles only, so posters and
// translation are skipped.
func (s *Service) LoadCSV() ([]models.Movie, error) {
	movies, err := ReadCSV(s.csvPath)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("movies", len(movies)).Str("path", s.csvPath).Msg("Catalog loaded from CSV")
	return movies, nil
}

// ClearPosters empties the poster directory. Called on reset-all.
func (s *Service) ClearPosters() error {
	return s.posters.Clear()
}

// HasTMDBKey reports whether a server-side TMDB key is configured.
func (s *Service) HasTMDBKey() bool {
	return s.translator.HasKey()
}

func (s *Service) toMovie(ctx context.Context, item JellyfinItem, opts GenerateOptions) models.Movie {
	movie := models.Movie{
		Title:        SanitizeTitle(item.Name),
		Display:      item.Name,
		Year:         item.ProductionYear,
		CriticRating: item.CommunityRating,
		HD:           item.IsHD,
	}
	movie.RuntimeMinutes = int(item.RuntimeMinutes())
	if item.UserData != nil {
		movie.Played = item.UserData.Played
	}
	if translated, ok := s.translator.Translate(ctx, item, opts.Lang, opts.TMDBKey); ok {
		movie.Display = translated
	}
	return movie
}
