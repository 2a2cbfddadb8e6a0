// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/smiei/ranking-for-jellyfin/internal/catalog"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// queryFloat parses an optional float query parameter; nil when absent or
// unparseable.
func queryFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// queryInt parses an optional integer query parameter.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// CatalogService is the catalog surface the handlers need. Satisfied by
// *catalog.Service; narrowed to an interface so handler tests can stub the
// Jellyfin dependency.
type CatalogService interface {
	Generate(ctx context.Context, opts catalog.GenerateOptions) ([]models.Movie, error)
	List(ctx context.Context, opts catalog.GenerateOptions) ([]models.Movie, error)
	LoadCSV() ([]models.Movie, error)
	ClearPosters() error
	HasTMDBKey() bool
}

// generateOptions maps a GenerateRequest onto catalog options.
func generateOptions(req models.GenerateRequest) catalog.GenerateOptions {
	opts := catalog.GenerateOptions{
		List: catalog.ListOptions{
			RuntimeMin: req.RuntimeMin,
			RuntimeMax: req.RuntimeMax,
			CriticMin:  req.CriticMin,
			CriticMax:  req.CriticMax,
			YearMin:    req.YearMin,
			YearMax:    req.YearMax,
		},
		Lang:    req.Lang,
		TMDBKey: req.TMDBKey,
	}
	if len(req.Filters) > 0 {
		opts.List.Filters = req.Filters[0]
	}
	return opts
}

// CatalogGenerate builds a fresh catalog and loads it into the ranking
// engine, replacing the current session. The default source is the live
// Jellyfin listing; "csv" reloads the previously exported title file.
func (h *Handler) CatalogGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.GenerateRequest
	if r.ContentLength != 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}

	var (
		movies []models.Movie
		err    error
	)
	if req.Source == "csv" {
		movies, err = h.catalog.LoadCSV()
		if err != nil {
			respondError(w, http.StatusNotFound, codeNoState, "csv catalog not available", err)
			return
		}
	} else {
		movies, err = h.catalog.Generate(r.Context(), generateOptions(req))
		if err != nil {
			respondError(w, http.StatusBadGateway, codeUpstream, "catalog generation failed", err)
			return
		}
	}

	snap, err := h.rank.LoadCatalog(movies, req.PersonCount)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// CatalogMovies returns the live Jellyfin listing without mutating any
// session state. Filters arrive as query parameters.
func (h *Handler) CatalogMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := r.URL.Query()
	opts := catalog.GenerateOptions{
		List: catalog.ListOptions{
			RuntimeMin: queryFloat(q.Get("runtimeMin")),
			RuntimeMax: queryFloat(q.Get("runtimeMax")),
			CriticMin:  queryFloat(q.Get("criticMin")),
			CriticMax:  queryFloat(q.Get("criticMax")),
			YearMin:    queryInt(q.Get("yearMin")),
			YearMax:    queryInt(q.Get("yearMax")),
		},
		Lang:    q.Get("lang"),
		TMDBKey: q.Get("tmdbKey"),
	}
	switch q.Get("filters") {
	case "IsPlayed", "IsUnplayed":
		opts.List.Filters = q.Get("filters")
	case "":
	default:
		respondError(w, http.StatusBadRequest, codeValidation, "filters must be IsPlayed or IsUnplayed", nil)
		return
	}

	movies, err := h.catalog.List(r.Context(), opts)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "jellyfin listing failed", err)
		return
	}
	respondSuccess(w, http.StatusOK, movies, start, "")
}

// ClientConfig exposes the non-secret configuration the web client needs.
func (h *Handler) ClientConfig(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]bool{
		"tmdbKeyConfigured": h.catalog.HasTMDBKey(),
	}, time.Now(), "")
}
