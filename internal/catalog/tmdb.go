// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/smiei/ranking-for-jellyfin/internal/cache"
	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
)

// TMDBTranslator resolves localized display titles from TMDB. Lookups go
// by provider id first and fall back to a title search. Results are held
// in an in-process LRU so a regenerated catalog does not re-hit TMDB for
// every unchanged movie.
type TMDBTranslator struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.LRU
}

// NewTMDBTranslator builds a translator. apiKey may be empty; a request
// can still supply its own key per call.
func NewTMDBTranslator(baseURL, apiKey string, timeout time.Duration, cacheSize int, cacheTTL time.Duration) *TMDBTranslator {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &TMDBTranslator{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache.NewLRU(cacheSize, cacheTTL),
	}
}

// HasKey reports whether a TMDB key is configured server-side.
func (t *TMDBTranslator) HasKey() bool {
	return t.apiKey != ""
}

// tmdbMovie is the subset of a TMDB movie payload the translator reads.
type tmdbMovie struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

// Translate returns the localized title for a Jellyfin item, or ok=false
// when no translation is available. Translation requires a key (config or
// per-call override) and a non-English language.
func (t *TMDBTranslator) Translate(ctx context.Context, item JellyfinItem, lang, keyOverride string) (string, bool) {
	key := t.apiKey
	if keyOverride != "" {
		key = keyOverride
	}
	if key == "" || lang == "" || strings.EqualFold(lang, "en") {
		return "", false
	}

	if id := item.TMDBID(); id != "" {
		cacheKey := lang + ":id:" + id
		if title, ok := t.cache.Get(cacheKey); ok {
			metrics.TMDBLookupsTotal.WithLabelValues("cache_hit").Inc()
			return title, title != ""
		}
		title := t.lookupByID(ctx, key, lang, id)
		t.cache.Add(cacheKey, title)
		return title, title != ""
	}

	cacheKey := fmt.Sprintf("%s:title:%s|%d", lang, strings.ToLower(item.Name), item.ProductionYear)
	if title, ok := t.cache.Get(cacheKey); ok {
		metrics.TMDBLookupsTotal.WithLabelValues("cache_hit").Inc()
		return title, title != ""
	}
	title := t.lookupBySearch(ctx, key, lang, item.Name, item.ProductionYear)
	t.cache.Add(cacheKey, title)
	return title, title != ""
}

// lookupByID resolves a title through GET /movie/{id}. An empty return
// means the lookup failed; the failure is cached too so a broken id does
// not retry on every generate.
func (t *TMDBTranslator) lookupByID(ctx context.Context, apiKey, lang, id string) string {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("language", lang)

	var movie tmdbMovie
	if err := t.getJSON(ctx, "/movie/"+url.PathEscape(id), params, &movie); err != nil {
		metrics.TMDBLookupsTotal.WithLabelValues("error").Inc()
		logging.Debug().Err(err).Str("tmdb_id", id).Msg("TMDB id lookup failed")
		return ""
	}
	metrics.TMDBLookupsTotal.WithLabelValues("id").Inc()
	return movie.Title
}

// lookupBySearch resolves a title through GET /search/movie, preferring a
// result whose release year matches exactly, else the first result.
func (t *TMDBTranslator) lookupBySearch(ctx context.Context, apiKey, lang, name string, year int) string {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("language", lang)
	params.Set("query", name)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var search tmdbSearchResponse
	if err := t.getJSON(ctx, "/search/movie", params, &search); err != nil {
		metrics.TMDBLookupsTotal.WithLabelValues("error").Inc()
		logging.Debug().Err(err).Str("title", name).Msg("TMDB search failed")
		return ""
	}
	if len(search.Results) == 0 {
		metrics.TMDBLookupsTotal.WithLabelValues("miss").Inc()
		return ""
	}

	if year > 0 {
		prefix := strconv.Itoa(year) + "-"
		for _, result := range search.Results {
			if strings.HasPrefix(result.ReleaseDate, prefix) {
				metrics.TMDBLookupsTotal.WithLabelValues("search").Inc()
				return result.Title
			}
		}
	}
	metrics.TMDBLookupsTotal.WithLabelValues("search").Inc()
	return search.Results[0].Title
}

func (t *TMDBTranslator) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := t.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tmdb response: %w", err)
	}
	return nil
}
