// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiei/ranking-for-jellyfin/internal/catalog"
	"github.com/smiei/ranking-for-jellyfin/internal/config"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
	"github.com/smiei/ranking-for-jellyfin/internal/rank"
	"github.com/smiei/ranking-for-jellyfin/internal/state"
	"github.com/smiei/ranking-for-jellyfin/internal/swipe"
)

// stubCatalog satisfies CatalogService without a live Jellyfin server.
type stubCatalog struct {
	movies    []models.Movie
	err       error
	csvMovies []models.Movie
	csvErr    error
	hasKey    bool
	cleared   int
}

func (s *stubCatalog) Generate(_ context.Context, _ catalog.GenerateOptions) ([]models.Movie, error) {
	return s.movies, s.err
}

func (s *stubCatalog) List(_ context.Context, _ catalog.GenerateOptions) ([]models.Movie, error) {
	return s.movies, s.err
}

func (s *stubCatalog) LoadCSV() ([]models.Movie, error) {
	return s.csvMovies, s.csvErr
}

func (s *stubCatalog) ClearPosters() error {
	s.cleared++
	return nil
}

func (s *stubCatalog) HasTMDBKey() bool { return s.hasKey }

type fixture struct {
	server  *httptest.Server
	rank    *rank.Engine
	swipe   *swipe.Engine
	catalog *stubCatalog
}

func testMovies(titles ...string) []models.Movie {
	movies := make([]models.Movie, 0, len(titles))
	for _, title := range titles {
		movies = append(movies, models.Movie{Title: title, Display: title})
	}
	return movies
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	params := rank.Params{Mu0: 25, Sigma0: 25.0 / 3, Beta: 25.0 / 6, Epsilon: 1e-4}
	rankEngine := rank.NewEngine(params, 1, state.NewMemoryStore())
	swipeEngine := swipe.NewEngine(1, state.NewMemoryStore())
	cat := &stubCatalog{hasKey: true}

	handler := NewHandler(rankEngine, swipeEngine, cat)
	router := NewRouter(handler, config.ServerConfig{
		AllowedOrigins:    []string{"*"},
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
	}, "")

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	return &fixture{server: srv, rank: rankEngine, swipe: swipeEngine, catalog: cat}
}

// doJSON performs a request and decodes the envelope.
func (f *fixture) doJSON(t *testing.T, method, path string, body interface{}) (int, models.APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var envelope models.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func decodeData(t *testing.T, envelope models.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		status, envelope := f.doJSON(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "success", envelope.Status, path)
	}
}

func TestRankStateBeforeGenerate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, envelope := f.doJSON(t, http.MethodGet, "/api/v1/rank/state", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeNoState, envelope.Error.Code)
}

func TestGenerateThenVoteFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.movies = testMovies("A", "B", "C")

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate",
		models.GenerateRequest{PersonCount: 3})
	require.Equal(t, http.StatusOK, status)

	var snap models.RankSnapshot
	decodeData(t, envelope, &snap)
	assert.Len(t, snap.Movies, 3)
	assert.Equal(t, 3, snap.PersonCount)
	assert.Equal(t, 3, snap.Coverage.TotalPairs)

	status, envelope = f.doJSON(t, http.MethodPost, "/api/v1/rank/vote",
		models.VoteRequest{Winner: "A", Loser: "B", Person: "person1"})
	require.Equal(t, http.StatusOK, status)

	decodeData(t, envelope, &snap)
	assert.Equal(t, 1, snap.TotalVotes)
	assert.Equal(t, 1, snap.Coverage.CoveredPairs)
	assert.Greater(t, snap.Beliefs["A"].Mu, snap.Beliefs["B"].Mu)
}

func TestVoteWithoutPersonCountsFirstSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.movies = testMovies("A", "B")
	_, _ = f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate", models.GenerateRequest{})

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/rank/vote",
		models.VoteRequest{Winner: "A", Loser: "B"})
	require.Equal(t, http.StatusOK, status)

	var snap models.RankSnapshot
	decodeData(t, envelope, &snap)
	assert.Equal(t, 1, snap.ComparisonCount["person1"])
	assert.Equal(t, 1, snap.CoverageByVoter["person1"].CoveredPairs)
}

func TestVoteValidationEnvelope(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.movies = testMovies("A", "B")
	_, _ = f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate", models.GenerateRequest{})

	// Missing loser fails at the validator.
	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/rank/vote",
		map[string]string{"winner": "A"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeValidation, envelope.Error.Code)

	// Unknown title fails at the engine.
	status, envelope = f.doJSON(t, http.MethodPost, "/api/v1/rank/vote",
		models.VoteRequest{Winner: "A", Loser: "Ghost"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeValidation, envelope.Error.Code)
}

func TestPairIdempotentOverHTTP(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.movies = testMovies("A", "B", "C", "D")
	_, _ = f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate", models.GenerateRequest{})

	_, first := f.doJSON(t, http.MethodGet, "/api/v1/rank/pair", nil)
	var pair1, pair2 models.Pair
	decodeData(t, first, &pair1)

	_, second := f.doJSON(t, http.MethodGet, "/api/v1/rank/pair", nil)
	decodeData(t, second, &pair2)
	assert.Equal(t, pair1, pair2)
}

func TestPairInsufficientData(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, envelope := f.doJSON(t, http.MethodGet, "/api/v1/rank/pair", nil)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeInsufficientData, envelope.Error.Code)
}

func TestSwipeActionFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.swipe.Start(testMovies("X", "Y"), []string{"p1", "p2"})
	require.NoError(t, err)

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/swipe/action",
		models.SwipeActionRequest{Decision: "yes", Title: "X", Person: "p1"})
	require.Equal(t, http.StatusOK, status)

	var snap models.SwipeSnapshot
	decodeData(t, envelope, &snap)
	assert.Equal(t, []string{"p1"}, snap.Likes["X"])

	status, envelope = f.doJSON(t, http.MethodPost, "/api/v1/swipe/action",
		models.SwipeActionRequest{Decision: "yes", Title: "X", Person: "p2"})
	require.Equal(t, http.StatusOK, status)
	decodeData(t, envelope, &snap)
	assert.Equal(t, []string{"X"}, snap.Matches)

	// Notifications drain once.
	_, envelope = f.doJSON(t, http.MethodGet, "/api/v1/swipe/matches/notifications", nil)
	var drain map[string][]string
	decodeData(t, envelope, &drain)
	assert.Equal(t, []string{"X"}, drain["matches"])

	_, envelope = f.doJSON(t, http.MethodGet, "/api/v1/swipe/matches/notifications", nil)
	decodeData(t, envelope, &drain)
	assert.Empty(t, drain["matches"])
}

func TestSwipeAddItemLocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.swipe.Start(testMovies("X"), []string{"p1", "p2"})
	require.NoError(t, err)
	_, err = f.swipe.Confirm()
	require.NoError(t, err)

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/swipe/items",
		models.SwipeAddItemRequest{Movie: models.Movie{Title: "Y"}})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeValidation, envelope.Error.Code)
	assert.Len(t, f.swipe.State().Movies, 1, "state unchanged")
}

func TestSwipeRemoveItemEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.swipe.Start(testMovies("X", "Y"), []string{"p1", "p2"})
	require.NoError(t, err)

	status, envelope := f.doJSON(t, http.MethodDelete, "/api/v1/swipe/items/X", nil)
	require.Equal(t, http.StatusOK, status)

	var snap models.SwipeSnapshot
	decodeData(t, envelope, &snap)
	require.Len(t, snap.Movies, 1)
	assert.Equal(t, "Y", snap.Movies[0].Title)
}

func TestSwipeConfirmWithReplacement(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/swipe/confirm",
		models.SwipeConfirmRequest{
			Movies:  testMovies("X", "Y", "Z"),
			Persons: []string{"p1", "p2", "p3"},
		})
	require.Equal(t, http.StatusOK, status)

	var snap models.SwipeSnapshot
	decodeData(t, envelope, &snap)
	assert.True(t, snap.Locked)
	assert.Len(t, snap.Movies, 3)
	assert.Len(t, snap.Progress, 3)
	assert.Empty(t, snap.Matches)
}

func TestResetAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.movies = testMovies("A", "B")
	_, _ = f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate", models.GenerateRequest{})
	_, _ = f.doJSON(t, http.MethodPost, "/api/v1/rank/vote",
		models.VoteRequest{Winner: "A", Loser: "B"})

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/reset-all", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, 1, f.catalog.cleared, "poster dir cleared")
	assert.Zero(t, f.rank.Snapshot().TotalVotes)
}

func TestClientConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, envelope := f.doJSON(t, http.MethodGet, "/api/v1/client-config", nil)

	var cfg map[string]bool
	decodeData(t, envelope, &cfg)
	assert.True(t, cfg["tmdbKeyConfigured"])
}

func TestCatalogGenerateUpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.err = errors.New("jellyfin down")

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate", nil)
	assert.Equal(t, http.StatusBadGateway, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeUpstream, envelope.Error.Code)
}

func TestCatalogGenerateFromCSV(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.catalog.err = errors.New("jellyfin down")
	f.catalog.csvMovies = testMovies("A", "B")

	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate",
		models.GenerateRequest{Source: "csv"})
	require.Equal(t, http.StatusOK, status)

	var snap models.RankSnapshot
	decodeData(t, envelope, &snap)
	assert.Len(t, snap.Movies, 2)

	// A missing file surfaces as no-state, not an upstream failure.
	f.catalog.csvMovies = nil
	f.catalog.csvErr = errors.New("no such file")
	status, envelope = f.doJSON(t, http.MethodPost, "/api/v1/catalog/generate",
		models.GenerateRequest{Source: "csv"})
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeNoState, envelope.Error.Code)
}

func TestSwipeStartEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	status, envelope := f.doJSON(t, http.MethodPost, "/api/v1/swipe/start",
		models.SwipeStartRequest{
			Movies:  testMovies("X", "Y"),
			Persons: []string{"p1", "p2"},
		})
	require.Equal(t, http.StatusOK, status)

	var snap models.SwipeSnapshot
	decodeData(t, envelope, &snap)
	assert.Len(t, snap.Movies, 2)
	require.Len(t, snap.Progress, 2)
	assert.ElementsMatch(t, []string{"X", "Y"}, snap.Progress["p1"].Order)
	assert.False(t, snap.Locked)

	// Persons are required.
	status, envelope = f.doJSON(t, http.MethodPost, "/api/v1/swipe/start",
		models.SwipeStartRequest{Movies: testMovies("X")})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, codeValidation, envelope.Error.Code)
}

func TestGenerateETagStable(t *testing.T) {
	t.Parallel()

	data := []byte(`{"status":"success"}`)
	assert.Equal(t, generateETag(data), generateETag(data))
	assert.NotEqual(t, generateETag(data), generateETag([]byte(`{"status":"error"}`)))
}
