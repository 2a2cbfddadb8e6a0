// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func catalogMovies(titles ...string) []models.Movie {
	movies := make([]models.Movie, 0, len(titles))
	for _, title := range titles {
		movies = append(movies, models.Movie{Title: title, Display: title})
	}
	return movies
}

func jellyfinFixture(t *testing.T, items []JellyfinItem) *JellyfinClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/Users/"):
			_ = json.NewEncoder(w).Encode(itemsResponse{Items: items, TotalRecordCount: len(items)})
		case strings.Contains(r.URL.Path, "/Images/Primary"):
			_, _ = w.Write([]byte("jpegbytes"))
		case r.URL.Path == "/System/Ping":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return NewJellyfinClient(srv.URL, "test-key", "user-1", 5*time.Second)
}

func TestListMoviesQueryAndAuth(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		_ = json.NewEncoder(w).Encode(itemsResponse{})
	}))
	t.Cleanup(srv.Close)

	client := NewJellyfinClient(srv.URL+"/", "test-key", "user-1", 5*time.Second)
	_, err := client.ListMovies(context.Background(), ListOptions{
		Filters:   "IsUnplayed",
		CriticMin: floatPtr(6.5),
		YearMin:   intPtr(1990),
		YearMax:   intPtr(1999),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "/Users/user-1/Items", captured.URL.Path)
	assert.Equal(t, "test-key", captured.Header.Get("X-Emby-Token"))

	q := captured.URL.Query()
	assert.Equal(t, "Movie", q.Get("IncludeItemTypes"))
	assert.Equal(t, "true", q.Get("Recursive"))
	assert.Equal(t, "IsUnplayed", q.Get("Filters"))
	assert.Equal(t, "6.5", q.Get("MinCommunityRating"))
	assert.Equal(t, "1990-01-01", q.Get("MinPremiereDate"))
	assert.Equal(t, "1999-12-31", q.Get("MaxPremiereDate"))
}

func TestRuntimeFilterAppliedClientSide(t *testing.T) {
	t.Parallel()

	items := []JellyfinItem{
		{Name: "Short", RunTimeTicks: 80 * ticksPerMinute},
		{Name: "Medium", RunTimeTicks: 110 * ticksPerMinute},
		{Name: "Long", RunTimeTicks: 190 * ticksPerMinute},
	}
	client := jellyfinFixture(t, items)

	got, err := client.ListMovies(context.Background(), ListOptions{
		RuntimeMin: floatPtr(90),
		RuntimeMax: floatPtr(180),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Medium", got[0].Name)
}

func TestJellyfinErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client := NewJellyfinClient(srv.URL, "bad-key", "user-1", 5*time.Second)
	_, err := client.ListMovies(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Heat", "Heat"},
		{`Face/Off`, "FaceOff"},
		{`What: "If?"`, "What If"},
		{"  spaced   out  ", "spaced out"},
		{"", "untitled"},
		{`\/*?:"<>|`, "untitled"},
		{strings.Repeat("a", 200), strings.Repeat("a", 150)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeTitle(tc.in), "input %q", tc.in)
	}
}

func TestTranslateSkipsWithoutKeyOrForEnglish(t *testing.T) {
	t.Parallel()

	tr := NewTMDBTranslator("http://unused.invalid", "", time.Second, 16, time.Hour)
	item := JellyfinItem{Name: "Heat", ProviderIDs: map[string]string{"Tmdb": "949"}}

	_, ok := tr.Translate(context.Background(), item, "de", "")
	assert.False(t, ok, "no key configured and no override")

	withKey := NewTMDBTranslator("http://unused.invalid", "k", time.Second, 16, time.Hour)
	_, ok = withKey.Translate(context.Background(), item, "en", "")
	assert.False(t, ok, "english needs no translation")
	_, ok = withKey.Translate(context.Background(), item, "", "")
	assert.False(t, ok, "empty language needs no translation")
}

func TestTranslateByIDWithCache(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/movie/949", r.URL.Path)
		assert.Equal(t, "de", r.URL.Query().Get("language"))
		_ = json.NewEncoder(w).Encode(tmdbMovie{Title: "Heat (DE)"})
	}))
	t.Cleanup(srv.Close)

	tr := NewTMDBTranslator(srv.URL, "k", 5*time.Second, 16, time.Hour)
	item := JellyfinItem{Name: "Heat", ProviderIDs: map[string]string{"Tmdb": "949"}}

	for i := 0; i < 3; i++ {
		title, ok := tr.Translate(context.Background(), item, "de", "")
		require.True(t, ok)
		assert.Equal(t, "Heat (DE)", title)
	}
	assert.Equal(t, 1, hits, "repeat lookups must come from cache")
}

func TestTranslateSearchPrefersExactYear(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		_ = json.NewEncoder(w).Encode(tmdbSearchResponse{Results: []tmdbMovie{
			{Title: "Wrong Year", ReleaseDate: "2005-03-01"},
			{Title: "Right Year", ReleaseDate: "1995-12-15"},
		}})
	}))
	t.Cleanup(srv.Close)

	tr := NewTMDBTranslator(srv.URL, "k", 5*time.Second, 16, time.Hour)
	item := JellyfinItem{Name: "Heat", ProductionYear: 1995}

	title, ok := tr.Translate(context.Background(), item, "de", "")
	require.True(t, ok)
	assert.Equal(t, "Right Year", title)
}

func TestPosterFetchAndSkip(t *testing.T) {
	t.Parallel()

	client := jellyfinFixture(t, nil)
	dir := t.TempDir()
	store := NewPosterStore(dir, client, 100, 10)

	item := JellyfinItem{Name: "Heat", ID: "abc", ImageTags: map[string]string{"Primary": "tag1"}}

	file, err := store.Fetch(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "Heat.jpg", file)

	data, err := os.ReadFile(filepath.Join(dir, "Heat.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	// Second fetch is served from disk.
	file, err = store.Fetch(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "Heat.jpg", file)

	// No primary tag means no poster, not an error.
	file, err = store.Fetch(context.Background(), JellyfinItem{Name: "NoArt", ID: "x"})
	require.NoError(t, err)
	assert.Empty(t, file)
}

func TestPosterClear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.jpg"), []byte("x"), 0o644))

	store := NewPosterStore(dir, nil, 1, 1)
	require.NoError(t, store.Clear())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "movies.csv")
	movies := catalogMovies("Heat", "Tenet", "Dune")

	require.NoError(t, WriteCSV(path, movies))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Heat", got[0].Title)
	assert.Equal(t, "Dune", got[2].Title)
}

func TestServiceGenerate(t *testing.T) {
	t.Parallel()

	items := []JellyfinItem{
		{
			Name:            "Heat",
			ID:              "id-1",
			ProductionYear:  1995,
			RunTimeTicks:    170 * ticksPerMinute,
			CommunityRating: 8.3,
			IsHD:            true,
			ImageTags:       map[string]string{"Primary": "t1"},
			UserData:        &JellyfinUserData{Played: true},
		},
		{Name: "Tenet", ID: "id-2", ProductionYear: 2020},
	}
	client := jellyfinFixture(t, items)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "movies.csv")
	svc := NewService(
		client,
		NewTMDBTranslator("http://unused.invalid", "", time.Second, 16, time.Hour),
		NewPosterStore(filepath.Join(dir, "images"), client, 100, 10),
		csvPath,
	)

	movies, err := svc.Generate(context.Background(), GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, movies, 2)

	assert.Equal(t, "Heat", movies[0].Title)
	assert.Equal(t, "Heat", movies[0].Display)
	assert.Equal(t, "Heat.jpg", movies[0].Image)
	assert.Equal(t, 1995, movies[0].Year)
	assert.Equal(t, 170, movies[0].RuntimeMinutes)
	assert.InDelta(t, 8.3, movies[0].CriticRating, 1e-9)
	assert.True(t, movies[0].HD)
	assert.True(t, movies[0].Played)

	assert.Empty(t, movies[1].Image, "no poster tag means no image")

	exported, err := ReadCSV(csvPath)
	require.NoError(t, err)
	assert.Len(t, exported, 2)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	breaker := NewJellyfinBreakerClient(NewJellyfinClient(srv.URL, "k", "u", time.Second))

	for i := 0; i < 10; i++ {
		_, _ = breaker.ListMovies(context.Background(), ListOptions{})
	}
	_, err := breaker.ListMovies(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open", "breaker rejects once open")
}
