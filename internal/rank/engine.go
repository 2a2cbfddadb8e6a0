// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
	"github.com/smiei/ranking-for-jellyfin/internal/state"
)

const (
	minPersonCount     = 2
	maxPersonCount     = 5
	defaultPersonCount = 2
)

// Engine is the ranking session authority. All reads and writes go through
// a single mutex; every mutation snapshots to the state gateway before
// returning so a crash never loses more than the in-flight request.
type Engine struct {
	mu sync.Mutex

	store    *Store
	selector *Selector
	coverage *CoverageTracker
	gateway  state.Gateway

	movies          []models.Movie
	movieIndex      map[string]models.Movie
	comparisonCount map[string]int
	totalVotes      int
	personCount     int
	confirmed       bool
}

// NewEngine builds a ranking engine. A seed of zero selects a clock-based
// seed; any other value makes pair selection reproducible.
func NewEngine(params Params, seed int64, gateway state.Gateway) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		store:       NewStore(params),
		selector:    NewSelector(rand.New(rand.NewSource(seed))),
		coverage:    NewCoverageTracker(0),
		gateway:     gateway,
		movieIndex:  make(map[string]models.Movie),
		personCount: defaultPersonCount,
	}
	e.resetComparisonCounts()
	return e
}

// Restore loads a persisted snapshot if one exists. Returns true when
// state was restored.
func (e *Engine) Restore() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, found, err := e.gateway.LoadRank()
	if err != nil {
		return false, fmt.Errorf("loading rank snapshot: %w", err)
	}
	if !found {
		return false, nil
	}

	e.movies = snap.Movies
	e.movieIndex = make(map[string]models.Movie, len(snap.Movies))
	for _, m := range snap.Movies {
		e.movieIndex[m.Title] = m
	}
	e.store.Restore(snap.Beliefs)
	e.coverage.Restore(len(snap.Movies), snap.CoveredPairList, snap.CoveredByVoter)
	e.comparisonCount = snap.ComparisonCount
	if e.comparisonCount == nil {
		e.comparisonCount = make(map[string]int)
	}
	e.totalVotes = snap.TotalVotes
	e.personCount = snap.PersonCount
	if e.personCount < minPersonCount {
		e.personCount = defaultPersonCount
	}
	e.confirmed = snap.Confirmed
	e.selector.Invalidate()

	logging.Info().
		Int("movies", len(e.movies)).
		Int("total_votes", e.totalVotes).
		Msg("Restored ranking state")
	return true, nil
}

// LoadCatalog replaces the item set for a new session. Beliefs for titles
// that survive the reload are retained; vote counters, coverage, and the
// confirmed flag reset because they describe the old catalog.
func (e *Engine) LoadCatalog(movies []models.Movie, personCount int) (models.RankSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if personCount == 0 {
		personCount = defaultPersonCount
	}
	if personCount < minPersonCount || personCount > maxPersonCount {
		return models.RankSnapshot{}, ErrPersonCount
	}

	e.movies = movies
	e.movieIndex = make(map[string]models.Movie, len(movies))
	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		e.movieIndex[m.Title] = m
		titles = append(titles, m.Title)
	}
	e.store.Sync(titles)
	e.coverage.Reset(len(movies))
	e.personCount = personCount
	e.resetComparisonCounts()
	e.totalVotes = 0
	e.confirmed = false
	e.selector.Invalidate()

	metrics.CatalogItems.Set(float64(len(movies)))
	metrics.CoverageRatio.Set(0)

	return e.snapshotLocked(), e.persistLocked()
}

// Vote records winner over loser. The cached pair is invalidated so the
// next Pair call samples fresh. Voter is optional; when set it must be a
// known participant slot and its per-voter counters advance.
func (e *Engine) Vote(winner, loser, voter string) (models.RankSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if winner == loser {
		return models.RankSnapshot{}, ErrSameTitle
	}
	if _, ok := e.movieIndex[winner]; !ok {
		return models.RankSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownTitle, winner)
	}
	if _, ok := e.movieIndex[loser]; !ok {
		return models.RankSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownTitle, loser)
	}
	if voter != "" {
		if _, ok := e.comparisonCount[voter]; !ok {
			return models.RankSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownVoter, voter)
		}
	}

	e.store.ApplyOutcome(winner, loser)
	e.coverage.Observe(winner, loser, voter)
	e.totalVotes++
	if voter != "" {
		e.comparisonCount[voter]++
	}
	e.selector.Invalidate()

	metrics.VotesTotal.Inc()
	metrics.CoverageRatio.Set(e.coverage.Snapshot().Ratio)

	return e.snapshotLocked(), e.persistLocked()
}

// Pair returns the current comparison pair. Repeated calls without an
// intervening vote return the same pair.
func (e *Engine) Pair() (models.Pair, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcome := "sampled"
	if e.selector.HasPending() {
		outcome = "cached"
	}
	a, b, err := e.selector.Next(e.store)
	if err != nil {
		metrics.PairRequestsTotal.WithLabelValues("insufficient_data").Inc()
		return models.Pair{}, err
	}
	metrics.PairRequestsTotal.WithLabelValues(outcome).Inc()

	return models.Pair{ItemA: e.movieIndex[a], ItemB: e.movieIndex[b]}, nil
}

// Reset returns every belief to the prior and clears all counters. A
// personCount of zero keeps the current participant count.
func (e *Engine) Reset(personCount int) (models.RankSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if personCount == 0 {
		personCount = e.personCount
	}
	if personCount < minPersonCount || personCount > maxPersonCount {
		return models.RankSnapshot{}, ErrPersonCount
	}

	e.store.Reset()
	e.coverage.Reset(len(e.movies))
	e.personCount = personCount
	e.resetComparisonCounts()
	e.totalVotes = 0
	e.confirmed = false
	e.selector.Invalidate()

	metrics.CoverageRatio.Set(0)

	return e.snapshotLocked(), e.persistLocked()
}

// Confirm flips the ranking-confirmed flag. Confirming requires at least
// two items so an empty session can never be marked ranked.
func (e *Engine) Confirm(confirmed bool) (models.RankSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if confirmed && len(e.movies) < 2 {
		return models.RankSnapshot{}, ErrInsufficientData
	}
	e.confirmed = confirmed
	return e.snapshotLocked(), e.persistLocked()
}

// Snapshot returns a copy of the full session state.
func (e *Engine) Snapshot() models.RankSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Movies returns the current catalog.
func (e *Engine) Movies() []models.Movie {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Movie, len(e.movies))
	copy(out, e.movies)
	return out
}

// Persist writes the current snapshot through the gateway. Used by the
// periodic autosaver.
func (e *Engine) Persist() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked()
}

func (e *Engine) resetComparisonCounts() {
	e.comparisonCount = make(map[string]int, e.personCount)
	for i := 1; i <= e.personCount; i++ {
		e.comparisonCount[fmt.Sprintf("person%d", i)] = 0
	}
}

func (e *Engine) snapshotLocked() models.RankSnapshot {
	movies := make([]models.Movie, len(e.movies))
	copy(movies, e.movies)

	counts := make(map[string]int, len(e.comparisonCount))
	for k, v := range e.comparisonCount {
		counts[k] = v
	}

	return models.RankSnapshot{
		Movies:          movies,
		Beliefs:         e.store.Beliefs(),
		ComparisonCount: counts,
		TotalVotes:      e.totalVotes,
		Coverage:        e.coverage.Snapshot(),
		CoverageByVoter: e.coverage.ByVoter(),
		CoveredPairList: e.coverage.Pairs(),
		CoveredByVoter:  e.coverage.PairsByVoter(),
		PersonCount:     e.personCount,
		Confirmed:       e.confirmed,
	}
}

// persistLocked saves the snapshot and maps failures onto state.ErrPersist
// so handlers can serve the in-memory result with a warning instead of
// failing the request.
func (e *Engine) persistLocked() error {
	if err := e.gateway.SaveRank(e.snapshotLocked()); err != nil {
		metrics.SnapshotSavesTotal.WithLabelValues("rank", "error").Inc()
		logging.Err(err).Msg("Failed to persist ranking snapshot")
		return fmt.Errorf("%w: %v", state.ErrPersist, err)
	}
	metrics.SnapshotSavesTotal.WithLabelValues("rank", "success").Inc()
	return nil
}
