// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package swipe

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
	"github.com/smiei/ranking-for-jellyfin/internal/state"
)

// Engine is the swipe session authority. Like the ranking engine it
// serializes every mutation behind one mutex and persists a snapshot
// before returning.
type Engine struct {
	mu sync.Mutex

	rng     *rand.Rand
	gateway state.Gateway

	movies     []models.Movie
	movieIndex map[string]models.Movie
	persons    []string
	progress   map[string]models.SwipeProgress
	likes      map[string]map[string]struct{}
	matches    []string
	matchSet   map[string]struct{}
	announced  map[string]struct{}
	pending    []string
	locked     bool
}

// NewEngine builds a swipe engine. A seed of zero selects a clock-based
// seed; any other value makes shuffles reproducible.
func NewEngine(seed int64, gateway state.Gateway) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		rng:     rand.New(rand.NewSource(seed)),
		gateway: gateway,
	}
	e.clearLocked()
	return e
}

// Restore loads a persisted swipe snapshot if one exists.
func (e *Engine) Restore() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, found, err := e.gateway.LoadSwipe()
	if err != nil {
		return false, fmt.Errorf("loading swipe snapshot: %w", err)
	}
	if !found {
		return false, nil
	}
	e.applySnapshotLocked(snap)

	logging.Info().
		Int("items", len(e.movies)).
		Int("persons", len(e.persons)).
		Int("matches", len(e.matches)).
		Msg("Restored swipe state")
	return true, nil
}

// Start opens a fresh session over the given items and participants.
// Every participant gets a freshly shuffled order.
func (e *Engine) Start(movies []models.Movie, persons []string) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()
	e.setMoviesLocked(movies)
	e.persons = append([]string(nil), persons...)
	e.reshuffleLocked()

	return e.snapshotLocked(), e.persistLocked()
}

// AddItem appends a new item to an open session. The whole session
// reshuffles so relative positions stay meaningful; the new item starts
// with an empty like set.
func (e *Engine) AddItem(movie models.Movie, addedBy string) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return models.SwipeSnapshot{}, ErrLocked
	}
	if _, exists := e.movieIndex[movie.Title]; exists {
		return models.SwipeSnapshot{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, movie.Title)
	}

	e.movies = append(e.movies, movie)
	e.movieIndex[movie.Title] = movie
	e.reshuffleLocked()

	logging.Info().Str("title", movie.Title).Str("added_by", addedBy).Msg("Swipe item added")
	return e.snapshotLocked(), e.persistLocked()
}

// RemoveItem drops an item from an open session, purging its like set and
// any match membership, then reshuffles all progress.
func (e *Engine) RemoveItem(title string) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return models.SwipeSnapshot{}, ErrLocked
	}
	if _, exists := e.movieIndex[title]; !exists {
		return models.SwipeSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownTitle, title)
	}

	delete(e.movieIndex, title)
	kept := e.movies[:0]
	for _, m := range e.movies {
		if m.Title != title {
			kept = append(kept, m)
		}
	}
	e.movies = kept

	delete(e.likes, title)
	if _, matched := e.matchSet[title]; matched {
		delete(e.matchSet, title)
		filtered := e.matches[:0]
		for _, m := range e.matches {
			if m != title {
				filtered = append(filtered, m)
			}
		}
		e.matches = filtered
	}
	e.reshuffleLocked()

	return e.snapshotLocked(), e.persistLocked()
}

// Decide records one participant's like or dislike for a title and
// advances their cursor. Decisions are accepted on locked sessions; the
// lock freezes the item list, not voting.
func (e *Engine) Decide(decision, title, person string) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	like, err := parseDecision(decision)
	if err != nil {
		return models.SwipeSnapshot{}, err
	}
	if _, exists := e.movieIndex[title]; !exists {
		return models.SwipeSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownTitle, title)
	}
	if !e.hasPersonLocked(person) {
		return models.SwipeSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownPerson, person)
	}

	if like {
		set, ok := e.likes[title]
		if !ok {
			set = make(map[string]struct{})
			e.likes[title] = set
		}
		set[person] = struct{}{}
		metrics.SwipeDecisionsTotal.WithLabelValues("like").Inc()

		if len(set) >= len(e.persons) {
			e.recordMatchLocked(title)
		}
	} else {
		// A dislike withdraws the like but never retracts a match
		// already announced.
		if set, ok := e.likes[title]; ok {
			delete(set, person)
			if len(set) == 0 {
				delete(e.likes, title)
			}
		}
		metrics.SwipeDecisionsTotal.WithLabelValues("dislike").Inc()
	}

	e.advanceCursorLocked(person)

	return e.snapshotLocked(), e.persistLocked()
}

// ResetProgress reshuffles every participant's order and rewinds cursors.
// Like and match sets survive; pair with ClearMatches for a full redo.
func (e *Engine) ResetProgress() (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reshuffleLocked()
	return e.snapshotLocked(), e.persistLocked()
}

// ClearMatches empties the like sets, match set, and notification queue.
func (e *Engine) ClearMatches() (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.likes = make(map[string]map[string]struct{})
	e.matches = nil
	e.matchSet = make(map[string]struct{})
	e.announced = make(map[string]struct{})
	e.pending = nil

	return e.snapshotLocked(), e.persistLocked()
}

// Confirm locks the item list. Confirming an already-locked session is a
// no-op.
func (e *Engine) Confirm() (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.locked = true
	return e.snapshotLocked(), e.persistLocked()
}

// ConfirmWith locks the session around replacement item and participant
// lists. Likes and matches are cleared and every participant starts over
// with a fresh shuffled order.
func (e *Engine) ConfirmWith(movies []models.Movie, persons []string) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()
	e.setMoviesLocked(movies)
	e.persons = append([]string(nil), persons...)
	e.reshuffleLocked()
	e.locked = true

	return e.snapshotLocked(), e.persistLocked()
}

// Reset discards the whole session.
func (e *Engine) Reset() (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearLocked()
	return e.snapshotLocked(), e.persistLocked()
}

// Replace installs a full snapshot, the bulk-update path for clients that
// reconcile a complete local state. Last writer wins at snapshot
// granularity.
func (e *Engine) Replace(snap models.SwipeSnapshot) (models.SwipeSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applySnapshotLocked(snap)
	return e.snapshotLocked(), e.persistLocked()
}

// DrainNotifications returns matches not yet announced and marks them
// announced. Each match is returned exactly once for the session.
func (e *Engine) DrainNotifications() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.pending
	e.pending = nil
	return out
}

// State returns the current snapshot.
func (e *Engine) State() models.SwipeSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Persist writes the current snapshot through the gateway. Used by the
// periodic autosaver.
func (e *Engine) Persist() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked()
}

func parseDecision(decision string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(decision)) {
	case "yes", "ja", "like":
		return true, nil
	case "no", "nein", "dislike":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrBadDecision, decision)
	}
}

func (e *Engine) hasPersonLocked(person string) bool {
	for _, p := range e.persons {
		if p == person {
			return true
		}
	}
	return false
}

func (e *Engine) recordMatchLocked(title string) {
	if _, seen := e.matchSet[title]; seen {
		return
	}
	e.matchSet[title] = struct{}{}
	e.matches = append(e.matches, title)
	metrics.SwipeMatchesTotal.Inc()

	if _, done := e.announced[title]; !done {
		e.announced[title] = struct{}{}
		e.pending = append(e.pending, title)
		logging.Info().Str("title", title).Msg("Swipe match")
	}
}

func (e *Engine) advanceCursorLocked(person string) {
	prog := e.progress[person]
	if prog.Cursor < len(prog.Order) {
		prog.Cursor++
	}
	prog.Done = prog.Cursor >= len(prog.Order)
	e.progress[person] = prog
}

// reshuffleLocked hands every participant a fresh permutation of the item
// list and rewinds their cursor.
func (e *Engine) reshuffleLocked() {
	e.progress = make(map[string]models.SwipeProgress, len(e.persons))
	for _, person := range e.persons {
		e.progress[person] = models.SwipeProgress{Order: e.shuffledOrderLocked()}
	}
}

// shuffledOrderLocked builds one fresh permutation of the item titles.
func (e *Engine) shuffledOrderLocked() []string {
	order := make([]string, 0, len(e.movies))
	for _, m := range e.movies {
		order = append(order, m.Title)
	}
	sort.Strings(order)
	e.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

func (e *Engine) setMoviesLocked(movies []models.Movie) {
	e.movies = append([]models.Movie(nil), movies...)
	e.movieIndex = make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		e.movieIndex[m.Title] = m
	}
}

func (e *Engine) clearLocked() {
	e.movies = nil
	e.movieIndex = make(map[string]models.Movie)
	e.persons = nil
	e.progress = make(map[string]models.SwipeProgress)
	e.likes = make(map[string]map[string]struct{})
	e.matches = nil
	e.matchSet = make(map[string]struct{})
	e.announced = make(map[string]struct{})
	e.pending = nil
	e.locked = false
}

func (e *Engine) applySnapshotLocked(snap models.SwipeSnapshot) {
	e.clearLocked()
	e.setMoviesLocked(snap.Movies)
	e.persons = append([]string(nil), snap.Persons...)
	for person, prog := range snap.Progress {
		e.progress[person] = models.SwipeProgress{
			Order:  append([]string(nil), prog.Order...),
			Cursor: prog.Cursor,
			Done:   prog.Done,
		}
	}
	for title, voters := range snap.Likes {
		set := make(map[string]struct{}, len(voters))
		for _, v := range voters {
			set[v] = struct{}{}
		}
		e.likes[title] = set
	}
	for _, title := range snap.Matches {
		e.matches = append(e.matches, title)
		e.matchSet[title] = struct{}{}
		// Persisted matches were announced before the save.
		e.announced[title] = struct{}{}
	}
	e.locked = snap.Locked

	// Participants missing a progress entry get a fresh shuffled order,
	// including when the snapshot carries progress for others.
	for _, person := range e.persons {
		if _, ok := e.progress[person]; !ok {
			e.progress[person] = models.SwipeProgress{Order: e.shuffledOrderLocked()}
		}
	}
}

func (e *Engine) snapshotLocked() models.SwipeSnapshot {
	movies := make([]models.Movie, len(e.movies))
	copy(movies, e.movies)

	progress := make(map[string]models.SwipeProgress, len(e.progress))
	for person, prog := range e.progress {
		progress[person] = models.SwipeProgress{
			Order:  append([]string(nil), prog.Order...),
			Cursor: prog.Cursor,
			Done:   prog.Done,
		}
	}

	likes := make(map[string][]string, len(e.likes))
	for title, set := range e.likes {
		voters := make([]string, 0, len(set))
		for v := range set {
			voters = append(voters, v)
		}
		sort.Strings(voters)
		likes[title] = voters
	}

	return models.SwipeSnapshot{
		Movies:   movies,
		Persons:  append([]string(nil), e.persons...),
		Progress: progress,
		Likes:    likes,
		Matches:  append([]string(nil), e.matches...),
		Locked:   e.locked,
	}
}

func (e *Engine) persistLocked() error {
	if err := e.gateway.SaveSwipe(e.snapshotLocked()); err != nil {
		metrics.SnapshotSavesTotal.WithLabelValues("swipe", "error").Inc()
		logging.Err(err).Msg("Failed to persist swipe snapshot")
		return fmt.Errorf("%w: %v", state.ErrPersist, err)
	}
	metrics.SnapshotSavesTotal.WithLabelValues("swipe", "success").Inc()
	return nil
}
