// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import (
	"math/rand"
	"sort"
)

// Selector chooses comparison pairs by Thompson sampling: each title draws
// a score from its belief distribution and the two highest draws form the
// next pair. The current pair is cached and returned unchanged until a vote
// invalidates it, so refreshing a browser never burns a fresh pair.
type Selector struct {
	rng     *rand.Rand
	current []string
}

// NewSelector builds a selector around the given source of randomness.
// Callers inject a seeded rand for reproducible tests.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Next returns the current comparison pair, sampling a new one only when
// no cached pair is pending.
func (sel *Selector) Next(store *Store) (string, string, error) {
	if store.Len() < 2 {
		return "", "", ErrInsufficientData
	}
	if sel.current != nil {
		// The cached pair survives only while both titles still hold a
		// belief; a catalog change forces a fresh draw.
		if store.Has(sel.current[0]) && store.Has(sel.current[1]) {
			return sel.current[0], sel.current[1], nil
		}
		sel.current = nil
	}

	titles := store.Titles()
	type draw struct {
		title string
		score float64
	}
	draws := make([]draw, 0, len(titles))
	for _, t := range titles {
		b := store.Get(t)
		draws = append(draws, draw{
			title: t,
			score: b.Mu + sel.rng.NormFloat64()*b.Sigma,
		})
	}
	sort.Slice(draws, func(i, j int) bool { return draws[i].score > draws[j].score })

	sel.current = []string{draws[0].title, draws[1].title}
	return sel.current[0], sel.current[1], nil
}

// HasPending reports whether a cached pair is waiting to be served.
func (sel *Selector) HasPending() bool {
	return sel.current != nil
}

// Invalidate discards the cached pair so the next call samples fresh.
func (sel *Selector) Invalidate() {
	sel.current = nil
}
