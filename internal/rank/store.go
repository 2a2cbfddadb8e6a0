// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import (
	"math"
	"sort"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// Params holds the Gaussian belief model constants.
type Params struct {
	// Mu0 is the prior mean assigned to new items.
	Mu0 float64
	// Sigma0 is the prior standard deviation assigned to new items.
	Sigma0 float64
	// Beta is the performance noise added on each comparison.
	Beta float64
	// Epsilon is the numeric floor: sigma never drops below it and
	// denominators never reach zero.
	Epsilon float64
}

// Store holds the per-title skill beliefs. It is not safe for concurrent
// use; the owning Engine serializes access.
type Store struct {
	params  Params
	beliefs map[string]models.Belief
}

// NewStore returns an empty belief store.
func NewStore(params Params) *Store {
	return &Store{
		params:  params,
		beliefs: make(map[string]models.Belief),
	}
}

// Get returns the belief for title, lazily initializing it to the prior.
func (s *Store) Get(title string) models.Belief {
	if b, ok := s.beliefs[title]; ok {
		return b
	}
	b := models.Belief{Mu: s.params.Mu0, Sigma: s.params.Sigma0}
	s.beliefs[title] = b
	return b
}

// Has reports whether title already holds a belief, without creating one.
func (s *Store) Has(title string) bool {
	_, ok := s.beliefs[title]
	return ok
}

// Len reports the number of tracked titles.
func (s *Store) Len() int {
	return len(s.beliefs)
}

// Titles returns the tracked titles in lexicographic order. The stable
// ordering is what makes seeded pair selection reproducible.
func (s *Store) Titles() []string {
	titles := make([]string, 0, len(s.beliefs))
	for t := range s.beliefs {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Beliefs returns a copy of the belief map.
func (s *Store) Beliefs() map[string]models.Belief {
	out := make(map[string]models.Belief, len(s.beliefs))
	for t, b := range s.beliefs {
		out[t] = b
	}
	return out
}

// Restore replaces the store contents with a persisted belief map.
func (s *Store) Restore(beliefs map[string]models.Belief) {
	s.beliefs = make(map[string]models.Belief, len(beliefs))
	for t, b := range beliefs {
		s.beliefs[t] = b
	}
}

// Sync reconciles the store against a new title set: surviving titles keep
// their beliefs, new titles get the prior, departed titles are dropped.
func (s *Store) Sync(titles []string) {
	next := make(map[string]models.Belief, len(titles))
	for _, t := range titles {
		if b, ok := s.beliefs[t]; ok {
			next[t] = b
		} else {
			next[t] = models.Belief{Mu: s.params.Mu0, Sigma: s.params.Sigma0}
		}
	}
	s.beliefs = next
}

// Reset returns every tracked title to the prior and zeroes its counters.
func (s *Store) Reset() {
	for t := range s.beliefs {
		s.beliefs[t] = models.Belief{Mu: s.params.Mu0, Sigma: s.params.Sigma0}
	}
}

// ApplyOutcome records a decisive comparison and updates both beliefs in
// closed form. Sigma is clamped so it never increases and never drops
// below Epsilon.
func (s *Store) ApplyOutcome(winner, loser string) {
	w := s.Get(winner)
	l := s.Get(loser)

	eps := s.params.Epsilon
	c2 := 2*s.params.Beta*s.params.Beta + w.Sigma*w.Sigma + l.Sigma*l.Sigma
	c := math.Sqrt(c2)
	t := (w.Mu - l.Mu) / c

	v := normPDF(t) / math.Max(normCDF(t), eps)
	vw := v * (v + t)

	w.Mu += (w.Sigma * w.Sigma / c) * v
	l.Mu -= (l.Sigma * l.Sigma / c) * v

	w.Sigma = shrinkSigma(w.Sigma, c2, vw, eps)
	l.Sigma = shrinkSigma(l.Sigma, c2, vw, eps)

	w.Games++
	w.Wins++
	l.Games++

	s.beliefs[winner] = w
	s.beliefs[loser] = l
}

// shrinkSigma applies the variance update with the monotonicity and floor
// clamps: sigma' <= sigma and sigma' >= eps always hold.
func shrinkSigma(sigma, c2, vw, eps float64) float64 {
	factor := 1 - (sigma*sigma/c2)*vw
	if factor > 1 {
		factor = 1
	}
	if factor < eps {
		factor = eps
	}
	next := sigma * math.Sqrt(factor)
	if next < eps {
		next = eps
	}
	return next
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// normCDF is the standard normal cumulative distribution, via Erfc for
// accuracy in the far tails.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
