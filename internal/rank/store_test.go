// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

func testParams() Params {
	return Params{Mu0: 25, Sigma0: 25.0 / 3, Beta: 25.0 / 6, Epsilon: 1e-4}
}

func TestStoreLazyPrior(t *testing.T) {
	t.Parallel()

	s := NewStore(testParams())
	b := s.Get("Heat")
	assert.Equal(t, 25.0, b.Mu)
	assert.InDelta(t, 25.0/3, b.Sigma, 1e-12)
	assert.Equal(t, 0, b.Games)
	assert.Equal(t, 0, b.Wins)
	assert.Equal(t, 1, s.Len())
}

func TestApplyOutcomeMovesMeans(t *testing.T) {
	t.Parallel()

	s := NewStore(testParams())
	s.ApplyOutcome("Heat", "Tenet")

	w := s.Get("Heat")
	l := s.Get("Tenet")

	assert.Greater(t, w.Mu, 25.0, "winner mean must rise")
	assert.Less(t, l.Mu, 25.0, "loser mean must fall")
	assert.Equal(t, 1, w.Games)
	assert.Equal(t, 1, w.Wins)
	assert.Equal(t, 1, l.Games)
	assert.Equal(t, 0, l.Wins)
}

func TestSigmaMonotoneWithFloor(t *testing.T) {
	t.Parallel()

	p := testParams()
	s := NewStore(p)

	prevW := s.Get("A").Sigma
	prevL := s.Get("B").Sigma
	for i := 0; i < 500; i++ {
		s.ApplyOutcome("A", "B")
		w := s.Get("A")
		l := s.Get("B")
		require.LessOrEqual(t, w.Sigma, prevW, "sigma must never increase (round %d)", i)
		require.LessOrEqual(t, l.Sigma, prevL, "sigma must never increase (round %d)", i)
		require.GreaterOrEqual(t, w.Sigma, p.Epsilon)
		require.GreaterOrEqual(t, l.Sigma, p.Epsilon)
		prevW, prevL = w.Sigma, l.Sigma
	}
}

func TestUpsetMovesMoreThanExpectedWin(t *testing.T) {
	t.Parallel()

	p := testParams()

	expected := NewStore(p)
	expected.Restore(map[string]models.Belief{
		"Strong": {Mu: 35, Sigma: p.Sigma0},
		"Weak":   {Mu: 15, Sigma: p.Sigma0},
	})
	expected.ApplyOutcome("Strong", "Weak")
	expectedShift := expected.Get("Strong").Mu - 35

	upset := NewStore(p)
	upset.Restore(map[string]models.Belief{
		"Strong": {Mu: 35, Sigma: p.Sigma0},
		"Weak":   {Mu: 15, Sigma: p.Sigma0},
	})
	upset.ApplyOutcome("Weak", "Strong")
	upsetShift := upset.Get("Weak").Mu - 15

	assert.Greater(t, upsetShift, expectedShift,
		"a surprising result must move beliefs more than an expected one")
}

func TestSyncRetainsSurvivors(t *testing.T) {
	t.Parallel()

	s := NewStore(testParams())
	s.ApplyOutcome("Heat", "Tenet")
	learned := s.Get("Heat")

	s.Sync([]string{"Heat", "Dune"})

	assert.Equal(t, learned, s.Get("Heat"), "surviving title keeps its belief")
	assert.Equal(t, 25.0, s.Get("Dune").Mu, "new title gets the prior")
	assert.Equal(t, 2, s.Len(), "departed title is dropped")
}

func TestResetReturnsToPrior(t *testing.T) {
	t.Parallel()

	s := NewStore(testParams())
	s.ApplyOutcome("Heat", "Tenet")
	s.Reset()

	for _, title := range []string{"Heat", "Tenet"} {
		b := s.Get(title)
		assert.Equal(t, 25.0, b.Mu)
		assert.InDelta(t, 25.0/3, b.Sigma, 1e-12)
		assert.Zero(t, b.Games)
		assert.Zero(t, b.Wins)
	}
}

func TestNormCDFBounds(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, normCDF(0), 1e-12)
	assert.InDelta(t, 1.0, normCDF(10), 1e-12)
	assert.InDelta(t, 0.0, normCDF(-10), 1e-12)
	assert.InDelta(t, 0.3989422804014327, normPDF(0), 1e-12)
}
