// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import (
	"sort"
	"strings"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// CoverageTracker records which unordered item pairs have received at
// least one vote, overall and per voter.
type CoverageTracker struct {
	itemCount int
	overall   map[string]struct{}
	byVoter   map[string]map[string]struct{}
}

// NewCoverageTracker builds a tracker for a catalog of itemCount items.
func NewCoverageTracker(itemCount int) *CoverageTracker {
	return &CoverageTracker{
		itemCount: itemCount,
		overall:   make(map[string]struct{}),
		byVoter:   make(map[string]map[string]struct{}),
	}
}

// pairKey canonicalizes an unordered pair. The NUL separator cannot occur
// in a title, so distinct pairs never collide.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Observe records a vote on the pair (a, b) by voter.
func (c *CoverageTracker) Observe(a, b, voter string) {
	key := pairKey(a, b)
	c.overall[key] = struct{}{}
	if voter == "" {
		return
	}
	set, ok := c.byVoter[voter]
	if !ok {
		set = make(map[string]struct{})
		c.byVoter[voter] = set
	}
	set[key] = struct{}{}
}

// Reset clears all recorded pairs and adopts a new item count.
func (c *CoverageTracker) Reset(itemCount int) {
	c.itemCount = itemCount
	c.overall = make(map[string]struct{})
	c.byVoter = make(map[string]map[string]struct{})
}

// TotalPairs is the number of distinct unordered pairs in the catalog.
func (c *CoverageTracker) TotalPairs() int {
	return c.itemCount * (c.itemCount - 1) / 2
}

// Snapshot reports overall coverage.
func (c *CoverageTracker) Snapshot() models.Coverage {
	return coverageOf(len(c.overall), c.TotalPairs())
}

// SnapshotFor reports a single voter's coverage.
func (c *CoverageTracker) SnapshotFor(voter string) models.Coverage {
	return coverageOf(len(c.byVoter[voter]), c.TotalPairs())
}

// ByVoter reports coverage for every voter seen so far.
func (c *CoverageTracker) ByVoter() map[string]models.Coverage {
	out := make(map[string]models.Coverage, len(c.byVoter))
	for voter := range c.byVoter {
		out[voter] = c.SnapshotFor(voter)
	}
	return out
}

// Pairs lists every covered pair, sorted, for persistence.
func (c *CoverageTracker) Pairs() []models.CoveredPair {
	return pairList(c.overall)
}

// PairsByVoter lists every voter's covered pairs, sorted, for persistence.
func (c *CoverageTracker) PairsByVoter() map[string][]models.CoveredPair {
	out := make(map[string][]models.CoveredPair, len(c.byVoter))
	for voter, set := range c.byVoter {
		out[voter] = pairList(set)
	}
	return out
}

// Restore rebuilds the tracker from persisted pair lists, so a pair voted
// on before a restart stays covered and a re-vote on it never counts as
// new.
func (c *CoverageTracker) Restore(itemCount int, overall []models.CoveredPair, byVoter map[string][]models.CoveredPair) {
	c.Reset(itemCount)
	for _, p := range overall {
		c.overall[pairKey(p.A, p.B)] = struct{}{}
	}
	for voter, pairs := range byVoter {
		set := make(map[string]struct{}, len(pairs))
		for _, p := range pairs {
			set[pairKey(p.A, p.B)] = struct{}{}
		}
		c.byVoter[voter] = set
	}
}

func pairList(set map[string]struct{}) []models.CoveredPair {
	out := make([]models.CoveredPair, 0, len(set))
	for key := range set {
		a, b, _ := strings.Cut(key, "\x00")
		out = append(out, models.CoveredPair{A: a, B: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func coverageOf(covered, total int) models.Coverage {
	cov := models.Coverage{CoveredPairs: covered, TotalPairs: total}
	if total > 0 {
		cov.Ratio = float64(covered) / float64(total)
	}
	return cov
}
