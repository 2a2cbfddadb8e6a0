// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package models

// Belief is the Gaussian skill estimate for a single movie. Mu is the
// estimated desirability, Sigma the remaining uncertainty. Sigma narrows as
// more comparisons are observed but never drops below the configured floor,
// so Thompson sampling always retains a seed of exploration.
type Belief struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
	Games int     `json:"games"`
	Wins  int     `json:"wins"`
}

// Coverage reports how much of the pairwise comparison space has been
// explored. An unordered pair counts as covered after its first vote in
// either direction.
type Coverage struct {
	CoveredPairs int     `json:"coveredPairs"`
	TotalPairs   int     `json:"totalPairs"`
	Ratio        float64 `json:"ratio"`
}

// CoveredPair identifies one unordered pair that has received at least
// one vote. Titles are stored in lexicographic order so the same pair
// always serializes identically.
type CoveredPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// RankSnapshot is the full, immutable view of the ranking state returned by
// every ranking operation. Callers never observe a half-updated state.
// The covered-pair lists carry the identity of every compared pair so a
// restored engine never re-counts a pair it has already seen.
type RankSnapshot struct {
	Movies          []Movie                  `json:"movies"`
	Beliefs         map[string]Belief        `json:"beliefs"`
	ComparisonCount map[string]int           `json:"comparisonCount"`
	TotalVotes      int                      `json:"totalVotes"`
	Coverage        Coverage                 `json:"coverage"`
	CoverageByVoter map[string]Coverage      `json:"coverageByVoter"`
	CoveredPairList []CoveredPair            `json:"coveredPairList,omitempty"`
	CoveredByVoter  map[string][]CoveredPair `json:"coveredByVoter,omitempty"`
	PersonCount     int                      `json:"personCount"`
	Confirmed       bool                     `json:"confirmed"`
}
