// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package rank implements the pairwise preference ranking engine.
//
// Every item carries a Gaussian skill belief (mu, sigma). A recorded vote
// between two items performs a closed-form Bayesian update of both beliefs:
// the winner's mean rises, the loser's falls, and both uncertainties shrink
// monotonically toward a configured floor. New comparison pairs are chosen
// by Thompson sampling over the current beliefs, which concentrates votes
// where the ranking is still uncertain while remaining non-deterministic
// enough to keep sessions fresh.
//
// The Engine serializes all mutation behind a single mutex; velocity here
// is human swipe speed, not machine throughput.
package rank
