// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package middleware provides the HTTP middleware for the API router:
// request ID propagation and Prometheus request instrumentation.
package middleware
