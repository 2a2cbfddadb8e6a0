// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package api provides the HTTP surface: a Chi router over the ranking
// engine, swipe engine, and catalog service, with every response wrapped
// in the standard {status, data, metadata, error} envelope.
package api
