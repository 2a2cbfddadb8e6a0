// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package catalog acquires the movie catalog from a Jellyfin server.
//
// It lists movies with server-side filters, optionally translates display
// titles through TMDB, downloads primary posters to a local directory, and
// exports a title CSV. Jellyfin calls run behind a circuit breaker so a
// down media server degrades to errors instead of hung requests.
package catalog
