// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package services contains suture.Service wrappers for the long-running
// components: the HTTP server and the periodic snapshot autosaver.
package services
