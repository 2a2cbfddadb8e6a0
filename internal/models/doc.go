// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package models defines the shared data structures exchanged between the
// catalog, ranking engine, swipe engine, persistence gateway, and the HTTP
// API. Types here are plain data: behavior lives in the owning packages.
package models
