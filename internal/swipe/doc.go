// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package swipe implements the group swipe session manager.
//
// A session holds a shared item list and a set of named participants.
// Each participant walks the list in their own shuffled order, recording
// like or dislike per item. When every participant has liked the same
// item it becomes a match; matches are announced exactly once and are
// never retracted, even if the item is later removed from the list.
package swipe
