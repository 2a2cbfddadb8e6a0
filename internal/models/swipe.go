// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package models

// SwipeProgress tracks one participant's position in their personal shuffled
// viewing order. Cursor uses the wire name "idx" for compatibility with the
// existing clients.
type SwipeProgress struct {
	Order  []string `json:"order"`
	Cursor int      `json:"idx"`
	Done   bool     `json:"done"`
}

// SwipeSnapshot is the full view of the shared swipe session returned by
// every swipe operation.
type SwipeSnapshot struct {
	Movies   []Movie                  `json:"movies"`
	Persons  []string                 `json:"persons"`
	Progress map[string]SwipeProgress `json:"progress"`
	Likes    map[string][]string      `json:"likes"`
	Matches  []string                 `json:"matches"`
	Locked   bool                     `json:"locked"`
}
