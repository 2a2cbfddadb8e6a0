// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package models

// Movie is a single catalog entry produced by the catalog collaborator.
// Title is the stable key used throughout the ranking and swipe engines;
// the engines index by it and never mutate the other fields.
type Movie struct {
	// Title is the sanitized, stable identifier for the movie.
	Title string `json:"title"`

	// Display is the localized title shown in the UI. Falls back to Title
	// when no translation is available.
	Display string `json:"display"`

	// Image is the poster reference (file name under the poster directory
	// or an absolute URL for live listings).
	Image string `json:"image,omitempty"`

	Year           int     `json:"year,omitempty"`
	RuntimeMinutes int     `json:"runtimeMinutes,omitempty"`
	CriticRating   float64 `json:"criticRating,omitempty"`
	HD             bool    `json:"hd,omitempty"`
	Played         bool    `json:"played,omitempty"`
}

// Pair is a comparison pair handed to the presentation layer.
type Pair struct {
	ItemA Movie `json:"itemA"`
	ItemB Movie `json:"itemB"`
}
