// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package models

// VoteRequest records the outcome of one pairwise comparison.
type VoteRequest struct {
	Winner string `json:"winner" validate:"required"`
	Loser  string `json:"loser" validate:"required,nefield=Winner"`
	Person string `json:"person"`
}

// RankResetRequest reinitializes all beliefs and coverage counters.
// PersonCount seeds the per-voter comparison counters.
type RankResetRequest struct {
	PersonCount int `json:"personCount" validate:"omitempty,min=2,max=5"`
}

// RankConfirmRequest marks the ranking as confirmed (or withdraws the
// confirmation when Confirmed is explicitly false).
type RankConfirmRequest struct {
	Confirmed *bool `json:"confirmed"`
}

// SwipeActionRequest is a single like/dislike decision.
type SwipeActionRequest struct {
	Decision string `json:"decision" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Person   string `json:"person" validate:"required"`
}

// SwipeStartRequest opens a fresh swipe session. Every participant starts
// with a freshly shuffled order and no likes.
type SwipeStartRequest struct {
	Movies  []Movie  `json:"movies" validate:"required,min=1"`
	Persons []string `json:"persons" validate:"required,min=2,max=5,dive,required"`
}

// SwipeStateRequest is the bulk replacement payload for POST swipe/state.
type SwipeStateRequest struct {
	Movies   []Movie                  `json:"movies"`
	Persons  []string                 `json:"persons" validate:"omitempty,min=2,max=5,dive,required"`
	Progress map[string]SwipeProgress `json:"progress"`
	Likes    map[string][]string      `json:"likes"`
	Matches  []string                 `json:"matches"`
	Locked   bool                     `json:"locked"`
}

// SwipeConfirmRequest locks the session, optionally replacing the item and
// participant lists in the same step. Likes and matches are cleared and all
// progress reshuffled.
type SwipeConfirmRequest struct {
	Movies  []Movie  `json:"movies"`
	Persons []string `json:"persons" validate:"omitempty,min=2,max=5,dive,required"`
}

// SwipeAddItemRequest appends one movie to an unlocked session.
type SwipeAddItemRequest struct {
	Movie   Movie  `json:"movie"`
	AddedBy string `json:"addedBy"`
}

// GenerateRequest drives catalog acquisition from Jellyfin. Pointer fields
// distinguish "not set" from zero values so bounds are only applied when the
// client sends them.
type GenerateRequest struct {
	Source      string   `json:"source" validate:"omitempty,oneof=jellyfin csv"`
	Filters     []string `json:"filters" validate:"omitempty,dive,oneof=IsPlayed IsUnplayed"`
	RuntimeMin  *float64 `json:"runtimeMin"`
	RuntimeMax  *float64 `json:"runtimeMax"`
	CriticMin   *float64 `json:"criticMin" validate:"omitempty,min=0,max=10"`
	CriticMax   *float64 `json:"criticMax" validate:"omitempty,min=0,max=10"`
	YearMin     *int     `json:"yearMin"`
	YearMax     *int     `json:"yearMax"`
	PersonCount int      `json:"personCount" validate:"omitempty,min=2,max=5"`
	Lang        string   `json:"lang"`
	TMDBKey     string   `json:"tmdbKey"`
}
