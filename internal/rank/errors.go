// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package rank

import "errors"

var (
	// ErrUnknownTitle is returned when a vote references a title outside
	// the current catalog.
	ErrUnknownTitle = errors.New("unknown title")

	// ErrInsufficientData is returned when fewer than two items are
	// available for pair selection.
	ErrInsufficientData = errors.New("need at least two items")

	// ErrSameTitle is returned when a vote names the same title as both
	// winner and loser.
	ErrSameTitle = errors.New("winner and loser must differ")

	// ErrUnknownVoter is returned when a vote names a participant slot
	// outside the current session.
	ErrUnknownVoter = errors.New("unknown voter")

	// ErrPersonCount rejects participant counts outside the supported range.
	ErrPersonCount = errors.New("person count must be between 2 and 5")
)
