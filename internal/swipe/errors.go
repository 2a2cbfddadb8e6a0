// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package swipe

import "errors"

var (
	// ErrUnknownTitle is returned when a decision or removal references a
	// title outside the session item list.
	ErrUnknownTitle = errors.New("unknown title")

	// ErrUnknownPerson is returned when a decision references a
	// participant outside the session.
	ErrUnknownPerson = errors.New("unknown participant")

	// ErrBadDecision is returned for decision strings that are neither an
	// accepted like nor an accepted dislike.
	ErrBadDecision = errors.New("decision must be yes or no")

	// ErrLocked is returned when an item mutation arrives after the
	// session item list was confirmed.
	ErrLocked = errors.New("session is locked")

	// ErrDuplicateTitle is returned when an added item already exists.
	ErrDuplicateTitle = errors.New("title already present")

	// ErrNoSession is returned when an operation needs participants but
	// none are configured.
	ErrNoSession = errors.New("no active swipe session")
)
