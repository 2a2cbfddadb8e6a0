// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

// Package state persists the ranking and swipe snapshots to durable
// storage. The engines treat the gateway as an opaque atomic call performed
// synchronously inside their serialized sections: a save either fully
// succeeds or fully fails, and a failure never invalidates the in-memory
// state.
package state

import (
	"errors"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// ErrPersist marks a snapshot save failure. The mutation that triggered the
// save has already been applied and the in-memory state is authoritative;
// callers surface the failure as a warning and may retry the save later.
var ErrPersist = errors.New("snapshot persistence failed")

// Gateway is the persistence contract for the two shared snapshots.
// Load methods report absence as (zero, false, nil), never as an error.
type Gateway interface {
	LoadRank() (models.RankSnapshot, bool, error)
	SaveRank(snap models.RankSnapshot) error
	LoadSwipe() (models.SwipeSnapshot, bool, error)
	SaveSwipe(snap models.SwipeSnapshot) error
	Close() error
}
