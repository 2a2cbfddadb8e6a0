// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package state

import (
	"sync"

	"github.com/goccy/go-json"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// MemoryStore implements Gateway entirely in memory. Used for tests and for
// ephemeral deployments that do not need state to survive a restart.
// Snapshots are stored as marshaled JSON so the round-trip matches the
// durable store byte for byte.
type MemoryStore struct {
	mu    sync.Mutex
	rank  []byte
	swipe []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadRank loads the ranking snapshot. Absence is (zero, false, nil).
func (s *MemoryStore) LoadRank() (models.RankSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap models.RankSnapshot
	if s.rank == nil {
		return snap, false, nil
	}
	if err := json.Unmarshal(s.rank, &snap); err != nil {
		return models.RankSnapshot{}, false, err
	}
	return snap, true, nil
}

// SaveRank stores the ranking snapshot.
func (s *MemoryStore) SaveRank(snap models.RankSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rank = data
	return nil
}

// LoadSwipe loads the swipe snapshot. Absence is (zero, false, nil).
func (s *MemoryStore) LoadSwipe() (models.SwipeSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap models.SwipeSnapshot
	if s.swipe == nil {
		return snap, false, nil
	}
	if err := json.Unmarshal(s.swipe, &snap); err != nil {
		return models.SwipeSnapshot{}, false, err
	}
	return snap, true, nil
}

// SaveSwipe stores the swipe snapshot.
func (s *MemoryStore) SaveSwipe(snap models.SwipeSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swipe = data
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
