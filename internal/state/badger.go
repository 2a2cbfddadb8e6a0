// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package state

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// Keys for the two snapshot blobs.
const (
	rankKey  = "state:rank"
	swipeKey = "state:swipe"
)

// BadgerStore implements Gateway using BadgerDB. Each snapshot is a single
// JSON blob under a fixed key, written in one transaction so readers never
// observe a torn snapshot.
type BadgerStore struct {
	db *badger.DB
}

// Open creates or opens a BadgerDB-backed store at the given directory.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open state store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// LoadRank loads the ranking snapshot. Absence is (zero, false, nil).
func (s *BadgerStore) LoadRank() (models.RankSnapshot, bool, error) {
	var snap models.RankSnapshot
	found, err := s.load(rankKey, &snap)
	return snap, found, err
}

// SaveRank stores the ranking snapshot atomically.
func (s *BadgerStore) SaveRank(snap models.RankSnapshot) error {
	return s.save(rankKey, snap)
}

// LoadSwipe loads the swipe snapshot. Absence is (zero, false, nil).
func (s *BadgerStore) LoadSwipe() (models.SwipeSnapshot, bool, error) {
	var snap models.SwipeSnapshot
	found, err := s.load(swipeKey, &snap)
	return snap, found, err
}

// SaveSwipe stores the swipe snapshot atomically.
func (s *BadgerStore) SaveSwipe(snap models.SwipeSnapshot) error {
	return s.save(swipeKey, snap)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) load(key string, out interface{}) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return true, nil
}

func (s *BadgerStore) save(key string, snap interface{}) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
