// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package services

import (
	"context"
	"time"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
)

// Persister is anything that can write its current state through the
// state gateway. Both engines implement it.
type Persister interface {
	Persist() error
}

// AutosaveService periodically re-persists the engines' snapshots. Every
// mutation already saves synchronously; the autosaver is a safety net for
// saves that failed with a warning, retrying them on an interval.
type AutosaveService struct {
	interval   time.Duration
	persisters []Persister
}

// NewAutosaveService builds an autosaver over the given persisters.
func NewAutosaveService(interval time.Duration, persisters ...Persister) *AutosaveService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AutosaveService{
		interval:   interval,
		persisters: persisters,
	}
}

// Serve implements suture.Service.
func (a *AutosaveService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final save on shutdown so the last mutations survive even
			// if their synchronous save failed.
			a.saveAll()
			return ctx.Err()
		case <-ticker.C:
			a.saveAll()
		}
	}
}

func (a *AutosaveService) saveAll() {
	for _, p := range a.persisters {
		if err := p.Persist(); err != nil {
			logging.Warn().Err(err).Msg("Autosave failed")
		}
	}
}

// String names the service in supervisor logs.
func (a *AutosaveService) String() string {
	return "snapshot-autosaver"
}
