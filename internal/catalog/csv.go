// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

// WriteCSV exports the catalog titles to path as a single-column CSV, the
// format the companion tooling consumes. The file is replaced atomically
// via a temp file in the same directory.
func WriteCSV(path string, movies []models.Movie) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating csv dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "movies-*.csv")
	if err != nil {
		return fmt.Errorf("creating csv temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"title"}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, m := range movies {
		if err := w.Write([]string{m.Title}); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flushing csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing csv temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing csv: %w", err)
	}
	return nil
}

// ReadCSV loads titles from a single-column CSV, skipping a "title"
// header row when present. Used for catalogs that come from a file
// instead of a live Jellyfin listing.
func ReadCSV(path string) ([]models.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	movies := make([]models.Movie, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if i == 0 && row[0] == "title" {
			continue
		}
		movies = append(movies, models.Movie{Title: row[0], Display: row[0]})
	}
	return movies, nil
}
