// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package models

import (
	"time"
)

// APIResponse is the standardized envelope used by all HTTP endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": {"totalVotes": 12, ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Warning carries non-fatal conditions: the canonical case is a persistence
// save failure where the in-memory state remains authoritative and the
// mutation succeeded, but the caller may want to retry the save later.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Warning     string    `json:"warning,omitempty"`
}

// APIError is a structured error payload.
//
// Common codes:
//   - VALIDATION_ERROR: unknown title/voter, bad participant count, locked session
//   - INSUFFICIENT_DATA: fewer than two ranked items, or empty swipe list
//   - NO_STATE: no snapshot has been generated yet
//   - UPSTREAM_ERROR: Jellyfin or TMDB request failed
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
