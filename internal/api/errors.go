// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package api

import (
	"errors"
	"net/http"

	"github.com/smiei/ranking-for-jellyfin/internal/rank"
	"github.com/smiei/ranking-for-jellyfin/internal/state"
	"github.com/smiei/ranking-for-jellyfin/internal/swipe"
)

// API error codes used in the response envelope.
const (
	codeValidation       = "VALIDATION_ERROR"
	codeInsufficientData = "INSUFFICIENT_DATA"
	codeNoState          = "NO_STATE"
	codeUpstream         = "UPSTREAM_ERROR"
	codeInternal         = "INTERNAL_ERROR"
)

// persistWarning extracts the user-facing warning for a mutation whose
// snapshot save failed. The mutation itself succeeded; in-memory state is
// authoritative.
func persistWarning(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if errors.Is(err, state.ErrPersist) {
		return "snapshot save failed; state is held in memory and will be saved on the next successful write", true
	}
	return "", false
}

// engineErrorResponse maps a core engine error onto HTTP status, code, and
// message. Validation-class errors report 400, everything else 500.
func engineErrorResponse(err error) (int, string, string) {
	switch {
	case errors.Is(err, rank.ErrUnknownTitle),
		errors.Is(err, rank.ErrUnknownVoter),
		errors.Is(err, rank.ErrSameTitle),
		errors.Is(err, rank.ErrPersonCount),
		errors.Is(err, swipe.ErrUnknownTitle),
		errors.Is(err, swipe.ErrUnknownPerson),
		errors.Is(err, swipe.ErrBadDecision),
		errors.Is(err, swipe.ErrLocked),
		errors.Is(err, swipe.ErrDuplicateTitle):
		return http.StatusBadRequest, codeValidation, err.Error()
	case errors.Is(err, rank.ErrInsufficientData):
		return http.StatusConflict, codeInsufficientData, err.Error()
	default:
		return http.StatusInternalServerError, codeInternal, "internal error"
	}
}
