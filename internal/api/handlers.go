// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smiei/ranking-for-jellyfin/internal/metrics"
	"github.com/smiei/ranking-for-jellyfin/internal/models"
	"github.com/smiei/ranking-for-jellyfin/internal/rank"
	"github.com/smiei/ranking-for-jellyfin/internal/swipe"
)

// Handler holds the engines and collaborators behind the HTTP surface.
type Handler struct {
	rank    *rank.Engine
	swipe   *swipe.Engine
	catalog CatalogService
}

// NewHandler builds the API handler set.
func NewHandler(rankEngine *rank.Engine, swipeEngine *swipe.Engine, catalog CatalogService) *Handler {
	return &Handler{
		rank:    rankEngine,
		swipe:   swipeEngine,
		catalog: catalog,
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now(), "")
}

// HealthReady reports readiness. The engines are always ready once
// constructed; readiness exists for orchestration parity.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, time.Now(), "")
}

// RankState returns the current ranking snapshot.
func (h *Handler) RankState(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	snap := h.rank.Snapshot()
	if len(snap.Movies) == 0 {
		respondError(w, http.StatusNotFound, codeNoState, "no catalog loaded; generate one first", nil)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// RankPair returns the current comparison pair. Repeated calls without a
// vote return the same pair.
func (h *Handler) RankPair(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	pair, err := h.rank.Pair()
	if err != nil {
		if errors.Is(err, rank.ErrInsufficientData) {
			respondError(w, http.StatusConflict, codeInsufficientData, "need at least two items to compare", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "pair selection failed", err)
		return
	}
	respondSuccess(w, http.StatusOK, pair, start, "")
}

// RankVote records one pairwise comparison outcome.
func (h *Handler) RankVote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.VoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	// A vote without a person counts toward the first participant slot.
	if req.Person == "" {
		req.Person = "person1"
	}

	snap, err := h.rank.Vote(req.Winner, req.Loser, req.Person)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// RankReset reinitializes every belief and counter.
func (h *Handler) RankReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.RankResetRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	snap, err := h.rank.Reset(req.PersonCount)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// RankConfirm flips the ranking-confirmed flag.
func (h *Handler) RankConfirm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.RankConfirmRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	confirmed := true
	if req.Confirmed != nil {
		confirmed = *req.Confirmed
	}

	snap, err := h.rank.Confirm(confirmed)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeState returns the current swipe snapshot.
func (h *Handler) SwipeState(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, h.swipe.State(), time.Now(), "")
}

// SwipeStateReplace installs a full snapshot from the client. Last writer
// wins at snapshot granularity.
func (h *Handler) SwipeStateReplace(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.SwipeStateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	snap, err := h.swipe.Replace(models.SwipeSnapshot{
		Movies:   req.Movies,
		Persons:  req.Persons,
		Progress: req.Progress,
		Likes:    req.Likes,
		Matches:  req.Matches,
		Locked:   req.Locked,
	})
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeStart opens a fresh session over the given items and participants,
// discarding any previous session.
func (h *Handler) SwipeStart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.SwipeStartRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	snap, err := h.swipe.Start(req.Movies, req.Persons)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeAction records one like/dislike decision.
func (h *Handler) SwipeAction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.SwipeActionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	snap, err := h.swipe.Decide(req.Decision, req.Title, req.Person)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeReset discards the swipe session.
func (h *Handler) SwipeReset(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	snap, err := h.swipe.Reset()
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeConfirm locks the session. When the body supplies replacement
// movie/person lists the session restarts around them, locked.
func (h *Handler) SwipeConfirm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.SwipeConfirmRequest
	if r.ContentLength != 0 {
		if !decodeRequest(w, r, &req) {
			return
		}
	}

	var (
		snap models.SwipeSnapshot
		err  error
	)
	if len(req.Movies) > 0 || len(req.Persons) > 0 {
		snap, err = h.swipe.ConfirmWith(req.Movies, req.Persons)
	} else {
		snap, err = h.swipe.Confirm()
	}
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeAddItem appends one movie to an unlocked session.
func (h *Handler) SwipeAddItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.SwipeAddItemRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Movie.Title == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "movie.title is required", nil)
		return
	}
	if req.Movie.Display == "" {
		req.Movie.Display = req.Movie.Title
	}

	snap, err := h.swipe.AddItem(req.Movie, req.AddedBy)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeRemoveItem drops one movie from an unlocked session.
func (h *Handler) SwipeRemoveItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	title := chi.URLParam(r, "title")
	if title == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "title is required", nil)
		return
	}

	snap, err := h.swipe.RemoveItem(title)
	if warning, ok := persistWarning(err); ok {
		respondSuccess(w, http.StatusOK, snap, start, warning)
		return
	}
	if err != nil {
		status, code, msg := engineErrorResponse(err)
		respondError(w, status, code, msg, err)
		return
	}
	respondSuccess(w, http.StatusOK, snap, start, "")
}

// SwipeMatchNotifications drains the one-shot match queue.
func (h *Handler) SwipeMatchNotifications(w http.ResponseWriter, _ *http.Request) {
	matches := h.swipe.DrainNotifications()
	if matches == nil {
		matches = []string{}
	}
	respondSuccess(w, http.StatusOK, map[string][]string{"matches": matches}, time.Now(), "")
}

// ResetAll resets both engines and clears the poster directory.
func (h *Handler) ResetAll(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	rankSnap, rankErr := h.rank.Reset(0)
	swipeSnap, swipeErr := h.swipe.Reset()

	if err := h.catalog.ClearPosters(); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to clear posters", err)
		return
	}

	var warning string
	if w1, ok := persistWarning(rankErr); ok {
		warning = w1
	} else if rankErr != nil {
		status, code, msg := engineErrorResponse(rankErr)
		respondError(w, status, code, msg, rankErr)
		return
	}
	if w2, ok := persistWarning(swipeErr); ok {
		warning = w2
	} else if swipeErr != nil {
		status, code, msg := engineErrorResponse(swipeErr)
		respondError(w, status, code, msg, swipeErr)
		return
	}

	metrics.CoverageRatio.Set(0)
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"rank":  rankSnap,
		"swipe": swipeSnap,
	}, start, warning)
}
