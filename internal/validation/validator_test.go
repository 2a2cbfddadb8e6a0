// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package validation

import (
	"testing"

	"github.com/smiei/ranking-for-jellyfin/internal/models"
)

func TestValidateStructVoteRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     models.VoteRequest
		wantErr bool
	}{
		{
			name:    "valid vote",
			req:     models.VoteRequest{Winner: "Heat", Loser: "Tenet", Person: "person1"},
			wantErr: false,
		},
		{
			name:    "missing winner",
			req:     models.VoteRequest{Loser: "Tenet"},
			wantErr: true,
		},
		{
			name:    "self vote",
			req:     models.VoteRequest{Winner: "Heat", Loser: "Heat"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStructPersonCountBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"zero is treated as unset", 0, false},
		{"two is the minimum", 2, false},
		{"five is the maximum", 5, false},
		{"one is too few", 1, true},
		{"six is too many", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := models.RankResetRequest{PersonCount: tt.count}
			err := ValidateStruct(&req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct(personCount=%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&models.VoteRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR code, got %s", apiErr.Code)
	}
	if len(err.Fields()) != 2 {
		t.Errorf("expected 2 field errors (winner, loser), got %d", len(err.Fields()))
	}
}

func TestGenerateRequestFilters(t *testing.T) {
	t.Parallel()

	valid := models.GenerateRequest{Filters: []string{"IsPlayed"}}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("expected IsPlayed filter to validate, got %v", err)
	}

	invalid := models.GenerateRequest{Filters: []string{"IsBroken"}}
	if err := ValidateStruct(&invalid); err == nil {
		t.Error("expected unknown filter to fail validation")
	}
}
