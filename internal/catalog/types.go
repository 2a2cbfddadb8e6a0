// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

// Jellyfin wire types. Field names follow the Jellyfin API PascalCase
// convention. API Reference: https://api.jellyfin.org/

// itemsResponse is the envelope Jellyfin returns for /Users/{id}/Items.
type itemsResponse struct {
	Items            []JellyfinItem `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
}

// JellyfinItem is a single movie entry from the Jellyfin items listing.
type JellyfinItem struct {
	Name            string            `json:"Name"`
	OriginalTitle   string            `json:"OriginalTitle"`
	ID              string            `json:"Id"`
	ProductionYear  int               `json:"ProductionYear"`
	RunTimeTicks    int64             `json:"RunTimeTicks"`
	CommunityRating float64           `json:"CommunityRating"`
	IsHD            bool              `json:"IsHD"`
	ProviderIDs     map[string]string `json:"ProviderIds"`
	ImageTags       map[string]string `json:"ImageTags"`
	UserData        *JellyfinUserData `json:"UserData"`
}

// JellyfinUserData carries the per-user playback flags.
type JellyfinUserData struct {
	Played bool `json:"Played"`
}

// RuntimeMinutes converts Jellyfin's 100ns tick runtime to whole minutes.
func (i JellyfinItem) RuntimeMinutes() float64 {
	return float64(i.RunTimeTicks) / float64(ticksPerMinute)
}

// TMDBID returns the TMDB provider id, empty when the library has none.
func (i JellyfinItem) TMDBID() string {
	return i.ProviderIDs["Tmdb"]
}

// PrimaryImageTag returns the primary poster tag, empty when no poster
// exists.
func (i JellyfinItem) PrimaryImageTag() string {
	return i.ImageTags["Primary"]
}

// Jellyfin expresses runtime in 100-nanosecond ticks.
const ticksPerMinute int64 = 60 * 10_000_000

// ListOptions are the catalog filters for a Jellyfin movies listing.
// Nil pointer fields mean "no bound".
type ListOptions struct {
	// Filters is the Jellyfin Filters parameter value, e.g. "IsPlayed" or
	// "IsUnplayed". Empty means no playback filter.
	Filters string

	// RuntimeMin and RuntimeMax bound runtime in minutes. Applied
	// client-side because Jellyfin ignores tick bounds on this listing.
	RuntimeMin *float64
	RuntimeMax *float64

	// CriticMin and CriticMax bound the community rating (0-10 scale).
	CriticMin *float64
	CriticMax *float64

	// YearMin and YearMax bound the production year via premiere date.
	YearMin *int
	YearMax *int
}
