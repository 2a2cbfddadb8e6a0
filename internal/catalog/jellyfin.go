// Ranking for Jellyfin - Pairwise Movie Ranking and Group Swipe Matching
// Copyright 2026 smiei
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smiei/ranking-for-jellyfin

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/smiei/ranking-for-jellyfin/internal/logging"
)

// JellyfinClientInterface defines the Jellyfin operations the catalog
// service needs. Both JellyfinClient and the circuit-breaker wrapper
// implement it.
type JellyfinClientInterface interface {
	Ping(ctx context.Context) error
	ListMovies(ctx context.Context, opts ListOptions) ([]JellyfinItem, error)
	DownloadPrimaryImage(ctx context.Context, itemID, tag string) ([]byte, error)
}

// Ensure JellyfinClient implements JellyfinClientInterface
var _ JellyfinClientInterface = (*JellyfinClient)(nil)

// JellyfinClient provides read-only access to the Jellyfin REST API.
type JellyfinClient struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

// NewJellyfinClient creates a new Jellyfin API client.
//
// Parameters:
//   - baseURL: Jellyfin server URL (e.g., http://localhost:8096)
//   - apiKey: Jellyfin API key from Admin Dashboard > API Keys
//   - userID: user whose library and Played flags are listed
func NewJellyfinClient(baseURL, apiKey, userID string, timeout time.Duration) *JellyfinClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &JellyfinClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping tests connectivity to the Jellyfin server.
func (c *JellyfinClient) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/System/Ping", nil)
	if err != nil {
		return fmt.Errorf("jellyfin ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jellyfin ping returned status %d", resp.StatusCode)
	}
	return nil
}

// ListMovies retrieves the user's movie library with the given filters.
// Runtime bounds are applied client-side after the listing returns;
// Jellyfin does not honor tick bounds on this endpoint.
func (c *JellyfinClient) ListMovies(ctx context.Context, opts ListOptions) ([]JellyfinItem, error) {
	params := url.Values{}
	params.Set("IncludeItemTypes", "Movie")
	params.Set("Recursive", "true")
	params.Set("SortBy", "SortName")
	params.Set("Fields", "RunTimeTicks,ProviderIds,OriginalTitle")
	if opts.Filters != "" {
		params.Set("Filters", opts.Filters)
	}
	if opts.CriticMin != nil {
		params.Set("MinCommunityRating", fmt.Sprintf("%g", *opts.CriticMin))
	}
	if opts.CriticMax != nil {
		params.Set("MaxCommunityRating", fmt.Sprintf("%g", *opts.CriticMax))
	}
	if opts.YearMin != nil {
		params.Set("MinPremiereDate", fmt.Sprintf("%04d-01-01", *opts.YearMin))
	}
	if opts.YearMax != nil {
		params.Set("MaxPremiereDate", fmt.Sprintf("%04d-12-31", *opts.YearMax))
	}

	endpoint := fmt.Sprintf("/Users/%s/Items", url.PathEscape(c.userID))
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("jellyfin items request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("jellyfin items returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("jellyfin items returned status %d: %s", resp.StatusCode, string(body))
	}

	var listing itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin items: %w", err)
	}

	return filterByRuntime(listing.Items, opts), nil
}

// DownloadPrimaryImage fetches the primary poster bytes for an item.
func (c *JellyfinClient) DownloadPrimaryImage(ctx context.Context, itemID, tag string) ([]byte, error) {
	params := url.Values{}
	params.Set("format", "jpg")
	if tag != "" {
		params.Set("tag", tag)
	}

	endpoint := fmt.Sprintf("/Items/%s/Images/Primary", url.PathEscape(itemID))
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("jellyfin image request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jellyfin image returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read jellyfin image: %w", err)
	}
	return data, nil
}

// doRequest performs an authenticated GET against the Jellyfin API.
func (c *JellyfinClient) doRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// filterByRuntime applies the runtime bounds Jellyfin ignores server-side.
func filterByRuntime(items []JellyfinItem, opts ListOptions) []JellyfinItem {
	if opts.RuntimeMin == nil && opts.RuntimeMax == nil {
		return items
	}
	kept := make([]JellyfinItem, 0, len(items))
	for _, item := range items {
		minutes := item.RuntimeMinutes()
		if opts.RuntimeMin != nil && minutes < *opts.RuntimeMin {
			continue
		}
		if opts.RuntimeMax != nil && minutes > *opts.RuntimeMax {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// Ensure JellyfinBreakerClient implements JellyfinClientInterface
var _ JellyfinClientInterface = (*JellyfinBreakerClient)(nil)

// JellyfinBreakerClient wraps JellyfinClient with a circuit breaker so a
// dead media server fails fast instead of tying up request handlers.
type JellyfinBreakerClient struct {
	client JellyfinClientInterface
	cb     *gobreaker.CircuitBreaker[any]
}

// NewJellyfinBreakerClient wraps client in a circuit breaker.
// Opens after a 60% failure rate with at least 5 requests in the window;
// recovery is attempted after 30 seconds.
func NewJellyfinBreakerClient(client JellyfinClientInterface) *JellyfinBreakerClient {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "jellyfin-api",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Jellyfin circuit breaker state change")
		},
	})
	return &JellyfinBreakerClient{client: client, cb: cb}
}

// Ping tests connectivity through the breaker.
func (b *JellyfinBreakerClient) Ping(ctx context.Context) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.client.Ping(ctx)
	})
	return err
}

// ListMovies lists movies through the breaker.
func (b *JellyfinBreakerClient) ListMovies(ctx context.Context, opts ListOptions) ([]JellyfinItem, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.client.ListMovies(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.([]JellyfinItem), nil
}

// DownloadPrimaryImage fetches poster bytes through the breaker.
func (b *JellyfinBreakerClient) DownloadPrimaryImage(ctx context.Context, itemID, tag string) ([]byte, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.client.DownloadPrimaryImage(ctx, itemID, tag)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
