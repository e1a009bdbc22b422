// Package apex is a client for the mozambiquehe.re Apex Legends stats API.
package apex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mcoot/apextrack/internal/model"
)

// DefaultBaseURL is the production stats API endpoint
const DefaultBaseURL = "https://api.mozambiquehe.re"

// maxErrorBody caps how much of an error response body is retained for logs
const maxErrorBody = 2048

// StatusError is a non-200, non-429 response from the stats API
type StatusError struct {
	Status int
	Body   string
}

// Error implements error
func (e *StatusError) Error() string {
	return fmt.Sprintf("stats API failed: %d - %s", e.Status, e.Body)
}

// Client fetches player stats through a shared HTTP client
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a stats API client. The HTTP client is shared across
// all bot sessions and is never reconfigured here.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// bridgeResponse is the subset of the bridge endpoint's envelope we read
type bridgeResponse struct {
	Global struct {
		Name string `json:"name"`
		Rank struct {
			RankScore float64 `json:"rankScore"`
			RankName  string  `json:"rankName"`
			RankDiv   int     `json:"rankDiv"`
			RankImg   string  `json:"rankImg"`
		} `json:"rank"`
	} `json:"global"`
}

// GetPlayerStats fetches one snapshot of the player's ranked standing.
// Returns model.ErrRateLimited on HTTP 429 and a *StatusError for any other
// non-200 response.
func (c *Client) GetPlayerStats(ctx context.Context, uid model.PlayerUID) (*model.StatsSnapshot, error) {
	query := url.Values{}
	query.Set("auth", c.apiKey)
	query.Set("player", string(uid))
	query.Set("platform", "PC")
	endpoint := c.baseURL + "/bridge?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building stats request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var doc bridgeResponse
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding stats response: %w", err)
		}
		return snapshotFromBridge(doc), nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, model.ErrRateLimited

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
}

// snapshotFromBridge converts the loosely-shaped API document into a fully
// populated snapshot. All missing-field defaults live here.
func snapshotFromBridge(doc bridgeResponse) *model.StatsSnapshot {
	snap := &model.StatsSnapshot{
		DisplayName: doc.Global.Name,
		RankName:    doc.Global.Rank.RankName,
		RankDiv:     doc.Global.Rank.RankDiv,
		RankScore:   int(doc.Global.Rank.RankScore),
		BadgeURL:    doc.Global.Rank.RankImg,
	}
	if snap.DisplayName == "" {
		snap.DisplayName = "Unknown"
	}
	if snap.RankName == "" {
		snap.RankName = "Rookie"
	}
	return snap
}
