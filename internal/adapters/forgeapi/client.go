// Package forgeapi is the HTTP client for the RefactorForge backend API.
// The batch orchestrator uses it to list repositories, trigger
// recommendation generation, and verify the generated recommendations
// carry populated metrics.
package forgeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "patternscan-batch/1.0"

// Repository is one entry from the list-repositories endpoint.
type Repository struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TechStack string `json:"techStack"`
}

// Recommendation is one generated recommendation. Only the metrics block is
// interpreted; the rest of the payload passes through untouched.
type Recommendation struct {
	Metrics map[string]any `json:"metrics"`
}

// metricFields are the fields a recommendation must populate (any one of
// them) to count as having real metrics rather than placeholders.
var metricFields = []string{"timeSaved", "bugsPrevented", "performanceGain"}

// HasMetrics reports whether at least one metric field carries a
// non-placeholder value.
func (r Recommendation) HasMetrics() bool {
	for _, field := range metricFields {
		if metricPopulated(r.Metrics[field]) {
			return true
		}
	}
	return false
}

// metricPopulated treats empty strings, the literal "N/A", zeros, and nil as
// placeholders.
func metricPopulated(v any) bool {
	switch val := v.(type) {
	case string:
		return val != "" && val != "N/A"
	case float64:
		return val != 0
	case bool:
		return val
	default:
		return false
	}
}

// Client talks to one RefactorForge backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (e.g. http://localhost:8001).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ListRepositories fetches all repositories known to the backend.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/repositories")
	if err != nil {
		return nil, err
	}

	var repos []Repository
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("decode repositories: %w", err)
	}
	return repos, nil
}

// GenerateRecommendations triggers recommendation generation for a
// repository and returns the number of recommendations the backend reports.
//
// Backends disagree on the response shape, so the count is extracted with a
// fallback chain: a "recommendations" array, then a "count" or "total"
// number, then the longest array anywhere in the body, then the length of a
// bare top-level array.
func (c *Client) GenerateRecommendations(ctx context.Context, repoID int64) (int, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/repositories/%d/recommendations", repoID))
	if err != nil {
		return 0, err
	}
	return extractCount(body), nil
}

// FetchRecommendations retrieves the current recommendations for a
// repository. Handles both a bare array and an object wrapping a
// "recommendations" array (single objects come back as a one-element slice).
func (c *Client) FetchRecommendations(ctx context.Context, repoID int64) ([]Recommendation, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/repositories/%d/recommendations", repoID))
	if err != nil {
		return nil, err
	}

	var list []Recommendation
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Recommendations != nil {
		return wrapped.Recommendations, nil
	}

	var single Recommendation
	if err := json.Unmarshal(body, &single); err == nil {
		return []Recommendation{single}, nil
	}

	return nil, fmt.Errorf("decode recommendations: unrecognized response shape")
}

// do issues one request and returns the response body, treating any
// non-2xx status as an error.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return body, nil
}

// extractCount pulls a recommendation count out of an arbitrary response body.
func extractCount(body []byte) int {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0
	}

	switch data := payload.(type) {
	case map[string]any:
		if recs, ok := data["recommendations"].([]any); ok {
			return len(recs)
		}
		if n, ok := data["count"].(float64); ok {
			return int(n)
		}
		if n, ok := data["total"].(float64); ok {
			return int(n)
		}
		// Fall back to the longest array found anywhere in the object
		longest := 0
		for _, v := range data {
			if arr, ok := v.([]any); ok && len(arr) > longest {
				longest = len(arr)
			}
		}
		return longest
	case []any:
		return len(data)
	default:
		return 0
	}
}
