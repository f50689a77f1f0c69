// Package musicbrainz looks up recording metadata and release artwork
// for the tag editor.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	defaultBaseURL     = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL = "https://coverartarchive.org"
	userAgent          = "Muse/0.1 (https://github.com/evrardt/muse)"

	// MusicBrainz requires 1 request per second.
	rateLimitDur = time.Second

	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second
)

// Client provides access to the MusicBrainz and Cover Art Archive APIs.
type Client struct {
	baseURL     string
	coverArtURL string
	httpClient  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient() *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		coverArtURL: defaultCoverArtURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithURLs is used by tests to point at local servers.
func NewClientWithURLs(baseURL, coverArtURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	c.coverArtURL = coverArtURL
	return c
}

// SearchRecordings runs a free-text recording search.
func (c *Client) SearchRecordings(ctx context.Context, query string) ([]Recording, error) {
	c.waitForRateLimit()

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", "25")

	reqURL := fmt.Sprintf("%s/recording?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	var result recordingSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return convertRecordings(result.Recordings), nil
}

// waitForRateLimit spaces requests a second apart.
func (c *Client) waitForRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < rateLimitDur {
		time.Sleep(rateLimitDur - elapsed)
	}
	c.lastRequest = time.Now()
}

// doRequestWithRetry retries on 5xx and network errors with
// exponential backoff; 4xx returns immediately.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, maxDelay)
			c.waitForRateLimit()
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

func convertRecordings(results []recordingResult) []Recording {
	recordings := make([]Recording, 0, len(results))
	for i := range results {
		r := &results[i]
		rec := Recording{
			ID:     r.ID,
			Title:  r.Title,
			Artist: extractArtist(r.ArtistCredit),
			Score:  r.Score,
		}
		if len(r.Releases) > 0 {
			rel := r.Releases[0]
			rec.Album = rel.Title
			rec.ReleaseID = rel.ID
			if len(rel.Date) >= 4 {
				rec.Year, _ = strconv.Atoi(rel.Date[:4])
			}
		}
		recordings = append(recordings, rec)
	}
	return recordings
}
