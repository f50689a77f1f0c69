package musicbrainz

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder for PNG covers
	"io"
	"net/http"
	"sync"

	"github.com/nfnt/resize"
)

// coverMaxWidth bounds prefetched artwork for the picker UI.
const coverMaxWidth = 500

// FrontCover fetches the front cover for a release from the Cover Art
// Archive. A missing cover is (nil, nil), not an error.
func (c *Client) FrontCover(ctx context.Context, releaseID string) ([]byte, error) {
	c.waitForRateLimit()

	reqURL := fmt.Sprintf("%s/release/%s/front-500", c.coverArtURL, releaseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// prefetchLimit caps how many search results get their cover fetched
// up front.
const prefetchLimit = 5

// PrefetchCovers fetches front covers for the first few recordings
// concurrently, downscaling them for display. Failures leave gaps; the
// map only holds releases that produced an image.
func (c *Client) PrefetchCovers(ctx context.Context, recordings []Recording) map[string][]byte {
	seen := make(map[string]bool)
	var ids []string
	for _, rec := range recordings {
		if rec.ReleaseID == "" || seen[rec.ReleaseID] {
			continue
		}
		seen[rec.ReleaseID] = true
		ids = append(ids, rec.ReleaseID)
		if len(ids) == prefetchLimit {
			break
		}
	}

	covers := make(map[string][]byte, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Go(func() {
			data, err := c.FrontCover(ctx, id)
			if err != nil || data == nil {
				return
			}
			data = downscale(data)
			mu.Lock()
			covers[id] = data
			mu.Unlock()
		})
	}
	wg.Wait()
	return covers
}

// downscale bounds an image to the prefetch width, re-encoding as
// JPEG. Undecodable data passes through untouched.
func downscale(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= coverMaxWidth {
		return data
	}

	scaled := resize.Resize(coverMaxWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return data
	}
	return buf.Bytes()
}
