// Package lastfm wraps the Last.fm API for scrobbling. All failures
// are reported to the caller but are meant to stay non-fatal: a dead
// scrobbler never interrupts playback.
package lastfm

import (
	"errors"
	"fmt"

	"github.com/shkh/lastfm-go/lastfm"
)

// ErrNotAuthenticated is returned when an operation requires a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// Client wraps the Last.fm API for scrobbling operations.
type Client struct {
	api        *lastfm.Api
	apiKey     string
	apiSecret  string
	sessionKey string
}

// New creates a client with the given API credentials.
func New(apiKey, apiSecret string) *Client {
	return &Client{
		api:       lastfm.New(apiKey, apiSecret),
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// SetSessionKey installs a previously obtained session key.
func (c *Client) SetSessionKey(key string) {
	c.sessionKey = key
	c.api.SetSession(key)
}

func (c *Client) SessionKey() string { return c.sessionKey }

func (c *Client) IsAuthenticated() bool { return c.sessionKey != "" }

// GetToken requests an authentication token (desktop auth flow step 1).
func (c *Client) GetToken() (string, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// AuthURL returns the page where the user authorizes the token.
func (c *Client) AuthURL(token string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&token=%s", c.apiKey, token)
}

// GetSession exchanges an authorized token for a session key.
func (c *Client) GetSession(token string) (username, sessionKey string, err error) {
	if err := c.api.LoginWithToken(token); err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}

	sessionKey = c.api.GetSessionKey()
	c.sessionKey = sessionKey

	userInfo, err := c.api.User.GetInfo(nil)
	if err != nil {
		// The session itself is valid; the username is cosmetic.
		return "unknown", sessionKey, nil //nolint:nilerr
	}
	return userInfo.Name, sessionKey, nil
}

// UpdateNowPlaying tells Last.fm what is playing right now.
func (c *Client) UpdateNowPlaying(track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if _, err := c.api.Track.UpdateNowPlaying(c.trackParams(track, false)); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble submits a finished track play.
func (c *Client) Scrobble(track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if _, err := c.api.Track.Scrobble(c.trackParams(track, true)); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

func (c *Client) trackParams(track ScrobbleTrack, withTimestamp bool) lastfm.P {
	params := lastfm.P{
		"artist": track.Artist,
		"track":  track.Track,
	}
	if withTimestamp {
		params["timestamp"] = track.Timestamp.Unix()
	}
	if track.Album != "" {
		params["album"] = track.Album
	}
	if track.AlbumArtist != "" && track.AlbumArtist != track.Artist {
		params["albumArtist"] = track.AlbumArtist
	}
	if track.Duration > 0 {
		params["duration"] = int(track.Duration.Seconds())
	}
	return params
}
