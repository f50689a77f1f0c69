// Package playlists persists named track lists as a single JSON file.
// Tracks are referenced by path; entries pointing at files missing from
// the catalog surface as placeholder tracks until resolved.
package playlists

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/evrardt/muse/internal/library"
)

// Playlist is an ordered, named list of tracks.
type Playlist struct {
	ID           string
	Name         string
	Tracks       []library.Track
	Artwork      []byte // custom override; empty falls back to first track
	CreatedDate  time.Time
	ModifiedDate time.Time
}

// Cover returns the playlist artwork: the custom override when set,
// otherwise the first track's artwork.
func (p *Playlist) Cover() []byte {
	if len(p.Artwork) > 0 {
		return p.Artwork
	}
	for _, t := range p.Tracks {
		if len(t.Artwork) > 0 {
			return t.Artwork
		}
	}
	return nil
}

// playlistJSON is the on-disk shape: tracks persist as paths only.
type playlistJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Paths        []string  `json:"paths"`
	CreatedDate  time.Time `json:"createdDate"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

// Store holds all playlists and writes the backing JSON file after
// every mutation. A failed write leaves the in-memory set untouched
// apart from the attempted change; the previous file survives because
// writes go through a temp file and rename.
type Store struct {
	path      string
	playlists []*Playlist
}

// Open loads the store from the default XDG data location.
func Open() (*Store, error) {
	path, err := xdg.DataFile("muse/playlists.json")
	if err != nil {
		return nil, fmt.Errorf("resolve playlists path: %w", err)
	}
	return OpenAt(path)
}

// OpenAt loads the store from an explicit path. A missing file is an
// empty store; a malformed file is an error so the caller never
// clobbers data it could not read.
func OpenAt(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read playlists: %w", err)
	}

	var raw []playlistJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse playlists: %w", err)
	}

	for _, r := range raw {
		p := &Playlist{
			ID:           r.ID,
			Name:         r.Name,
			CreatedDate:  r.CreatedDate,
			ModifiedDate: r.ModifiedDate,
		}
		for _, path := range r.Paths {
			// Entries whose file vanished are dropped silently.
			if _, err := os.Stat(path); err != nil {
				continue
			}
			p.Tracks = append(p.Tracks, placeholderFor(path))
		}
		s.playlists = append(s.playlists, p)
	}

	return s, nil
}

// All returns the playlists in storage order.
func (s *Store) All() []*Playlist {
	return s.playlists
}

// Get returns the playlist with the given ID.
func (s *Store) Get(id string) (*Playlist, bool) {
	for _, p := range s.playlists {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Create adds a new playlist with the given tracks.
func (s *Store) Create(name string, tracks []library.Track) (*Playlist, error) {
	now := time.Now()
	p := &Playlist{
		ID:           uuid.NewString(),
		Name:         name,
		Tracks:       append([]library.Track(nil), tracks...),
		CreatedDate:  now,
		ModifiedDate: now,
	}
	s.playlists = append(s.playlists, p)
	return p, s.save()
}

// Delete removes the playlist with the given ID.
func (s *Store) Delete(id string) error {
	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Rename changes a playlist's name.
func (s *Store) Rename(id, name string) error {
	p, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("playlist not found: %s", id)
	}
	p.Name = name
	return s.touch(p)
}

// AddTrack appends a track unless a track with the same ID is already
// present.
func (s *Store) AddTrack(id string, track library.Track) error {
	return s.AddTracks(id, []library.Track{track})
}

// AddTracks appends tracks, skipping those already present by ID.
func (s *Store) AddTracks(id string, tracks []library.Track) error {
	p, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("playlist not found: %s", id)
	}

	present := make(map[string]bool, len(p.Tracks))
	for _, t := range p.Tracks {
		present[t.ID] = true
	}

	added := false
	for _, t := range tracks {
		if present[t.ID] {
			continue
		}
		present[t.ID] = true
		p.Tracks = append(p.Tracks, t)
		added = true
	}
	if !added {
		return nil
	}
	return s.touch(p)
}

// RemoveTrack removes the track with the given ID from the playlist.
func (s *Store) RemoveTrack(id, trackID string) error {
	p, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("playlist not found: %s", id)
	}
	for i, t := range p.Tracks {
		if t.ID == trackID {
			p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
			return s.touch(p)
		}
	}
	return nil
}

// MoveRange moves length tracks starting at src to dst, where dst is
// interpreted against the list after the range has been removed:
// moving [A B C D] src=0 len=1 dst=2 yields [B C A D].
func (s *Store) MoveRange(id string, src, length, dst int) error {
	p, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("playlist not found: %s", id)
	}

	n := len(p.Tracks)
	if src < 0 || length <= 0 || src+length > n {
		return fmt.Errorf("move range out of bounds: src=%d len=%d n=%d", src, length, n)
	}

	moved := append([]library.Track(nil), p.Tracks[src:src+length]...)
	rest := append([]library.Track(nil), p.Tracks[:src]...)
	rest = append(rest, p.Tracks[src+length:]...)

	if dst < 0 {
		dst = 0
	}
	if dst > len(rest) {
		dst = len(rest)
	}

	out := make([]library.Track, 0, n)
	out = append(out, rest[:dst]...)
	out = append(out, moved...)
	out = append(out, rest[dst:]...)
	p.Tracks = out

	return s.touch(p)
}

// SetArtwork sets or clears the custom artwork override.
func (s *Store) SetArtwork(id string, artwork []byte) error {
	p, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("playlist not found: %s", id)
	}
	p.Artwork = artwork
	return s.touch(p)
}

// Resolve swaps placeholder tracks for their catalog counterparts,
// matching by path. Tracks with no catalog entry stay as placeholders.
func (s *Store) Resolve(catalog *library.Catalog) {
	for _, p := range s.playlists {
		for i, t := range p.Tracks {
			if t.Path == "" {
				continue
			}
			if real, ok := catalog.TrackByPath(t.Path); ok {
				p.Tracks[i] = real
			}
		}
	}
}

func (s *Store) touch(p *Playlist) error {
	p.ModifiedDate = time.Now()
	return s.save()
}

// save writes the whole store atomically: temp file in the same
// directory, then rename over the target.
func (s *Store) save() error {
	raw := make([]playlistJSON, 0, len(s.playlists))
	for _, p := range s.playlists {
		r := playlistJSON{
			ID:           p.ID,
			Name:         p.Name,
			Paths:        make([]string, 0, len(p.Tracks)),
			CreatedDate:  p.CreatedDate,
			ModifiedDate: p.ModifiedDate,
		}
		for _, t := range p.Tracks {
			if t.Path != "" {
				r.Paths = append(r.Paths, t.Path)
			}
		}
		raw = append(raw, r)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode playlists: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlists-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write playlists: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace playlists: %w", err)
	}
	return nil
}

func placeholderFor(path string) library.Track {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return library.Placeholder(path, stem)
}
