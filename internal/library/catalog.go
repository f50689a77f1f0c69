// Package library holds the in-memory track catalog and the concurrent
// filesystem scanner that populates it.
package library

import (
	"sort"
	"strings"
	"sync"
)

// Album groups tracks sharing the same album name (case-sensitive).
type Album struct {
	Name    string
	Artist  string // first track's artist
	Artwork []byte // first track's artwork
	Tracks  []Track
}

// Artist groups albums by artist name.
type Artist struct {
	Name   string
	Albums []Album
}

// Catalog is the in-memory library. Albums and Artists are derived views,
// rebuilt wholesale after every mutation.
type Catalog struct {
	mu      sync.RWMutex
	tracks  []Track
	albums  []Album
	artists []Artist
	byPath  map[string]int // path -> index into tracks
}

func NewCatalog() *Catalog {
	return &Catalog{byPath: make(map[string]int)}
}

// Tracks returns a snapshot of all tracks in insertion order.
func (c *Catalog) Tracks() []Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// Albums returns the derived album list, sorted by name.
func (c *Catalog) Albums() []Album {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.albums
}

// Artists returns the derived artist list, sorted by name.
func (c *Catalog) Artists() []Artist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.artists
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// TrackByPath returns the track at the given path, if present.
func (c *Catalog) TrackByPath(path string) (Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byPath[path]; ok {
		return c.tracks[i], true
	}
	return Track{}, false
}

// TrackByID returns the track with the given ID, if present.
func (c *Catalog) TrackByID(id string) (Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// Add appends tracks, skipping any whose path is already present, and
// rebuilds the derived views.
func (c *Catalog) Add(tracks ...Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tracks {
		if t.Path != "" {
			if _, dup := c.byPath[t.Path]; dup {
				continue
			}
			c.byPath[t.Path] = len(c.tracks)
		}
		c.tracks = append(c.tracks, t)
	}
	c.rebuild()
}

// Update replaces the track with the same ID and rebuilds.
func (c *Catalog) Update(track Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tracks {
		if t.ID == track.ID {
			c.tracks[i] = track
			break
		}
	}
	c.rebuild()
}

// Remove deletes the track with the given ID and rebuilds.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tracks {
		if t.ID == id {
			c.tracks = append(c.tracks[:i], c.tracks[i+1:]...)
			break
		}
	}
	c.rebuild()
}

// removeUnderRoot drops every track whose path sits under root. Caller
// holds the write lock and rebuilds afterwards.
func (c *Catalog) removeUnderRoot(root string) {
	kept := c.tracks[:0]
	for _, t := range c.tracks {
		if t.Path != "" && pathUnderRoot(t.Path, root) {
			continue
		}
		kept = append(kept, t)
	}
	c.tracks = kept
	c.byPath = make(map[string]int, len(c.tracks))
	for i, t := range c.tracks {
		if t.Path != "" {
			c.byPath[t.Path] = i
		}
	}
}

// Search returns tracks whose title, artist or album contains the query,
// case-insensitively. An empty query matches everything.
func (c *Catalog) Search(query string) []Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Track, len(c.tracks))
		copy(out, c.tracks)
		return out
	}

	var out []Track
	for _, t := range c.tracks {
		if strings.Contains(strings.ToLower(t.Title), query) ||
			strings.Contains(strings.ToLower(t.Artist), query) ||
			strings.Contains(strings.ToLower(t.Album), query) {
			out = append(out, t)
		}
	}
	return out
}

// rebuild recomputes the album and artist views. Caller holds the write
// lock. Paths indexes are refreshed too since track slots may have moved.
func (c *Catalog) rebuild() {
	c.byPath = make(map[string]int, len(c.tracks))
	for i, t := range c.tracks {
		if t.Path != "" {
			c.byPath[t.Path] = i
		}
	}

	grouped := make(map[string][]Track)
	var names []string
	for _, t := range c.tracks {
		if _, seen := grouped[t.Album]; !seen {
			names = append(names, t.Album)
		}
		grouped[t.Album] = append(grouped[t.Album], t)
	}
	sort.Strings(names)

	c.albums = make([]Album, 0, len(names))
	for _, name := range names {
		tracks := grouped[name]
		// Missing track numbers sit at 0, so they sort first.
		sort.SliceStable(tracks, func(i, j int) bool {
			if tracks[i].DiscNumber != tracks[j].DiscNumber {
				return tracks[i].DiscNumber < tracks[j].DiscNumber
			}
			return tracks[i].TrackNumber < tracks[j].TrackNumber
		})
		c.albums = append(c.albums, Album{
			Name:    name,
			Artist:  tracks[0].Artist,
			Artwork: tracks[0].Artwork,
			Tracks:  tracks,
		})
	}

	byArtist := make(map[string][]Album)
	var artistNames []string
	for _, album := range c.albums {
		if _, seen := byArtist[album.Artist]; !seen {
			artistNames = append(artistNames, album.Artist)
		}
		byArtist[album.Artist] = append(byArtist[album.Artist], album)
	}
	sort.Strings(artistNames)

	c.artists = make([]Artist, 0, len(artistNames))
	for _, name := range artistNames {
		c.artists = append(c.artists, Artist{Name: name, Albums: byArtist[name]})
	}
}
