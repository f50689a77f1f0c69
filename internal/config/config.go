package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library

	// MusicBrainz settings
	MusicBrainz MusicBrainzConfig `koanf:"musicbrainz"`

	// Last.fm scrobbling (enables scrobbling when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// Lyrics settings
	Lyrics LyricsConfig `koanf:"lyrics"`
}

// MusicBrainzConfig holds MusicBrainz-related configuration.
type MusicBrainzConfig struct {
	PrefetchCovers *bool `koanf:"prefetch_covers"` // prefetch cover art for search results (default: true)
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// LyricsConfig holds lyrics resolution configuration.
type LyricsConfig struct {
	Remote *bool `koanf:"remote"` // allow remote lrclib lookups (default: true)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in library_sources
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/muse/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "muse", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// PrefetchCovers returns whether cover-art prefetch is enabled (default true).
func (c *Config) PrefetchCovers() bool {
	if c.MusicBrainz.PrefetchCovers == nil {
		return true
	}
	return *c.MusicBrainz.PrefetchCovers
}

// RemoteLyrics returns whether remote lyrics lookup is enabled (default true).
func (c *Config) RemoteLyrics() bool {
	if c.Lyrics.Remote == nil {
		return true
	}
	return *c.Lyrics.Remote
}
