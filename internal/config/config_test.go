package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if !cfg.PrefetchCovers() {
		t.Error("PrefetchCovers() = false by default, want true")
	}
	if !cfg.RemoteLyrics() {
		t.Error("RemoteLyrics() = false by default, want true")
	}
	if cfg.HasLastfmConfig() {
		t.Error("HasLastfmConfig() = true with empty credentials, want false")
	}

	off := false
	cfg.MusicBrainz.PrefetchCovers = &off
	if cfg.PrefetchCovers() {
		t.Error("PrefetchCovers() = true with explicit false, want false")
	}
}
