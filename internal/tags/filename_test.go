package tags

import "testing"

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name   string
		stem   string
		title  string
		artist string
	}{
		{
			name:   "number prefix no separator",
			stem:   "01 - Intro",
			title:  "Intro",
			artist: "",
		},
		{
			name:   "artist and title",
			stem:   "Miles Davis - So What",
			title:  "So What",
			artist: "Miles Davis",
		},
		{
			name:   "number prefix with artist",
			stem:   "03. Nina Simone - Feeling Good",
			title:  "Feeling Good",
			artist: "Nina Simone",
		},
		{
			name:   "plain title",
			stem:   "Interlude",
			title:  "Interlude",
			artist: "",
		},
		{
			name:   "dash prefix",
			stem:   "12-Untitled",
			title:  "Untitled",
			artist: "",
		},
		{
			name:   "only digits",
			stem:   "007",
			title:  "007",
			artist: "",
		},
		{
			name:   "split on first separator only",
			stem:   "A - B - C",
			title:  "B - C",
			artist: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, artist := ParseFilename(tt.stem)
			if title != tt.title {
				t.Errorf("title = %q, want %q", title, tt.title)
			}
			if artist != tt.artist {
				t.Errorf("artist = %q, want %q", artist, tt.artist)
			}
		})
	}
}
