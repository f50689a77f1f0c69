package tags

import (
	"os"
	"path/filepath"
	"strings"
)

// Common cover art filenames to look for in album folders.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// findFolderArt looks for a cover image file in the given directory.
// Returns nil data when none of the common names exists.
func findFolderArt(dir string) (data []byte, mimeType string) {
	for _, filename := range coverArtFilenames {
		data, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			continue
		}

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			mimeType = mimeJPEG
		case ".png":
			mimeType = mimePNG
		}
		return data, mimeType
	}
	return nil, ""
}
