package tags

import (
	"fmt"
	"net/http"
	"os"
)

// Write rewrites editable tag fields (title/artist/album/genre/year/track)
// into the file's native tag format. The operation is best-effort and
// non-transactional: a failure leaves the original file as-is as far as the
// underlying library guarantees.
func Write(path string, t *Tag) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	ext := lowerExt(path)
	if !writeExtensions[ext] {
		return fmt.Errorf("unsupported file format: %s", ext)
	}

	switch ext {
	case ExtMP3:
		return writeMP3Tags(path, t)
	case ExtFLAC:
		return writeFLACTags(path, t)
	case ExtM4A, ExtALAC:
		return writeM4ATags(path, t)
	case ExtAAC:
		return writeTaglibTags(path, t)
	}

	return nil
}

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// detectMimeType detects the MIME type of image data.
func detectMimeType(data []byte) string {
	if len(data) == 0 {
		return mimeJPEG
	}
	switch http.DetectContentType(data) {
	case mimePNG:
		return mimePNG
	default:
		return mimeJPEG
	}
}
