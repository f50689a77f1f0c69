package player

import "fmt"

// ErrorKind classifies playback failures so the queue layer can decide
// whether to surface or skip.
type ErrorKind int

const (
	ErrFileNotFound ErrorKind = iota
	ErrUnsupportedFormat
	ErrDecodeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFileNotFound:
		return "file not found"
	case ErrUnsupportedFormat:
		return "unsupported format"
	case ErrDecodeFailed:
		return "decode failed"
	default:
		return "unknown"
	}
}

// Error is a classified playback failure tied to a file path.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
