package media

import (
	"errors"
	"fmt"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrNoFiles      = errors.New("no image files provided")
	// ErrTranslationFailed marks errors from the translation stage of a
	// transcription so callers can report it apart from recognition.
	ErrTranslationFailed = errors.New("translation failed")
)

// InvalidFileError reports a rejected upload by file name so the caller can
// surface which file failed validation.
type InvalidFileError struct {
	Name string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid file type for %s, only images are allowed", e.Name)
}

// RemoteError wraps a non-success response from a remote media service.
type RemoteError struct {
	Service string
	Status  int
	Detail  string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Detail)
}
