package risknote

import "errors"

var (
	ErrRiskNoteNotFound = errors.New("risk note not found")
	ErrNoteMissing      = errors.New("note is required")
)
