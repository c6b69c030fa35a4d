package survey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSurveyNotFound       = errors.New("survey not found")
	ErrAccessCodeNotFound   = errors.New("access code not found")
	ErrAccessCodeTaken      = errors.New("access code already taken")
	ErrCodeGenerationFailed = errors.New("access code generation failed")
)

// ValidationError maps field names to messages, one entry per invalid field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
