package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports a write against a title that does not exist in the
	// required state.
	ErrNotFound = errors.New("title not found")
	// ErrConflict reports a write that would attach a provider id already
	// owned by another title.
	ErrConflict = errors.New("external id already assigned")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
