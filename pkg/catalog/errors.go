package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is wrapped by every load failure caused by malformed
// catalog data.
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

// Issue describes one problem found while loading catalog data.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Path != "" {
		b.WriteString(i.Path)
		b.WriteString(": ")
	}
	if i.Field != "" {
		b.WriteString(i.Field)
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	return b.String()
}

// ValidationError aggregates the issues of a rejected catalog.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrInvalidCatalog.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidCatalog.Error(), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidCatalog.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidCatalog
}
