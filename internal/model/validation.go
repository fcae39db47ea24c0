package model

import (
	"errors"
	"fmt"
)

var (
	errFieldIDMissing = errors.New("model: field id is required")
	errTemplateEmpty  = errors.New("model: template name is required")
)

// Check verifies the structural guarantees of a resolved schema: a template
// name, unique non-empty field ids, known types and non-nil validation maps.
func Check(schema ResolvedSchema) error {
	if schema.Template == "" {
		return errTemplateEmpty
	}
	seen := make(map[string]bool, len(schema.Fields))
	for i, field := range schema.Fields {
		if field.ID == "" {
			return fmt.Errorf("model: field %d: %w", i, errFieldIDMissing)
		}
		if seen[field.ID] {
			return fmt.Errorf("model: duplicate field id %q", field.ID)
		}
		seen[field.ID] = true
		if !field.Type.Valid() {
			return fmt.Errorf("model: field %q has unknown type %q", field.ID, field.Type)
		}
		if field.Validation == nil {
			return fmt.Errorf("model: field %q has no validation map", field.ID)
		}
	}
	return nil
}
