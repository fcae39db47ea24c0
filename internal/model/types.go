package model

import "github.com/goliatone/go-formprompt/pkg/catalog"

// Source records which signal produced a field.
type Source string

const (
	SourceMatcher        Source = "matcher"
	SourceQuantifier     Source = "quantifier"
	SourceTemplate       Source = "template"
	SourceDynamicOptions Source = "dynamic_options"
	SourceDynamicRange   Source = "dynamic_range"
	SourceFallbackScan   Source = "fallback_scan"
	SourceGeneric        Source = "generic"
)

// TemplateCustom names schemas that did not come from a catalog template.
const TemplateCustom = "custom"

// Field is one resolved form field. Validation is never nil.
type Field struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Type       catalog.FieldType  `json:"type"`
	Validation catalog.Validation `json:"validation"`
	Options    []string           `json:"options,omitempty"`
	Source     Source             `json:"source"`
	Confidence float64            `json:"confidence"`
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	out.Validation = f.Validation.Clone()
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	return out
}

// Required reports the resolved required flag.
func (f Field) Required() bool {
	required, _ := f.Validation.Required()
	return required
}

// ResolvedSchema is the terminal output of one resolution.
type ResolvedSchema struct {
	Template string  `json:"template"`
	Fields   []Field `json:"fields"`
}

// Empty reports whether nothing was understood from the prompt.
func (s ResolvedSchema) Empty() bool {
	return len(s.Fields) == 0
}

// Field returns the field with the given id.
func (s ResolvedSchema) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// IDs lists field ids in output order.
func (s ResolvedSchema) IDs() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.ID
	}
	return out
}
