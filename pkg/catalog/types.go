package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formprompt/internal/match"
)

// FieldType is the closed set of semantic field types.
type FieldType string

const (
	TypeText      FieldType = "text"
	TypeTextarea  FieldType = "textarea"
	TypeEmail     FieldType = "email"
	TypePassword  FieldType = "password"
	TypeNumber    FieldType = "number"
	TypeRange     FieldType = "range"
	TypeRating    FieldType = "rating"
	TypeDate      FieldType = "date"
	TypeDateRange FieldType = "date_range"
	TypeTime      FieldType = "time"
	TypeFile      FieldType = "file"
	TypeURL       FieldType = "url"
	TypePhone     FieldType = "phone"
	TypeCheckbox  FieldType = "checkbox"
	TypeRadio     FieldType = "radio"
	TypeSelect    FieldType = "select"
	TypeTags      FieldType = "tags"
)

// Validation rule keys.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMin       = "min"
	RuleMax       = "max"
	RulePattern   = "pattern"
	RuleRule      = "rule"
	RuleMaxTags   = "maxTags"
)

var allTypes = []FieldType{
	TypeText, TypeTextarea, TypeEmail, TypePassword, TypeNumber, TypeRange,
	TypeRating, TypeDate, TypeDateRange, TypeTime, TypeFile, TypeURL,
	TypePhone, TypeCheckbox, TypeRadio, TypeSelect, TypeTags,
}

var (
	textRules    = []string{RuleMinLength, RuleMaxLength, RulePattern}
	numericRules = []string{RuleMin, RuleMax}
)

var typeRules = map[FieldType][]string{
	TypeText:      textRules,
	TypeTextarea:  textRules,
	TypeEmail:     textRules,
	TypePassword:  textRules,
	TypeURL:       textRules,
	TypePhone:     textRules,
	TypeNumber:    numericRules,
	TypeRange:     numericRules,
	TypeRating:    numericRules,
	TypeDate:      numericRules,
	TypeDateRange: numericRules,
	TypeTime:      numericRules,
	TypeTags:      {RuleMaxTags},
}

// Types returns every known field type.
func Types() []FieldType {
	return append([]FieldType(nil), allTypes...)
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Numeric reports whether the type can carry a numeric range.
func (t FieldType) Numeric() bool {
	return t == TypeNumber || t == TypeRange || t == TypeRating
}

// RulesFor returns the validation keys a field type accepts. Every type
// accepts required and rule.
func RulesFor(t FieldType) []string {
	out := []string{RuleRequired, RuleRule}
	return append(out, typeRules[t]...)
}

// Allows reports whether a field of type t may carry the rule key.
func (t FieldType) Allows(key string) bool {
	for _, rule := range RulesFor(t) {
		if rule == key {
			return true
		}
	}
	return false
}

// Validation maps rule keys onto constraint values.
type Validation map[string]any

// Clone returns a copy of v. Values are scalars so a shallow copy is deep.
func (v Validation) Clone() Validation {
	out := make(Validation, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Required returns the required flag and whether it was set.
func (v Validation) Required() (bool, bool) {
	raw, ok := v[RuleRequired]
	if !ok {
		return false, false
	}
	b, ok := raw.(bool)
	return b, ok
}

// TokenPattern constrains one token of a field pattern.
type TokenPattern = match.Token

// FieldDefinition is a canonical field in the catalog.
type FieldDefinition struct {
	ID         string           `json:"id" yaml:"id"`
	Label      string           `json:"label" yaml:"label"`
	Type       FieldType        `json:"type" yaml:"type"`
	Validation Validation       `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options    []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Keywords   []string         `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Patterns   [][]TokenPattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	out.Validation = f.Validation.Clone()
	out.Options = append([]string(nil), f.Options...)
	out.Keywords = append([]string(nil), f.Keywords...)
	if f.Patterns != nil {
		out.Patterns = make([][]TokenPattern, len(f.Patterns))
		for i, p := range f.Patterns {
			cp := make([]TokenPattern, len(p))
			for j, tok := range p {
				tok.In = append([]string(nil), tok.In...)
				tok.POS = append(tok.POS[:0:0], tok.POS...)
				if tok.LikeNum != nil {
					v := *tok.LikeNum
					tok.LikeNum = &v
				}
				cp[j] = tok
			}
			out.Patterns[i] = cp
		}
	}
	return out
}

// TemplateField references a catalog field with optional validation
// overrides. In documents it may be a bare id or an object.
type TemplateField struct {
	ID         string     `json:"id" yaml:"id"`
	Validation Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

type templateFieldObject TemplateField

// UnmarshalJSON accepts a bare id string or an object.
func (f *TemplateField) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*f = TemplateField{ID: strings.TrimSpace(id)}
		return nil
	}
	var obj templateFieldObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("catalog: template field: %w", err)
	}
	*f = TemplateField(obj)
	f.ID = strings.TrimSpace(f.ID)
	return nil
}

// UnmarshalYAML accepts a bare id scalar or a mapping.
func (f *TemplateField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = TemplateField{ID: strings.TrimSpace(node.Value)}
		return nil
	}
	var obj templateFieldObject
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("catalog: template field: %w", err)
	}
	*f = TemplateField(obj)
	f.ID = strings.TrimSpace(f.ID)
	return nil
}

// FormTemplate is a named bundle of catalog fields.
type FormTemplate struct {
	ID     string          `json:"id" yaml:"id"`
	Fields []TemplateField `json:"fields" yaml:"fields"`
	Seeds  []string        `json:"seeds,omitempty" yaml:"seeds,omitempty"`
	// Alias is set when the template was declared as a pointer to another
	// template. Fields then hold the resolved target's fields.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// Clone returns a deep copy.
func (t FormTemplate) Clone() FormTemplate {
	out := t
	out.Seeds = append([]string(nil), t.Seeds...)
	out.Fields = make([]TemplateField, len(t.Fields))
	for i, f := range t.Fields {
		out.Fields[i] = TemplateField{ID: f.ID}
		if f.Validation != nil {
			out.Fields[i].Validation = f.Validation.Clone()
		}
	}
	return out
}
