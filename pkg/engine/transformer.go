package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/model"
)

// Transformer mutates a resolved schema before it is validated and returned.
// Implementations can relabel fields, drop them, or rewrite them entirely.
type Transformer interface {
	Transform(ctx context.Context, schema *model.ResolvedSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.ResolvedSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.ResolvedSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// Chain runs transformers in order and stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, schema *model.ResolvedSchema) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, schema); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies declarative per-field patches loaded from a JSON
// or YAML document. Patches name fields by id; fields absent from a schema
// are skipped since each prompt yields a different field set.
//
//	fields:
//	  EMAIL: {label: "Work email", required: true}
//	  PHONE: {remove: true}
//	  COLOR: {rename: SHIRT_COLOR, options: [Red, Blue]}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Fields map[string]fieldPatch `json:"fields" yaml:"fields"`
}

type fieldPatch struct {
	Label    string            `json:"label" yaml:"label"`
	Rename   string            `json:"rename" yaml:"rename"`
	Type     catalog.FieldType `json:"type" yaml:"type"`
	Required *bool             `json:"required" yaml:"required"`
	Options  []string          `json:"options" yaml:"options"`
	Remove   bool              `json:"remove" yaml:"remove"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	for id, patch := range document.Fields {
		if patch.Type != "" && !patch.Type.Valid() {
			return nil, fmt.Errorf("preset transformer: field %q: unknown type %q", id, patch.Type)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches onto the supplied schema.
func (t *PresetTransformer) Transform(ctx context.Context, schema *model.ResolvedSchema) error {
	if schema == nil {
		return errors.New("preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(t.document.Fields) == 0 {
		return nil
	}

	kept := schema.Fields[:0]
	for _, field := range schema.Fields {
		patch, ok := t.document.Fields[field.ID]
		if !ok {
			kept = append(kept, field)
			continue
		}
		if patch.Remove {
			continue
		}
		kept = append(kept, applyFieldPatch(field, patch))
	}
	schema.Fields = kept
	return nil
}

func applyFieldPatch(field model.Field, patch fieldPatch) model.Field {
	field = field.Clone()
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if id := strings.TrimSpace(patch.Rename); id != "" {
		field.ID = id
	}
	if patch.Type != "" && patch.Type != field.Type {
		field.Type = patch.Type
		field.Validation = field.Validation.Restrict(patch.Type)
	}
	if len(patch.Options) > 0 {
		field.Options = append([]string(nil), patch.Options...)
	}
	if patch.Required != nil {
		if field.Validation == nil {
			field.Validation = catalog.Validation{}
		}
		field.Validation[catalog.RuleRequired] = *patch.Required
	}
	return field
}
