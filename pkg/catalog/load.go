package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadOption customises LoadFS.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger *zap.Logger
}

// WithLogger reports load diagnostics through the given logger.
func WithLogger(logger *zap.Logger) LoadOption {
	return func(cfg *loadConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

type documentFile struct {
	Fields    []FieldDefinition        `json:"fields" yaml:"fields"`
	Templates map[string]templateEntry `json:"templates" yaml:"templates"`
}

// templateEntry is either an alias string or a template body.
type templateEntry struct {
	Alias  string          `json:"alias,omitempty" yaml:"alias,omitempty"`
	Fields []TemplateField `json:"fields,omitempty" yaml:"fields,omitempty"`
	Seeds  []string        `json:"seeds,omitempty" yaml:"seeds,omitempty"`
}

type templateEntryObject templateEntry

func (e *templateEntry) UnmarshalJSON(data []byte) error {
	var alias string
	if err := json.Unmarshal(data, &alias); err == nil {
		*e = templateEntry{Alias: strings.TrimSpace(alias)}
		return nil
	}
	var obj templateEntryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = templateEntry(obj)
	return nil
}

func (e *templateEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = templateEntry{Alias: strings.TrimSpace(node.Value)}
		return nil
	}
	var obj templateEntryObject
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*e = templateEntry(obj)
	return nil
}

// LoadFS walks fsys and loads every JSON or YAML catalog document. Each file
// may declare a fields list, a templates map, or both. Documents are checked
// against the catalog JSON Schema before records are type checked.
func LoadFS(fsys fs.FS, opts ...LoadOption) (*Catalog, error) {
	cfg := loadConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if fsys == nil {
		return nil, fmt.Errorf("catalog: filesystem is required: %w", ErrInvalidCatalog)
	}

	var (
		fields    []FieldDefinition
		templates []FormTemplate
		issues    []Issue
	)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		if problems := validateDocument(data, path); len(problems) > 0 {
			issues = append(issues, problems...)
			return nil
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			issues = append(issues, Issue{Path: path, Message: err.Error()})
			return nil
		}

		fields = append(fields, doc.Fields...)
		ids := make([]string, 0, len(doc.Templates))
		for id := range doc.Templates {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			entry := doc.Templates[id]
			templates = append(templates, FormTemplate{
				ID:     id,
				Alias:  entry.Alias,
				Fields: entry.Fields,
				Seeds:  entry.Seeds,
			})
		}
		cfg.logger.Debug("catalog document loaded",
			zap.String("path", path),
			zap.Int("fields", len(doc.Fields)),
			zap.Int("templates", len(doc.Templates)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	cat, err := New(fields, templates)
	if err != nil {
		return nil, err
	}
	for _, diag := range cat.Diagnostics() {
		cfg.logger.Warn("catalog template resolved to empty", zap.String("reason", diag))
	}
	return cat, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

var (
	schemaOnce     sync.Once
	documentSchema *gojsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		types, _ := json.Marshal(Types())
		src := strings.Replace(documentSchemaJSON, "__FIELD_TYPES__", string(types), 1)
		documentSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	})
	return documentSchema, schemaErr
}

func validateDocument(data []byte, path string) []Issue {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Issue{{Path: path, Message: "file is empty"}}
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return []Issue{{Path: path, Message: fmt.Sprintf("invalid JSON or YAML: %v", err)}}
	}
	schema, err := compiledSchema()
	if err != nil {
		return []Issue{{Path: path, Message: fmt.Sprintf("catalog schema: %v", err)}}
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return []Issue{{Path: path, Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, Issue{
			Path:    path,
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return issues
}
