// Package export converts resolved schemas into OpenAPI 3 documents so
// generated forms can be consumed by API tooling and form renderers that read
// OpenAPI request bodies.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/model"
)

const (
	// ExtensionSource carries the field provenance on each property.
	ExtensionSource = "x-formprompt-source"
	// ExtensionConfidence carries the field confidence on each property.
	ExtensionConfidence = "x-formprompt-confidence"
	// ExtensionTemplate carries the detected template on the form schema.
	ExtensionTemplate = "x-formprompt-template"

	openAPIVersion  = "3.0.3"
	documentVersion = "1.0.0"
)

// OpenAPIDocument builds a document with one component schema describing the
// form and a POST operation that accepts it. The document is validated before
// it is returned.
func OpenAPIDocument(schema model.ResolvedSchema, title string) (*openapi3.T, error) {
	if err := model.Check(schema); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if strings.TrimSpace(title) == "" {
		title = model.DefaultLabeler(schema.Template) + " Form"
	}

	name := SchemaName(schema.Template)
	form := FormSchema(schema)
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info:    &openapi3.Info{Title: title, Version: documentVersion},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: openapi3.NewSchemaRef("", form)},
		},
	}

	// The request body points at the component and carries the resolved
	// value so the document validates without a loader pass.
	ref := openapi3.NewSchemaRef("#/components/schemas/"+name, form)
	op := openapi3.NewOperation()
	op.OperationID = "submit" + name
	op.Summary = "Submit " + title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(204, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission accepted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission failed validation")}),
	)
	doc.Paths.Set("/forms/"+schema.Template, &openapi3.PathItem{Post: op})

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("export: invalid document: %w", err)
	}
	return doc, nil
}

// SchemaName converts a template name into a component schema name, e.g.
// "event_registration" becomes "EventRegistrationForm".
func SchemaName(template string) string {
	label := strings.ReplaceAll(model.DefaultLabeler(template), " ", "")
	if label == "" {
		label = "Custom"
	}
	return label + "Form"
}

// FormSchema builds the object schema for a resolved form. Properties are
// keyed by field id; required fields are listed in output order.
func FormSchema(schema model.ResolvedSchema) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Title = model.DefaultLabeler(schema.Template)
	obj.Extensions = map[string]any{ExtensionTemplate: schema.Template}
	for _, f := range schema.Fields {
		obj.WithProperty(f.ID, PropertySchema(f))
		if f.Required() {
			obj.Required = append(obj.Required, f.ID)
		}
	}
	return obj
}

// PropertySchema maps one field onto a JSON Schema property.
func PropertySchema(f model.Field) *openapi3.Schema {
	s := baseSchema(f)
	s.Title = f.Label
	v := f.Validation

	if n, ok := intRule(v, catalog.RuleMinLength); ok {
		s.WithMinLength(n)
	}
	if n, ok := intRule(v, catalog.RuleMaxLength); ok {
		s.WithMaxLength(n)
	}
	if p, ok := v[catalog.RulePattern].(string); ok && p != "" {
		s.WithPattern(p)
	}
	if n, ok := numberRule(v, catalog.RuleMin); ok && f.Type != catalog.TypeDate {
		s.WithMin(n)
	}
	if n, ok := numberRule(v, catalog.RuleMax); ok && f.Type != catalog.TypeDate {
		s.WithMax(n)
	}
	if n, ok := intRule(v, catalog.RuleMaxTags); ok {
		s.WithMaxItems(n)
	}
	if rule, ok := v[catalog.RuleRule].(string); ok && rule != "" {
		s.Description = rule
	}

	s.Extensions = map[string]any{
		ExtensionSource:     string(f.Source),
		ExtensionConfidence: f.Confidence,
	}
	return s
}

func baseSchema(f model.Field) *openapi3.Schema {
	switch f.Type {
	case catalog.TypeEmail:
		return openapi3.NewStringSchema().WithFormat("email")
	case catalog.TypeURL:
		return openapi3.NewStringSchema().WithFormat("uri")
	case catalog.TypeDate:
		return openapi3.NewStringSchema().WithFormat("date")
	case catalog.TypeTime:
		return openapi3.NewStringSchema().WithFormat("time")
	case catalog.TypeFile:
		return openapi3.NewStringSchema().WithFormat("binary")
	case catalog.TypePassword:
		return openapi3.NewStringSchema().WithFormat("password")
	case catalog.TypeDateRange:
		return openapi3.NewArraySchema().
			WithItems(openapi3.NewStringSchema().WithFormat("date")).
			WithMinItems(2).WithMaxItems(2)
	case catalog.TypeNumber, catalog.TypeRange:
		return openapi3.NewFloat64Schema()
	case catalog.TypeRating:
		return openapi3.NewIntegerSchema()
	case catalog.TypeCheckbox:
		if len(f.Options) == 0 {
			return openapi3.NewBoolSchema()
		}
		return openapi3.NewArraySchema().WithItems(enumSchema(f.Options)).WithUniqueItems(true)
	case catalog.TypeRadio, catalog.TypeSelect:
		if len(f.Options) == 0 {
			return openapi3.NewStringSchema()
		}
		return enumSchema(f.Options)
	case catalog.TypeTags:
		return openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		return openapi3.NewStringSchema()
	}
}

func enumSchema(options []string) *openapi3.Schema {
	values := make([]any, len(options))
	for i, o := range options {
		values[i] = o
	}
	return openapi3.NewStringSchema().WithEnum(values...)
}

func numberRule(v catalog.Validation, key string) (float64, bool) {
	switch n := v[key].(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func intRule(v catalog.Validation, key string) (int64, bool) {
	n, ok := numberRule(v, key)
	if !ok || n < 0 || n != math.Trunc(n) {
		return 0, false
	}
	return int64(n), true
}

// ErrNoDocument reports a nil document passed to a marshal helper.
var ErrNoDocument = errors.New("export: document is nil")

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalYAML renders the document as YAML.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	return yaml.Marshal(doc)
}
