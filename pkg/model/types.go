package model

import internalmodel "github.com/goliatone/go-formprompt/internal/model"

// Source re-exports the internal field source enumeration.
type Source = internalmodel.Source

const (
	SourceMatcher        = internalmodel.SourceMatcher
	SourceQuantifier     = internalmodel.SourceQuantifier
	SourceTemplate       = internalmodel.SourceTemplate
	SourceDynamicOptions = internalmodel.SourceDynamicOptions
	SourceDynamicRange   = internalmodel.SourceDynamicRange
	SourceFallbackScan   = internalmodel.SourceFallbackScan
	SourceGeneric        = internalmodel.SourceGeneric
)

// TemplateCustom names schemas assembled without a catalog template.
const TemplateCustom = internalmodel.TemplateCustom

type Field = internalmodel.Field
type ResolvedSchema = internalmodel.ResolvedSchema
type Options = internalmodel.Options

// DefaultLabeler converts identifiers and phrases into display labels.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}

// Check verifies the structural guarantees of a resolved schema.
func Check(schema ResolvedSchema) error {
	return internalmodel.Check(schema)
}
