// Package model defines the resolved form schema returned by the engine. A
// ResolvedSchema carries the detected template name (or "custom") and an
// ordered list of fields; each field has a canonical or synthesized id, a
// display label, a catalog field type, a validation map keyed by the catalog
// rule names (required, minLength, maxLength, min, max, pattern, rule,
// maxTags), optional choices, and provenance (source kind and confidence).
// The types live in internal/model and are re-exported here.
package model
