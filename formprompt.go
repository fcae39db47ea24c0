// Package formprompt turns short natural-language prompts into form schemas.
// It re-exports the engine entry points and wraps results in the response
// envelope used by the CLI and HTTP callers.
package formprompt

import (
	"context"
	"errors"

	"github.com/goliatone/go-formprompt/pkg/engine"
	"github.com/goliatone/go-formprompt/pkg/model"
)

const (
	// TitleGenerated heads a response with at least one field.
	TitleGenerated = "Generated Form"
	// TitleFailed heads a response with no fields.
	TitleFailed = "Could not generate form"
	// TemplateNone replaces the template name in failed responses.
	TemplateNone = "none"
	// NotUnderstoodMessage guides users whose prompt produced no fields.
	NotUnderstoodMessage = "I couldn't understand the type of form you want. Try being more specific, like 'a contact form' or 'an internship application form'."
)

// ErrNotUnderstood reports a prompt that produced no fields.
var ErrNotUnderstood = errors.New("formprompt: prompt not understood")

// Response is the envelope returned to end users.
type Response struct {
	Title    string        `json:"title"`
	Prompt   string        `json:"prompt"`
	Template string        `json:"template"`
	Fields   []model.Field `json:"fields"`
	Message  string        `json:"message,omitempty"`
}

// NewEngine exposes the engine constructor from the top-level module.
func NewEngine(options ...engine.Option) *engine.Engine {
	return engine.New(options...)
}

// Resolve builds an engine with the given options and resolves one prompt.
// Callers resolving many prompts should keep an engine from NewEngine.
func Resolve(ctx context.Context, prompt string, options ...engine.Option) (model.ResolvedSchema, error) {
	return engine.New(options...).Resolve(ctx, engine.Request{Prompt: prompt})
}

// ResolveOrError resolves prompt and returns ErrNotUnderstood when nothing
// was recognised.
func ResolveOrError(ctx context.Context, eng *engine.Engine, prompt string) (model.ResolvedSchema, error) {
	schema, err := eng.Resolve(ctx, engine.Request{Prompt: prompt})
	if err != nil {
		return model.ResolvedSchema{}, err
	}
	if schema.Empty() {
		return schema, ErrNotUnderstood
	}
	return schema, nil
}

// NewResponse wraps a schema in the response envelope.
func NewResponse(prompt string, schema model.ResolvedSchema) Response {
	if schema.Empty() {
		return Response{
			Title:    TitleFailed,
			Prompt:   prompt,
			Template: TemplateNone,
			Fields:   []model.Field{},
			Message:  NotUnderstoodMessage,
		}
	}
	return Response{
		Title:    TitleGenerated,
		Prompt:   prompt,
		Template: schema.Template,
		Fields:   schema.Fields,
	}
}
