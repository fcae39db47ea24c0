// Package preview renders resolved schemas as static HTML forms using pongo2
// templates. The default templates are embedded; callers can supply their own
// template set with WithFS.
package preview

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formprompt/pkg/catalog"
	"github.com/goliatone/go-formprompt/pkg/model"
)

// FormTemplate is the entry template rendered for every schema.
const FormTemplate = "form.html.tpl"

// EmptyMessage is shown when a schema has no fields.
const EmptyMessage = "I couldn't understand the type of form you want. Try being more specific, like 'a contact form' or 'an internship application form'."

//go:embed templates/*.tpl
var embedded embed.FS

// DefaultFS exposes the embedded templates.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("preview: embedded templates: %v", err))
	}
	return sub
}

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates  fs.FS
	globalData map[string]any
}

// WithFS replaces the embedded templates. The filesystem must provide
// FormTemplate at its root.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobalData seeds values available to every render, for example
// "stylesheet" or "action".
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Renderer renders resolved schemas to HTML. It is safe for concurrent use.
type Renderer struct {
	mu          sync.Mutex
	templateSet *pongo2.TemplateSet
	form        *pongo2.Template
}

// New constructs a Renderer and compiles the form template.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.templates == nil {
		cfg.templates = DefaultFS()
	}

	set := pongo2.NewSet("formprompt", pongo2.NewFSLoader(cfg.templates))
	if len(cfg.globalData) > 0 {
		globals, err := convertToContext(cfg.globalData)
		if err != nil {
			return nil, fmt.Errorf("preview: apply global data: %w", err)
		}
		if set.Globals == nil {
			set.Globals = make(pongo2.Context)
		}
		set.Globals.Update(globals)
	}

	form, err := set.FromFile(FormTemplate)
	if err != nil {
		return nil, fmt.Errorf("preview: load template %q: %w", FormTemplate, err)
	}
	return &Renderer{templateSet: set, form: form}, nil
}

// Render writes the HTML for schema to every writer in out and returns it.
// An empty title defaults to the labelled template name.
func (r *Renderer) Render(schema model.ResolvedSchema, title string, out ...io.Writer) (string, error) {
	if r == nil || r.form == nil {
		return "", errors.New("preview: renderer is nil")
	}
	if strings.TrimSpace(title) == "" {
		title = model.DefaultLabeler(schema.Template) + " Form"
	}

	view, err := convertToContext(newView(schema, title))
	if err != nil {
		return "", fmt.Errorf("preview: convert data: %w", err)
	}

	var buf bytes.Buffer
	r.mu.Lock()
	err = r.form.ExecuteWriter(view, &buf)
	r.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("preview: execute template: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

type formView struct {
	Title    string      `json:"title"`
	Template string      `json:"template"`
	Empty    bool        `json:"empty"`
	Message  string      `json:"message,omitempty"`
	Fields   []fieldView `json:"fields"`
}

type fieldView struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Type      string   `json:"type"`
	Source    string   `json:"source"`
	Control   string   `json:"control"`
	Input     string   `json:"input"`
	Required  bool     `json:"required"`
	Options   []string `json:"options,omitempty"`
	MinLength string   `json:"minLength,omitempty"`
	MaxLength string   `json:"maxLength,omitempty"`
	Min       string   `json:"min,omitempty"`
	Max       string   `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Rule      string   `json:"rule,omitempty"`
}

func newView(schema model.ResolvedSchema, title string) formView {
	view := formView{
		Title:    title,
		Template: schema.Template,
		Empty:    schema.Empty(),
		Fields:   make([]fieldView, 0, len(schema.Fields)),
	}
	if view.Empty {
		view.Message = EmptyMessage
	}
	for _, f := range schema.Fields {
		view.Fields = append(view.Fields, newFieldView(f))
	}
	return view
}

var inputTypes = map[catalog.FieldType]string{
	catalog.TypeText:      "text",
	catalog.TypeEmail:     "email",
	catalog.TypePassword:  "password",
	catalog.TypeNumber:    "number",
	catalog.TypeRange:     "range",
	catalog.TypeRating:    "number",
	catalog.TypeDate:      "date",
	catalog.TypeDateRange: "date",
	catalog.TypeTime:      "time",
	catalog.TypeFile:      "file",
	catalog.TypeURL:       "url",
	catalog.TypePhone:     "tel",
	catalog.TypeCheckbox:  "checkbox",
	catalog.TypeRadio:     "radio",
	catalog.TypeTags:      "text",
}

func newFieldView(f model.Field) fieldView {
	v := fieldView{
		ID:       f.ID,
		Label:    f.Label,
		Type:     string(f.Type),
		Source:   string(f.Source),
		Control:  "input",
		Input:    inputTypes[f.Type],
		Required: f.Required(),
		Options:  f.Options,
	}
	if v.Input == "" {
		v.Input = "text"
	}
	switch {
	case f.Type == catalog.TypeTextarea:
		v.Control = "textarea"
	case f.Type == catalog.TypeSelect:
		v.Control = "select"
	case len(f.Options) > 0 && (f.Type == catalog.TypeRadio || f.Type == catalog.TypeCheckbox):
		v.Control = "choices"
	}

	rules := f.Validation
	v.MinLength = formatRule(rules[catalog.RuleMinLength])
	v.MaxLength = formatRule(rules[catalog.RuleMaxLength])
	v.Min = formatRule(rules[catalog.RuleMin])
	v.Max = formatRule(rules[catalog.RuleMax])
	v.Pattern, _ = rules[catalog.RulePattern].(string)
	v.Rule, _ = rules[catalog.RuleRule].(string)
	return v
}

func formatRule(value any) string {
	switch n := value.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return n
	default:
		return ""
	}
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out := pongo2.Context{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
