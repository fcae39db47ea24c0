// Package engine resolves annotated prompts into form schemas. It is a pure
// function of the prompt, the token sequence and the catalog; the public
// wrapper in pkg/engine adds annotation, logging and metrics.
package engine

import (
	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/intent"
	"github.com/goliatone/go-formprompt/internal/match"
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/internal/spans"
	"github.com/goliatone/go-formprompt/internal/tagger"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// Input is one prompt with its annotation. When Entities is non-empty the
// spans come from the tagger adapter instead of the catalog rules.
type Input struct {
	Prompt   string
	Tokens   []annotate.Token
	Entities []annotate.Entity
}

// Report describes how a resolution was reached.
type Report struct {
	Template      string
	TemplateKey   string
	TemplateScore int
	Spans         []spans.Span
	Intents       int
	Excluded      []string
	// Dropped counts signals that produced no field change, by kind.
	Dropped map[string]int
}

// Resolver holds the compiled catalog rules. It has no mutable state and is
// safe for concurrent use.
type Resolver struct {
	cat        *catalog.Catalog
	matcher    *match.Matcher
	builtins   *match.Matcher
	canon      *fuzzy.Canonicalizer
	classifier *intent.Classifier
	cfg        Config
}

// NewResolver compiles the catalog rules. Catalog field rules are registered
// before the built-in attribute and logic rules.
func NewResolver(cat *catalog.Catalog, cfg Config) *Resolver {
	cfg = cfg.normalize()
	builtins := match.Builtins()
	rules := append(cat.Rules(), builtins...)

	keywords := cat.Keywords()
	entries := make([]fuzzy.Entry, len(keywords))
	for i, kw := range keywords {
		entries[i] = fuzzy.Entry{Key: kw.Keyword, ID: kw.FieldID}
	}
	canon := fuzzy.NewCanonicalizer(entries)

	var logic []match.Rule
	for _, rule := range builtins {
		if rule.Tag == spans.TagRange || rule.Tag == spans.TagOptions {
			logic = append(logic, rule)
		}
	}

	return &Resolver{
		cat:      cat,
		matcher:  match.New(rules...),
		builtins: match.New(logic...),
		canon:    canon,
		classifier: intent.NewClassifier(canon, intent.Config{
			QuantityCutoff: cfg.Cutoffs.Quantity,
			NegationCutoff: cfg.Cutoffs.Negation,
			NegationWindow: cfg.NegationWindow,
		}),
		cfg: cfg,
	}
}

// Config returns the normalized configuration.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Catalog returns the catalog the resolver was compiled from.
func (r *Resolver) Catalog() *catalog.Catalog {
	return r.cat
}

// Resolve runs the full pipeline. It never fails: prompts it cannot
// interpret yield a custom schema with no fields.
func (r *Resolver) Resolve(in Input) (model.ResolvedSchema, Report) {
	report := Report{Dropped: make(map[string]int)}
	if len(in.Tokens) == 0 {
		return model.ResolvedSchema{Template: model.TemplateCustom, Fields: []model.Field{}}, report
	}

	raw, formTypes := r.spans(in, &report)
	resolved := spans.Resolve(raw)
	report.Spans = resolved

	bundle := r.classifier.Classify(in.Prompt, in.Tokens, resolved)
	report.Intents = len(bundle.Intents)
	report.Excluded = bundle.ExcludedIDs()
	for kind, n := range bundle.Dropped {
		report.Dropped[kind] += n
	}

	var tpl *catalog.FormTemplate
	if !bundle.Has(intent.KindGeneric) {
		if m, ok := detectTemplate(r.cat.TemplateIndex(), in.Tokens, formTypes, r.cfg.Cutoffs.Template, r.cfg.Cutoffs.FormType); ok {
			if t, ok := r.cat.Template(m.ID); ok {
				tpl = &t
				report.Template = m.ID
				report.TemplateKey = m.Key
				report.TemplateScore = m.Score
			}
		}
	}

	ws, targets := r.synthesize(bundle, in.Tokens, tpl, &report)
	excludeFields(ws, bundle.Excluded)
	r.bind(ws, bundle, in.Tokens, targets, &report)
	dedupeNames(ws)
	order(ws, r.cfg.Ordering)
	r.placeConfirmation(ws, bundle, in.Tokens)

	schema := model.ResolvedSchema{Template: model.TemplateCustom, Fields: finalize(ws)}
	if tpl != nil {
		schema.Template = tpl.ID
	}
	return schema, report
}

// spans produces raw spans either from the catalog rules or from tagger
// entities plus the built-in range and options rules.
func (r *Resolver) spans(in Input, report *Report) ([]spans.Span, []string) {
	if len(in.Entities) == 0 {
		return r.matcher.Find(in.Tokens), nil
	}
	res := tagger.Convert(in.Tokens, in.Entities, r.canon, r.cfg.Cutoffs.Mention)
	if res.Dropped > 0 {
		report.Dropped["entity"] += res.Dropped
	}
	out := res.Spans
	for _, sp := range r.builtins.Find(in.Tokens) {
		sp.Seq += len(res.Spans)
		out = append(out, sp)
	}
	return out, res.FormTypes
}
