// Package catalog holds the immutable knowledge base of canonical field
// definitions and form templates. A Catalog is built once, never mutated,
// and safe to share between goroutines. Field and template accessors return
// copies; Rules shares its patterns and callers must not modify them.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/match"
)

var (
	fieldIDPattern   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	reservedPrefixes = []string{"ATTR_", "LOGIC_", "SMART_", "GENERIC_", "DYNAMIC_"}
	optionTypes      = map[FieldType]bool{TypeSelect: true, TypeRadio: true, TypeCheckbox: true, TypeTags: true}
)

// TemplateKey is one entry of the keyword index used for template detection.
type TemplateKey struct {
	Key        string
	TemplateID string
}

// KeywordEntry maps a case-folded keyword onto a field id.
type KeywordEntry struct {
	Keyword string
	FieldID string
}

// Catalog is the read-only field and template table.
type Catalog struct {
	fields      []FieldDefinition
	byID        map[string]int
	templates   map[string]FormTemplate
	templateIDs []string
	index       []TemplateKey
	keywords    []KeywordEntry
	rules       []match.Rule
	diagnostics []string
}

// New validates the records and builds a Catalog. Templates with an Alias
// and no fields are resolved transitively; cycles and dangling targets
// resolve to an empty template and are reported through Diagnostics.
func New(fields []FieldDefinition, templates []FormTemplate) (*Catalog, error) {
	c := &Catalog{
		byID:      make(map[string]int, len(fields)),
		templates: make(map[string]FormTemplate, len(templates)),
	}

	var issues []Issue
	for _, def := range fields {
		def = def.Clone()
		def.ID = strings.TrimSpace(def.ID)
		def.Label = strings.TrimSpace(def.Label)
		def.Validation = normalizeValidation(def.Validation)
		if def.Validation == nil {
			def.Validation = Validation{}
		}
		if problems := checkField(def); len(problems) > 0 {
			for _, p := range problems {
				issues = append(issues, Issue{Field: def.ID, Message: p})
			}
			continue
		}
		if _, exists := c.byID[def.ID]; exists {
			issues = append(issues, Issue{Field: def.ID, Message: "duplicate field id"})
			continue
		}
		c.byID[def.ID] = len(c.fields)
		c.fields = append(c.fields, def)
	}

	declared := make(map[string]FormTemplate, len(templates))
	for _, tpl := range templates {
		tpl = tpl.Clone()
		tpl.ID = strings.TrimSpace(tpl.ID)
		tpl.Alias = strings.TrimSpace(tpl.Alias)
		if tpl.ID == "" {
			issues = append(issues, Issue{Message: "template id is required"})
			continue
		}
		if _, exists := declared[tpl.ID]; exists {
			issues = append(issues, Issue{Field: tpl.ID, Message: "duplicate template id"})
			continue
		}
		for i, item := range tpl.Fields {
			item.Validation = normalizeValidation(item.Validation)
			tpl.Fields[i] = item
			idx, ok := c.byID[item.ID]
			if !ok {
				issues = append(issues, Issue{Field: tpl.ID, Message: fmt.Sprintf("unknown field %q", item.ID)})
				continue
			}
			for _, p := range checkValidation(c.fields[idx].Type, item.Validation) {
				issues = append(issues, Issue{Field: tpl.ID, Message: fmt.Sprintf("%s: %s", item.ID, p)})
			}
		}
		declared[tpl.ID] = tpl
		c.templateIDs = append(c.templateIDs, tpl.ID)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	sort.Strings(c.templateIDs)
	for _, id := range c.templateIDs {
		resolved, diag := resolveAlias(id, declared)
		if diag != "" {
			c.diagnostics = append(c.diagnostics, diag)
		}
		c.templates[id] = resolved
	}

	c.buildKeywords()
	c.buildRules()
	c.buildIndex()
	return c, nil
}

func checkField(def FieldDefinition) []string {
	var problems []string
	switch {
	case def.ID == "":
		problems = append(problems, "field id is required")
	case !fieldIDPattern.MatchString(def.ID):
		problems = append(problems, "field id must be upper snake case")
	default:
		for _, prefix := range reservedPrefixes {
			if strings.HasPrefix(def.ID, prefix) {
				problems = append(problems, fmt.Sprintf("field id uses reserved prefix %q", prefix))
			}
		}
	}
	if def.Label == "" {
		problems = append(problems, "label is required")
	}
	if !def.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown type %q", def.Type))
		return problems
	}
	problems = append(problems, checkValidation(def.Type, def.Validation)...)
	if len(def.Options) > 0 && !optionTypes[def.Type] {
		problems = append(problems, fmt.Sprintf("type %q cannot carry options", def.Type))
	}
	for i, p := range def.Patterns {
		if !match.Pattern(p).Valid() {
			problems = append(problems, fmt.Sprintf("pattern %d is invalid", i))
		}
	}
	return problems
}

func resolveAlias(id string, declared map[string]FormTemplate) (FormTemplate, string) {
	start := declared[id]
	current := start
	visited := map[string]bool{id: true}
	for current.Alias != "" && len(current.Fields) == 0 {
		next, ok := declared[current.Alias]
		if !ok {
			return FormTemplate{ID: id, Seeds: start.Seeds, Alias: start.Alias, Fields: []TemplateField{}},
				fmt.Sprintf("template %q: alias target %q not found", id, current.Alias)
		}
		if visited[next.ID] {
			return FormTemplate{ID: id, Seeds: start.Seeds, Alias: start.Alias, Fields: []TemplateField{}},
				fmt.Sprintf("template %q: alias cycle through %q", id, next.ID)
		}
		visited[next.ID] = true
		current = next
	}
	out := current.Clone()
	out.ID = id
	out.Seeds = append([]string(nil), start.Seeds...)
	out.Alias = start.Alias
	return out, ""
}

func (c *Catalog) buildKeywords() {
	for _, def := range c.fields {
		for _, kw := range append(append([]string(nil), def.Keywords...), def.Label) {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" {
				continue
			}
			c.keywords = append(c.keywords, KeywordEntry{Keyword: key, FieldID: def.ID})
		}
	}
}

func (c *Catalog) buildRules() {
	for _, def := range c.fields {
		rule := match.Rule{Tag: def.ID}
		if len(def.Patterns) > 0 {
			for _, p := range def.Patterns {
				rule.Patterns = append(rule.Patterns, match.Pattern(p))
			}
		} else {
			seen := make(map[string]bool)
			for _, phrase := range append([]string{def.Label}, def.Keywords...) {
				p := match.PhrasePattern(phrase)
				key := patternKey(p)
				if len(p) == 0 || seen[key] {
					continue
				}
				seen[key] = true
				rule.Patterns = append(rule.Patterns, p)
			}
		}
		if len(rule.Patterns) > 0 {
			c.rules = append(c.rules, rule)
		}
	}
}

func patternKey(p match.Pattern) string {
	parts := make([]string, len(p))
	for i, tok := range p {
		parts[i] = tok.Norm
	}
	return strings.Join(parts, " ")
}

func (c *Catalog) buildIndex() {
	seen := make(map[string]bool)
	for _, id := range c.templateIDs {
		tpl := c.templates[id]
		keys := append([]string{strings.ReplaceAll(id, "_", " ")}, tpl.Seeds...)
		for _, raw := range keys {
			key := fuzzy.Process(raw)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			c.index = append(c.index, TemplateKey{Key: key, TemplateID: id})
		}
	}
	sort.SliceStable(c.index, func(i, j int) bool {
		return len(c.index[i].Key) > len(c.index[j].Key)
	})
}

// Field returns a copy of the definition with the given id.
func (c *Catalog) Field(id string) (FieldDefinition, bool) {
	if c == nil {
		return FieldDefinition{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return FieldDefinition{}, false
	}
	return c.fields[idx].Clone(), true
}

// Has reports whether a field id exists.
func (c *Catalog) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// Fields returns copies of every field definition in catalog order.
func (c *Catalog) Fields() []FieldDefinition {
	if c == nil {
		return nil
	}
	out := make([]FieldDefinition, len(c.fields))
	for i, def := range c.fields {
		out[i] = def.Clone()
	}
	return out
}

// Template returns a copy of the resolved template.
func (c *Catalog) Template(id string) (FormTemplate, bool) {
	if c == nil {
		return FormTemplate{}, false
	}
	tpl, ok := c.templates[id]
	if !ok {
		return FormTemplate{}, false
	}
	return tpl.Clone(), true
}

// Templates returns copies of every resolved template sorted by id.
func (c *Catalog) Templates() []FormTemplate {
	if c == nil {
		return nil
	}
	out := make([]FormTemplate, 0, len(c.templateIDs))
	for _, id := range c.templateIDs {
		out = append(out, c.templates[id].Clone())
	}
	return out
}

// TemplateIndex returns the template keyword index, longest key first.
func (c *Catalog) TemplateIndex() []TemplateKey {
	if c == nil {
		return nil
	}
	return append([]TemplateKey(nil), c.index...)
}

// Keywords returns the keyword table: each field's keywords then its label,
// in catalog order.
func (c *Catalog) Keywords() []KeywordEntry {
	if c == nil {
		return nil
	}
	return append([]KeywordEntry(nil), c.keywords...)
}

// Rules returns the token pattern rules for field mentions, one per field in
// catalog order. The patterns are shared with the catalog.
func (c *Catalog) Rules() []match.Rule {
	if c == nil {
		return nil
	}
	return append([]match.Rule(nil), c.rules...)
}

// Diagnostics lists non-fatal load notes such as broken template aliases.
func (c *Catalog) Diagnostics() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.diagnostics...)
}

// Len returns the number of field definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}
