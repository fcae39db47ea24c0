package engine

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/intent"
	"github.com/goliatone/go-formprompt/internal/match"
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// Confidence per source.
const (
	confidenceMatcher    = 1.0
	confidenceQuantifier = 0.95
	confidenceTemplate   = 0.90
	confidenceDynamic    = 1.0
	confidenceGeneric    = 1.0
	confidenceFallback   = 0.85
)

// optionTarget records the field an options list resolved to.
type optionTarget struct {
	id      string
	choices []string
}

// synthesize builds the candidate set in priority order: generic requests,
// quantities, explicit mentions, template fields, options subjects and,
// when no template matched, a noun chunk scan.
func (r *Resolver) synthesize(b intent.Bundle, tokens []annotate.Token, tpl *catalog.FormTemplate, report *Report) (*workset, []optionTarget) {
	ws := newWorkset()
	quantified := make(map[string]bool)
	blocked := func(id string) bool {
		return b.Excluded[id] || quantified[id] || ws.has(id)
	}

	r.addGeneric(ws, b)

	for _, in := range b.Intents {
		q, ok := in.(intent.Quantity)
		if !ok || b.Excluded[q.FieldID] || quantified[q.FieldID] {
			continue
		}
		if r.addQuantity(ws, q) {
			quantified[q.FieldID] = true
		} else {
			report.Dropped[intent.KindQuantity.String()]++
		}
	}

	for _, in := range b.Intents {
		m, ok := in.(intent.Mention)
		if !ok || blocked(m.FieldID) {
			continue
		}
		if c, ok := r.fromCatalog(m.FieldID, model.SourceMatcher, confidenceMatcher); ok {
			ws.add(c.at(m.Start))
		}
	}

	if tpl != nil {
		for i, item := range tpl.Fields {
			if blocked(item.ID) {
				continue
			}
			c, ok := r.fromCatalog(item.ID, model.SourceTemplate, confidenceTemplate)
			if !ok {
				continue
			}
			c.base = catalog.MergeValidation(c.base, item.Validation)
			c.rank = i
			ws.add(c)
		}
	}

	var targets []optionTarget
	dynamic := 0
	for _, in := range b.Intents {
		o, ok := in.(intent.Options)
		if !ok {
			continue
		}
		id := r.optionSubject(ws, b, o, &dynamic)
		if id == "" {
			report.Dropped[intent.KindOptions.String()]++
			continue
		}
		targets = append(targets, optionTarget{id: id, choices: o.Choices})
	}

	if tpl == nil {
		r.scanChunks(ws, b, tokens, blocked)
	}
	return ws, targets
}

// fromCatalog copies a catalog definition into a fresh candidate.
func (r *Resolver) fromCatalog(id string, source model.Source, confidence float64) (*candidate, bool) {
	def, ok := r.cat.Field(id)
	if !ok {
		return nil, false
	}
	return &candidate{
		field: model.Field{
			ID:         def.ID,
			Label:      def.Label,
			Type:       def.Type,
			Options:    def.Options,
			Source:     source,
			Confidence: confidence,
		},
		base: def.Validation.Clone(),
		rank: -1,
	}, true
}

// addGeneric expands generic type requests. Numbering continues across
// requests for the same keyword.
func (r *Resolver) addGeneric(ws *workset, b intent.Bundle) {
	counts := make(map[string]int)
	for _, in := range b.Intents {
		g, ok := in.(intent.Generic)
		if !ok {
			continue
		}
		group := fmt.Sprintf("generic:%d", g.Start)
		for k := 0; k < g.Count; k++ {
			counts[g.Keyword]++
			n := counts[g.Keyword]
			c := &candidate{
				field: model.Field{
					ID:         fmt.Sprintf("GENERIC_%s_%d", strings.ToUpper(g.Keyword), n),
					Label:      fmt.Sprintf("%s Field #%d", r.cfg.Labels.Labeler(g.Keyword), n),
					Type:       g.Type,
					Source:     model.SourceGeneric,
					Confidence: confidenceGeneric,
				},
				group: group,
				rank:  -1,
			}
			ws.add(c.at(g.Start))
		}
	}
}

// addQuantity adds Count numbered copies of a catalog field. A count of one
// keeps the canonical id and label.
func (r *Resolver) addQuantity(ws *workset, q intent.Quantity) bool {
	if _, ok := r.cat.Field(q.FieldID); !ok {
		return false
	}
	added := false
	for n := 1; n <= q.Count; n++ {
		c, _ := r.fromCatalog(q.FieldID, model.SourceQuantifier, confidenceQuantifier)
		c.group = q.FieldID
		if q.Count > 1 {
			c.field.ID = fmt.Sprintf("%s_%d", q.FieldID, n)
			c.field.Label = fmt.Sprintf("%s #%d", c.field.Label, n)
		}
		if ws.add(c.at(q.Start)) {
			added = true
		}
	}
	return added
}

// optionSubject resolves the subject of an options list: a field already in
// the set, then a catalog field, then a new dynamic select.
func (r *Resolver) optionSubject(ws *workset, b intent.Bundle, o intent.Options, dynamic *int) string {
	cutoff := r.cfg.Cutoffs.Options
	subjects := []string{fuzzy.Process(o.Subject), fuzzy.Process(o.SubjectLemma)}

	var best *candidate
	bestScore := 0
	for _, c := range ws.list {
		label := fuzzy.Process(c.field.Label)
		for _, s := range subjects {
			if s == "" {
				continue
			}
			if score := fuzzy.WRatio(s, label); score > bestScore {
				best, bestScore = c, score
			}
		}
	}
	if best != nil && bestScore >= cutoff {
		return best.field.ID
	}

	if m, ok := r.canon.Best(cutoff, o.Subject, o.SubjectLemma); ok {
		if b.Excluded[m.ID] {
			return ""
		}
		if ws.has(m.ID) {
			return m.ID
		}
		if c, ok := r.fromCatalog(m.ID, model.SourceDynamicOptions, confidenceDynamic); ok {
			ws.add(c.at(o.Start))
			return m.ID
		}
	}

	*dynamic++
	c := &candidate{
		field: model.Field{
			ID:         fmt.Sprintf("DYNAMIC_SELECT_%d", *dynamic),
			Label:      r.cfg.Labels.Labeler(o.Subject),
			Type:       catalog.TypeSelect,
			Source:     model.SourceDynamicOptions,
			Confidence: confidenceDynamic,
		},
		rank: -1,
	}
	ws.add(c.at(o.Start))
	return c.field.ID
}

// scanChunks canonicalizes unclaimed noun chunks. It only runs when no
// template matched.
func (r *Resolver) scanChunks(ws *workset, b intent.Bundle, tokens []annotate.Token, blocked func(string) bool) {
	try := func(run []int) bool {
		lowers := make([]string, 0, len(run))
		lemmas := make([]string, 0, len(run))
		for _, idx := range run {
			lowers = append(lowers, tokens[idx].Lower)
			lemmas = append(lemmas, tokens[idx].Lemma)
		}
		m, ok := r.canon.Best(r.cfg.Cutoffs.Fallback, strings.Join(lowers, " "), strings.Join(lemmas, " "))
		if !ok || blocked(m.ID) {
			return false
		}
		c, ok := r.fromCatalog(m.ID, model.SourceFallbackScan, confidenceFallback)
		if !ok {
			return false
		}
		return ws.add(c.at(run[0]))
	}

	for _, chunk := range annotate.NounChunks(tokens) {
		var run []int
		flush := func() {
			if len(run) == 0 {
				return
			}
			if !try(run) && len(run) > 1 {
				try(run[len(run)-1:])
			}
			run = nil
		}
		for i := chunk.Start; i < chunk.End; i++ {
			if b.Claimed[i] || match.IsModifier(tokens[i].Lower) {
				flush()
				continue
			}
			run = append(run, i)
		}
		flush()
	}
}
