package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/intent"
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// rangeReach is the largest token distance at which a range binds to an
// existing numeric field.
const rangeReach = 6

// bind applies attribute, range, options and global signals to the
// candidate set.
func (r *Resolver) bind(ws *workset, b intent.Bundle, tokens []annotate.Token, targets []optionTarget, report *Report) {
	dynamic := 0
	for _, in := range b.Intents {
		switch v := in.(type) {
		case intent.Attribute:
			c := nearest(ws, v.Start, v.End, v.Prenominal, func(*candidate) bool { return true })
			if c == nil {
				report.Dropped[intent.KindAttribute.String()]++
				continue
			}
			for _, m := range ws.members(c) {
				m.overrides[catalog.RuleRequired] = v.Required
				m.explicit = true
			}
		case intent.Range:
			r.bindRange(ws, v, tokens, &dynamic)
		}
	}

	for _, t := range targets {
		c := ws.get(t.id)
		if c == nil {
			continue
		}
		for _, m := range ws.members(c) {
			m.field.Options = append([]string(nil), t.choices...)
			m.field.Type = catalog.TypeSelect
		}
	}

	if b.Global == nil {
		return
	}
	for _, c := range ws.list {
		if c.explicit || b.Exceptions[c.field.ID] || (c.group != "" && b.Exceptions[c.group]) {
			continue
		}
		c.overrides[catalog.RuleRequired] = *b.Global
	}
}

// bindRange sets bounds on the nearest numeric field, or creates a dynamic
// range field labelled after the closest preceding noun phrase.
func (r *Resolver) bindRange(ws *workset, v intent.Range, tokens []annotate.Token, dynamic *int) {
	target := nearest(ws, v.Start, v.End, false, func(c *candidate) bool { return c.field.Type.Numeric() })
	if target != nil && distance(target.pos, v.Start, v.End) <= rangeReach {
		for _, m := range ws.members(target) {
			applyRange(m, v)
		}
		return
	}

	*dynamic++
	c := &candidate{
		field: model.Field{
			ID:         fmt.Sprintf("DYNAMIC_RANGE_%d", *dynamic),
			Label:      r.rangeSubject(tokens, v.Start),
			Type:       catalog.TypeRange,
			Source:     model.SourceDynamicRange,
			Confidence: confidenceDynamic,
		},
		overrides: catalog.Validation{},
		rank:      -1,
	}
	applyRange(c, v)
	ws.add(c.at(v.Start))
}

func applyRange(c *candidate, v intent.Range) {
	c.overrides[catalog.RuleMin] = numberValue(v.Min)
	c.overrides[catalog.RuleMax] = numberValue(v.Max)
	c.field.Type = catalog.TypeRange
	c.field.Label = fmt.Sprintf("%s (%s-%s)", c.field.Label, formatNumber(v.Min), formatNumber(v.Max))
}

// rangeSubject labels a dynamic range from the last noun chunk before it.
func (r *Resolver) rangeSubject(tokens []annotate.Token, before int) string {
	label := "Rating"
	for _, chunk := range annotate.NounChunks(tokens) {
		if chunk.End > before {
			break
		}
		var words []string
		for i := chunk.Start; i < chunk.End; i++ {
			if !fuzzy.IsContainer(tokens[i].Lower) {
				words = append(words, tokens[i].Lower)
			}
		}
		if len(words) > 0 {
			label = r.cfg.Labels.Labeler(strings.Join(words, " "))
		}
	}
	return label
}

// nearest returns the positioned candidate closest to [start, end). On equal
// distance a prenominal signal prefers the following field and any other
// signal the preceding one; remaining ties keep synthesis order.
func nearest(ws *workset, start, end int, prenominal bool, accept func(*candidate) bool) *candidate {
	var best *candidate
	bestDist := 0
	for _, c := range ws.list {
		if !c.positioned || !accept(c) {
			continue
		}
		d := distance(c.pos, start, end)
		switch {
		case best == nil || d < bestDist:
			best, bestDist = c, d
		case d == bestDist && d > 0:
			after, bestAfter := c.pos >= end, best.pos >= end
			if prenominal && after && !bestAfter || !prenominal && !after && bestAfter {
				best = c
			}
		}
	}
	return best
}

func distance(pos, start, end int) int {
	switch {
	case pos < start:
		return start - pos
	case pos >= end:
		return pos - end + 1
	}
	return 0
}

func numberValue(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int(v)
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
