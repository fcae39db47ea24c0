// Package tagger converts entities proposed by an external sequence tagger
// into the spans the rule matcher would have produced.
package tagger

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/spans"
)

// QuantityGap is the largest character gap between a QUANTITY entity and the
// FIELD_NAME it counts.
const QuantityGap = 15

// Result is the outcome of one conversion.
type Result struct {
	Spans []spans.Span
	// FormTypes holds FORM_TYPE entity texts for template detection.
	FormTypes []string
	// Dropped counts entities that could not be mapped.
	Dropped int
}

// Convert maps entities onto token ranges. FIELD_NAME texts are
// canonicalized with canon at cutoff.
func Convert(tokens []annotate.Token, entities []annotate.Entity, canon *fuzzy.Canonicalizer, cutoff int) Result {
	ordered := append([]annotate.Entity(nil), entities...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var res Result
	emit := func(start, end int, tag string) {
		res.Spans = append(res.Spans, spans.Span{Start: start, End: end, Tag: tag, Seq: len(res.Spans)})
	}

	for i := 0; i < len(ordered); i++ {
		ent := ordered[i]
		start, end, ok := tokenRange(tokens, ent.Start, ent.End)
		if !ok {
			res.Dropped++
			continue
		}
		switch ent.Label {
		case annotate.EntityQuantity:
			if i+1 < len(ordered) && ordered[i+1].Label == annotate.EntityFieldName && ordered[i+1].Start-ent.End <= QuantityGap {
				if _, fend, ok := tokenRange(tokens, ordered[i+1].Start, ordered[i+1].End); ok {
					emit(start, fend, spans.TagQuantifier)
					i++
					continue
				}
			}
			res.Dropped++
		case annotate.EntityAttribute:
			emit(start, end, attributeTag(ent.Text))
		case annotate.EntityNegation:
			emit(start, end, spans.TagNegation)
		case annotate.EntityFieldName:
			m, ok := canon.Best(cutoff, ent.Text)
			if !ok {
				res.Dropped++
				continue
			}
			emit(start, end, m.ID)
		case annotate.EntityFormType:
			if text := strings.TrimSpace(ent.Text); text != "" {
				res.FormTypes = append(res.FormTypes, text)
			}
		default:
			res.Dropped++
		}
	}
	return res
}

func attributeTag(text string) string {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "optional") || strings.Contains(lower, "not required") || strings.Contains(lower, "skip") {
		return spans.TagOptional
	}
	return spans.TagRequired
}

// tokenRange returns the tokens overlapping the character range [from, to).
func tokenRange(tokens []annotate.Token, from, to int) (int, int, bool) {
	start, end := -1, -1
	for i, tok := range tokens {
		if tok.End <= from || tok.Start >= to {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	return start, end, start >= 0 && end > start
}
