package spans

import "sort"

// Rule tags produced by the built-in matcher rules and the tagger adapter.
// Any other tag is a canonical field id.
const (
	TagRequired   = "ATTR_REQUIRED"
	TagOptional   = "ATTR_OPTIONAL"
	TagGlobalAll  = "ATTR_GLOBAL_ALL"
	TagNegation   = "LOGIC_NEGATION"
	TagQuantifier = "SMART_QUANTIFIER"
	TagRange      = "LOGIC_NUMERIC_RANGE"
	TagOptions    = "LOGIC_OPTIONS"
)

// Span is a half-open token range [Start, End) with a rule tag. Seq records
// discovery order and breaks ties during resolution.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag"`
	Seq   int    `json:"seq"`
}

// Len returns the number of tokens covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether token index i falls inside the span.
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Builtin reports whether the tag is one of the rule tags rather than a
// canonical field id.
func Builtin(tag string) bool {
	switch tag {
	case TagRequired, TagOptional, TagGlobalAll, TagNegation, TagQuantifier, TagRange, TagOptions:
		return true
	}
	return false
}

// Resolve returns the maximal non-overlapping subset of spans, preferring the
// longest span at each start. The input slice is not modified.
func Resolve(in []Span) []Span {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]Span, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() > sorted[j].Len()
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	out := make([]Span, 0, len(sorted))
	lastEnd := -1
	for _, span := range sorted {
		if span.Len() <= 0 {
			continue
		}
		if span.Start >= lastEnd {
			out = append(out, span)
			lastEnd = span.End
		}
	}
	return out
}
