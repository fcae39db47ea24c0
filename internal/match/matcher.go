package match

import (
	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/spans"
)

// Op is a quantifier applied to a pattern token.
type Op string

const (
	OpOne      Op = ""
	OpOptional Op = "?"
	OpAny      Op = "*"
	OpSome     Op = "+"
)

// Token constrains a single annotated token. Every non-empty constraint must
// hold for the token to match.
type Token struct {
	// Norm matches either the lowercased text or the lemma.
	Norm    string         `json:"norm,omitempty" yaml:"norm,omitempty"`
	Lower   string         `json:"lower,omitempty" yaml:"lower,omitempty"`
	Lemma   string         `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	In      []string       `json:"in,omitempty" yaml:"in,omitempty"`
	NotIn   []string       `json:"notIn,omitempty" yaml:"notIn,omitempty"`
	POS     []annotate.POS `json:"pos,omitempty" yaml:"pos,omitempty"`
	LikeNum *bool          `json:"likeNum,omitempty" yaml:"likeNum,omitempty"`
	Op      Op             `json:"op,omitempty" yaml:"op,omitempty"`
}

// Pattern is an ordered token sequence.
type Pattern []Token

// Rule groups the patterns that produce one tag.
type Rule struct {
	Tag      string
	Patterns []Pattern
}

// Matches reports whether tok satisfies the constraint.
func (p Token) Matches(tok annotate.Token) bool {
	if p.Norm != "" && tok.Lower != p.Norm && tok.Lemma != p.Norm {
		return false
	}
	if p.Lower != "" && tok.Lower != p.Lower {
		return false
	}
	if p.Lemma != "" && tok.Lemma != p.Lemma {
		return false
	}
	if len(p.In) > 0 && !contains(p.In, tok.Lower) && !contains(p.In, tok.Lemma) {
		return false
	}
	if contains(p.NotIn, tok.Lower) || contains(p.NotIn, tok.Lemma) {
		return false
	}
	if len(p.POS) > 0 {
		ok := false
		for _, pos := range p.POS {
			if tok.POS == pos {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if p.LikeNum != nil && tok.LikeNum != *p.LikeNum {
		return false
	}
	return true
}

// Valid reports whether the pattern can match at least one token and every
// operator is known.
func (p Pattern) Valid() bool {
	required := false
	for _, tok := range p {
		switch tok.Op {
		case OpOne, OpSome:
			required = true
		case OpOptional, OpAny:
		default:
			return false
		}
	}
	return required
}

// Matcher finds every occurrence of its rules in a token sequence.
type Matcher struct {
	rules []Rule
}

// New builds a matcher. Rules registered first are reported first for
// matches starting at the same token.
func New(rules ...Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// Find returns all matches, possibly overlapping, ordered by start token,
// then rule registration order, then end token.
func (m *Matcher) Find(tokens []annotate.Token) []spans.Span {
	if m == nil {
		return nil
	}
	var out []spans.Span
	type key struct {
		tag        string
		start, end int
	}
	seen := make(map[key]bool)
	for start := range tokens {
		for _, rule := range m.rules {
			for _, pattern := range rule.Patterns {
				ends := make(map[int]bool)
				walk(tokens, pattern, start, 0, ends)
				for end := start + 1; end <= len(tokens); end++ {
					if !ends[end] {
						continue
					}
					k := key{rule.Tag, start, end}
					if seen[k] {
						continue
					}
					seen[k] = true
					out = append(out, spans.Span{Start: start, End: end, Tag: rule.Tag, Seq: len(out)})
				}
			}
		}
	}
	return out
}

func walk(tokens []annotate.Token, pattern Pattern, pos, k int, ends map[int]bool) {
	if k == len(pattern) {
		ends[pos] = true
		return
	}
	p := pattern[k]
	switch p.Op {
	case OpOptional:
		walk(tokens, pattern, pos, k+1, ends)
		if pos < len(tokens) && p.Matches(tokens[pos]) {
			walk(tokens, pattern, pos+1, k+1, ends)
		}
	case OpAny, OpSome:
		if p.Op == OpAny {
			walk(tokens, pattern, pos, k+1, ends)
		}
		for j := pos; j < len(tokens) && p.Matches(tokens[j]); j++ {
			walk(tokens, pattern, j+1, k+1, ends)
		}
	default:
		if pos < len(tokens) && p.Matches(tokens[pos]) {
			walk(tokens, pattern, pos+1, k+1, ends)
		}
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
