package match

import (
	"strings"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/spans"
)

var yes = true

func norm(word string) Token { return Token{Norm: word} }

func opt(word string) Token { return Token{Norm: word, Op: OpOptional} }

func anyOf(words ...string) Token { return Token{In: words} }

func num() Token { return Token{LikeNum: &yes} }

// GenericKeywords are the primitive type words a quantifier can target
// without naming a catalog field.
var GenericKeywords = []string{"text", "number", "date", "file", "url", "checkbox", "radio", "textarea", "option"}

// QuantifierKeywords end a quantifier span.
var QuantifierKeywords = append(append([]string(nil), GenericKeywords...), "reference", "comment", "question")

// RequiredWords and OptionalWords are the single-word attribute markers.
var (
	RequiredWords = []string{"required", "mandatory", "compulsory", "essential", "obligatory"}
	OptionalWords = []string{"optional", "optionally"}
)

// IsModifier reports whether the lowercased word is an attribute marker.
func IsModifier(word string) bool {
	return contains(RequiredWords, word) || contains(OptionalWords, word)
}

// Builtins returns the attribute, logic and quantifier rules. They are
// registered after catalog field rules.
func Builtins() []Rule {
	skipped := anyOf("skipped", "skip")
	notAux := anyOf("cannot", "can't", "cant")
	dont := anyOf("don't", "doesn't", "dont", "doesnt")
	have := anyOf("have", "has")
	obligation := anyOf(RequiredWords...)
	relaxed := anyOf("required", "mandatory", "compulsory", "needed", "necessary")
	// A quantifier may also close on a noun naming a field, as in "two email
	// fields"; container words are left outside the span.
	noun := Token{POS: []annotate.POS{annotate.POSNoun}, NotIn: fuzzy.Containers()}

	return []Rule{
		{Tag: spans.TagRequired, Patterns: []Pattern{
			{obligation},
			{norm("must"), norm("be")},
			{have, norm("to"), norm("be")},
			{norm("need"), norm("to"), norm("be")},
			{norm("not"), opt("be"), norm("optional")},
			{norm("be"), norm("not"), norm("optional")},
			{notAux, norm("be"), skipped},
			{norm("can"), norm("not"), norm("be"), skipped},
		}},
		{Tag: spans.TagOptional, Patterns: []Pattern{
			{anyOf(OptionalWords...)},
			{norm("not"), opt("be"), relaxed},
			{norm("be"), norm("not"), relaxed},
			{norm("can"), norm("be"), skipped},
			{dont, norm("have"), norm("to"), opt("be")},
			{anyOf("do", "does"), norm("not"), norm("have"), norm("to"), opt("be")},
		}},
		{Tag: spans.TagGlobalAll, Patterns: []Pattern{
			{anyOf("all", "every", "each"), opt("the"), norm("field")},
			{anyOf("all", "every", "each"), opt("the"), norm("input")},
			{anyOf("all", "every", "each"), opt("the"), norm("question")},
		}},
		{Tag: spans.TagNegation, Patterns: []Pattern{
			{anyOf("except", "without", "not", "no", "exclude", "excluding", "don't", "dont")},
		}},
		{Tag: spans.TagQuantifier, Patterns: []Pattern{
			{num(), Token{POS: []annotate.POS{annotate.POSAdj, annotate.POSNoun}, Op: OpAny}, anyOf(QuantifierKeywords...)},
			{num(), Token{POS: []annotate.POS{annotate.POSAdj}, Op: OpAny}, noun, Token{POS: noun.POS, NotIn: noun.NotIn, Op: OpOptional}},
		}},
		{Tag: spans.TagRange, Patterns: []Pattern{
			{num(), Token{Norm: "-", Op: OpOptional}, num()},
			{num(), norm("to"), num()},
		}},
		{Tag: spans.TagOptions, Patterns: []Pattern{
			{Token{POS: []annotate.POS{annotate.POSNoun, annotate.POSPropn}, Op: OpSome}, norm("with"), anyOf("option", "options", "choice", "choices"), Token{In: []string{"for", "of"}, Op: OpOptional}},
		}},
	}
}

// PhrasePattern derives a literal pattern from a keyword phrase.
func PhrasePattern(phrase string) Pattern {
	words := annotate.Tokenize(strings.ToLower(phrase))
	if len(words) == 0 {
		return nil
	}
	out := make(Pattern, len(words))
	for i, w := range words {
		out[i] = norm(w)
	}
	return out
}
