package intent

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/internal/match"
	"github.com/goliatone/go-formprompt/internal/spans"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// MaxCount caps the number of copies a single quantifier can request.
const MaxCount = 20

// Config carries the thresholds used while classifying spans.
type Config struct {
	QuantityCutoff int
	NegationCutoff int
	NegationWindow int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{QuantityCutoff: 88, NegationCutoff: 88, NegationWindow: 8}
}

// Classifier maps resolved spans onto intents.
type Classifier struct {
	canon  *fuzzy.Canonicalizer
	cfg    Config
	policy *bluemonday.Policy
}

// NewClassifier builds a classifier that canonicalizes free phrases with
// canon.
func NewClassifier(canon *fuzzy.Canonicalizer, cfg Config) *Classifier {
	def := DefaultConfig()
	if cfg.QuantityCutoff <= 0 {
		cfg.QuantityCutoff = def.QuantityCutoff
	}
	if cfg.NegationCutoff <= 0 {
		cfg.NegationCutoff = def.NegationCutoff
	}
	if cfg.NegationWindow <= 0 {
		cfg.NegationWindow = def.NegationWindow
	}
	return &Classifier{
		canon:  canon,
		cfg:    cfg,
		policy: bluemonday.StrictPolicy(),
	}
}

var genericTypes = map[string]catalog.FieldType{
	"text":     catalog.TypeText,
	"number":   catalog.TypeNumber,
	"date":     catalog.TypeDate,
	"file":     catalog.TypeFile,
	"url":      catalog.TypeURL,
	"checkbox": catalog.TypeCheckbox,
	"radio":    catalog.TypeRadio,
	"textarea": catalog.TypeTextarea,
	"option":   catalog.TypeCheckbox,
}

// GenericType returns the field type of a generic keyword.
func GenericType(keyword string) (catalog.FieldType, bool) {
	t, ok := genericTypes[keyword]
	return t, ok
}

// Classify walks resolved spans in order and builds the intent bundle. text
// is the prompt the tokens were produced from; it is used to recover option
// values verbatim.
func (c *Classifier) Classify(text string, tokens []annotate.Token, resolved []spans.Span) Bundle {
	b := NewBundle()
	consumed := make(map[int]bool)

	for i, sp := range resolved {
		if sp.Tag == spans.TagGlobalAll {
			c.global(&b, tokens, resolved, i, consumed)
		}
	}

	for i, sp := range resolved {
		if consumed[i] || b.Claimed[sp.Start] {
			continue
		}
		switch sp.Tag {
		case spans.TagGlobalAll:
		case spans.TagRequired, spans.TagOptional:
			b.add(Attribute{
				Required:   sp.Tag == spans.TagRequired,
				Prenominal: prenominal(tokens, sp.End),
				Start:      sp.Start,
				End:        sp.End,
			})
			b.claim(sp.Start, sp.End)
		case spans.TagNegation:
			c.negation(&b, tokens, sp)
		case spans.TagQuantifier:
			c.quantity(&b, tokens, sp)
		case spans.TagRange:
			c.numericRange(&b, tokens, sp)
		case spans.TagOptions:
			c.options(&b, text, tokens, sp)
		default:
			b.add(Mention{FieldID: sp.Tag, Start: sp.Start, End: sp.End})
			b.claim(sp.Start, sp.End)
		}
	}

	if b.Global != nil {
		for id := range b.Excluded {
			if b.exceptOnly(id) {
				delete(b.Excluded, id)
			}
		}
	}
	return b
}

// exceptOnly reports whether every negation of id came from an "except"
// trigger.
func (b Bundle) exceptOnly(id string) bool {
	found := false
	for _, in := range b.Intents {
		n, ok := in.(Negation)
		if !ok || n.FieldID != id {
			continue
		}
		if !n.Except {
			return false
		}
		found = true
	}
	return found
}

func prenominal(tokens []annotate.Token, next int) bool {
	if next >= len(tokens) {
		return false
	}
	tok := tokens[next]
	return tok.Nominal() || tok.POS == annotate.POSAdj || tok.LikeNum
}

// global resolves an "all fields" span against an adjacent attribute,
// looking forward first and then backward.
func (c *Classifier) global(b *Bundle, tokens []annotate.Token, resolved []spans.Span, at int, consumed map[int]bool) {
	sp := resolved[at]
	consumed[at] = true
	b.claim(sp.Start, sp.End)

	if at+1 < len(resolved) {
		next := resolved[at+1]
		if isAttribute(next.Tag) && next.Start-sp.End <= 2 {
			c.setGlobal(b, next.Tag == spans.TagRequired)
			consumed[at+1] = true
			b.claim(next.Start, next.End)
			return
		}
	}
	if at > 0 && !consumed[at-1] {
		prev := resolved[at-1]
		if isAttribute(prev.Tag) && sp.Start-prev.End <= 2 {
			c.setGlobal(b, prev.Tag == spans.TagRequired)
			consumed[at-1] = true
			b.claim(prev.Start, prev.End)
			return
		}
	}
	b.drop(KindAttribute)
}

func (c *Classifier) setGlobal(b *Bundle, required bool) {
	v := required
	b.Global = &v
}

func isAttribute(tag string) bool {
	return tag == spans.TagRequired || tag == spans.TagOptional
}

// quantity handles "<number> [modifiers] <keyword>" spans.
func (c *Classifier) quantity(b *Bundle, tokens []annotate.Token, sp spans.Span) {
	b.claim(sp.Start, sp.End)
	value, ok := annotate.NumberValue(tokens[sp.Start].Lower)
	count := int(math.Floor(value))
	if !ok || count <= 0 {
		b.drop(KindQuantity)
		return
	}
	if count > MaxCount {
		count = MaxCount
	}

	var lowers, lemmas []string
	for i := sp.Start + 1; i < sp.End; i++ {
		tok := tokens[i]
		if match.IsModifier(tok.Lower) {
			b.add(Attribute{
				Required:   contains(match.RequiredWords, tok.Lower),
				Prenominal: true,
				Start:      sp.Start,
				End:        sp.Start + 1,
			})
			continue
		}
		lowers = append(lowers, tok.Lower)
		lemmas = append(lemmas, tok.Lemma)
	}
	if len(lemmas) == 0 {
		b.drop(KindQuantity)
		return
	}
	keyword := tokens[sp.End-1].Lemma
	phrase := strings.Join(lemmas, " ")

	if t, ok := genericTypes[phrase]; ok {
		b.add(Generic{Keyword: phrase, Type: t, Count: count, Start: sp.Start, End: sp.End})
		return
	}
	if m, ok := c.canon.Best(c.cfg.QuantityCutoff, strings.Join(lowers, " "), phrase); ok {
		b.add(Quantity{FieldID: m.ID, Count: count, Start: sp.Start, End: sp.End})
		return
	}
	if t, ok := genericTypes[keyword]; ok {
		b.add(Generic{Keyword: keyword, Type: t, Count: count, Start: sp.Start, End: sp.End})
		return
	}
	if m, ok := c.canon.Best(c.cfg.QuantityCutoff, keyword); ok {
		b.add(Quantity{FieldID: m.ID, Count: count, Start: sp.Start, End: sp.End})
		return
	}
	b.drop(KindQuantity)
}

// startsClause reports whether the noun phrase at from is followed by an
// attribute or a verb, as in "no phone, email required".
func startsClause(tokens []annotate.Token, from int) bool {
	i := from
	for i < len(tokens) && (tokens[i].Nominal() || (tokens[i].POS == annotate.POSAdj && !match.IsModifier(tokens[i].Lower))) {
		i++
	}
	if i == from || i == len(tokens) {
		return false
	}
	return match.IsModifier(tokens[i].Lower) || tokens[i].Verbal()
}

var negationStops = map[string]bool{
	"with": true, "but": true, "while": true,
	".": true, ";": true, "!": true, "?": true,
}

// negation canonicalizes the noun phrases that follow a negation trigger.
func (c *Classifier) negation(b *Bundle, tokens []annotate.Token, sp spans.Span) {
	b.claim(sp.Start, sp.End)
	except := tokens[sp.Start].Lower == "except"

	limit := sp.End + c.cfg.NegationWindow
	if limit > len(tokens) {
		limit = len(tokens)
	}

	var runs [][]int
	var run []int
	flush := func() {
		if len(run) > 0 {
			runs = append(runs, run)
			run = nil
		}
	}
	seenNoun := false
	for i := sp.End; i < limit; i++ {
		tok := tokens[i]
		if negationStops[tok.Lower] || (tok.Verbal() && seenNoun) {
			break
		}
		if tok.Lower == "," && seenNoun && startsClause(tokens, i+1) {
			break
		}
		switch {
		case tok.Nominal():
			seenNoun = true
			run = append(run, i)
		case tok.POS == annotate.POSAdj && !match.IsModifier(tok.Lower):
			run = append(run, i)
		case tok.Lower == "of" && len(run) > 0 && i+1 < limit && tokens[i+1].Nominal():
			run = append(run, i)
		default:
			flush()
		}
	}
	flush()

	found := false
	for _, run := range runs {
		for i := 0; i < len(run); {
			n := c.negatedPhrase(b, tokens, run[i:], except)
			if n == 0 {
				i++
				continue
			}
			found = true
			i += n
		}
	}
	if !found {
		b.drop(KindNegation)
	}
}

// negatedPhrase tries the longest n-gram at the head of run and reports how
// many tokens it consumed.
func (c *Classifier) negatedPhrase(b *Bundle, tokens []annotate.Token, run []int, except bool) int {
	longest := 3
	if len(run) < longest {
		longest = len(run)
	}
	for n := longest; n >= 1; n-- {
		gram := run[:n]
		if !tokens[gram[n-1]].Nominal() && !tokens[gram[0]].Nominal() {
			continue
		}
		lowers := make([]string, n)
		lemmas := make([]string, n)
		for k, idx := range gram {
			lowers[k] = tokens[idx].Lower
			lemmas[k] = tokens[idx].Lemma
		}
		m, ok := c.canon.Best(c.cfg.NegationCutoff, strings.Join(lowers, " "), strings.Join(lemmas, " "))
		if !ok {
			continue
		}
		start, end := gram[0], gram[n-1]+1
		b.add(Negation{FieldID: m.ID, Except: except, Start: start, End: end})
		if except {
			b.Exceptions[m.ID] = true
		}
		b.Excluded[m.ID] = true
		b.claim(start, end)
		return n
	}
	return 0
}

// numericRange reads the two bounds of a range span.
func (c *Classifier) numericRange(b *Bundle, tokens []annotate.Token, sp spans.Span) {
	b.claim(sp.Start, sp.End)
	var values []float64
	for i := sp.Start; i < sp.End; i++ {
		if v, ok := annotate.NumberValue(tokens[i].Lower); ok {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		b.drop(KindRange)
		return
	}
	lo, hi := values[0], values[len(values)-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	b.add(Range{Min: lo, Max: hi, Start: sp.Start, End: sp.End})
}

var (
	optionSplit  = regexp.MustCompile(`(?i)\s*(?:,|/|\band\b|\bor\b)\s*`)
	optionTrim   = " \t:;.-\"'“”‘’()[]"
	optionStops  = map[string]bool{"is": true, "are": true, "make": true, "add": true, "include": true, "also": true, "then": true, "with": true}
	optionBreaks = map[string]bool{".": true, ";": true, "!": true, "?": true}
)

// options reads "<subject> with options a, b and c" spans. The list runs to
// the next clause boundary.
func (c *Classifier) options(b *Bundle, text string, tokens []annotate.Token, sp spans.Span) {
	with := sp.Start
	for with < sp.End && tokens[with].Lower != "with" {
		with++
	}
	var lowers, lemmas []string
	for i := sp.Start; i < with; i++ {
		if fuzzy.IsContainer(tokens[i].Lower) {
			continue
		}
		lowers = append(lowers, tokens[i].Lower)
		lemmas = append(lemmas, tokens[i].Lemma)
	}

	end := sp.End
	for end < len(tokens) {
		tok := tokens[end]
		if optionStops[tok.Lower] || optionBreaks[tok.Lower] || match.IsModifier(tok.Lower) {
			break
		}
		end++
	}
	b.claim(sp.Start, end)
	if end == sp.End || len(lemmas) == 0 {
		b.drop(KindOptions)
		return
	}

	choices := c.splitChoices(sliceText(text, tokens[sp.End:end]))
	if len(choices) == 0 {
		b.drop(KindOptions)
		return
	}
	b.add(Options{
		Subject:      strings.Join(lowers, " "),
		SubjectLemma: strings.Join(lemmas, " "),
		Choices:      choices,
		Start:        sp.Start,
		End:          end,
	})
}

// sliceText returns the source text covered by tokens, or the joined token
// surfaces when the offsets do not fit text.
func sliceText(text string, tokens []annotate.Token) string {
	first, last := tokens[0], tokens[len(tokens)-1]
	if first.Start >= 0 && first.Start <= last.End && last.End <= len(text) && first.End > first.Start {
		return text[first.Start:last.End]
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

func (c *Classifier) splitChoices(raw string) []string {
	title := cases.Title(language.Und)
	var out []string
	seen := make(map[string]bool)
	clean := html.UnescapeString(c.policy.Sanitize(raw))
	for _, part := range optionSplit.Split(clean, -1) {
		value := strings.Trim(part, optionTrim)
		if value == "" {
			continue
		}
		if value == strings.ToLower(value) {
			value = title.String(value)
		}
		key := strings.ToLower(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, value)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
