package annotate

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’][\p{L}]+)?|\d+(?:\.\d+)?|[^\s\p{L}\p{M}\d]`)

// Heuristic is a lexicon driven annotator for short English form requests.
// It is deterministic and has no external model dependency.
type Heuristic struct{}

// NewHeuristic returns the default annotator.
func NewHeuristic() Heuristic {
	return Heuristic{}
}

// Annotate implements Annotator.
func (Heuristic) Annotate(text string) []Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := cases.Lower(language.Und)
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		surface := text[loc[0]:loc[1]]
		folded := lower.String(norm.NFKC.String(surface))
		folded = strings.ReplaceAll(folded, "’", "'")
		tok := Token{
			Index: len(tokens),
			Text:  surface,
			Lower: folded,
			Start: loc[0],
			End:   loc[1],
		}
		tok.LikeNum = LikeNum(folded)
		tok.POS = tagPOS(folded, tok.LikeNum)
		tok.Lemma = lemmatize(folded, tok.POS)
		tokens = append(tokens, tok)
	}
	return tokens
}

// Tokenize splits text into lowercased surface forms using the same rules as
// Annotate. Catalog keyword patterns are derived through it.
func Tokenize(text string) []string {
	tokens := NewHeuristic().Annotate(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Lower
	}
	return out
}

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "hundred": 100,
}

// LikeNum reports whether a lowercased token reads as a number.
func LikeNum(lower string) bool {
	if _, ok := numberWords[lower]; ok {
		return true
	}
	_, err := strconv.ParseFloat(lower, 64)
	return err == nil && lower != "" && lower[0] >= '0' && lower[0] <= '9'
}

// NumberValue parses a digit string or a spelled out number.
func NumberValue(lower string) (float64, bool) {
	if n, ok := numberWords[lower]; ok {
		return float64(n), true
	}
	if !LikeNum(lower) {
		return 0, false
	}
	v, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func tagPOS(lower string, likeNum bool) POS {
	if likeNum {
		return POSNum
	}
	if pos, ok := lexicon[lower]; ok {
		return pos
	}
	if _, ok := verbLemmas[lower]; ok {
		return POSVerb
	}
	r := []rune(lower)
	if len(r) == 1 && !isWordRune(r[0]) {
		return POSPunct
	}
	if strings.HasSuffix(lower, "ly") && len(lower) > 4 {
		return POSAdv
	}
	return POSNoun
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}

func lemmatize(lower string, pos POS) string {
	if lemma, ok := irregularLemmas[lower]; ok {
		return lemma
	}
	switch pos {
	case POSVerb:
		if lemma, ok := verbLemmas[lower]; ok {
			return lemma
		}
	case POSNoun, POSPropn:
		return singular(lower)
	}
	return lower
}

func singular(word string) string {
	n := len(word)
	switch {
	case n <= 3:
		return word
	case strings.HasSuffix(word, "ies") && n > 4:
		return word[:n-3] + "y"
	case strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zes"):
		return word[:n-2]
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"), strings.HasSuffix(word, "'s"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:n-1]
	}
	return word
}
