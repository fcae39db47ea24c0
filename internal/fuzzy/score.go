package fuzzy

import (
	"strings"
	"unicode/utf8"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// minPartialRunes is the shortest phrase that may be scored against
// substrings of a longer one. Shorter phrases only compare whole strings.
const minPartialRunes = 3

// Process lowercases s, replaces non alphanumeric runes with spaces and
// collapses whitespace.
func Process(s string) string {
	return strings.Join(strings.Fields(fuzzywuzzy.Cleanse(s, false)), " ")
}

// Ratio is the normalised indel similarity of a and b in [0,100].
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzywuzzy.Ratio(a, b)
}

// PartialRatio is the best Ratio of the shorter string against the aligned
// substrings of the longer one.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzywuzzy.PartialRatio(a, b)
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) int {
	return fuzzywuzzy.TokenSortRatio(a, b)
}

// TokenSetRatio compares the shared and distinct word sets of a and b.
func TokenSetRatio(a, b string) int {
	return fuzzywuzzy.TokenSetRatio(a, b)
}

// WRatio combines the ratios above, weighting partial matches down when the
// strings differ a lot in length. Inputs are processed first. A phrase
// shorter than three runes never scores on a partial match, so a stray
// letter cannot stand for a keyword that merely contains it.
func WRatio(a, b string) int {
	a, b = Process(a), Process(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	if utf8.RuneCountInString(a) < minPartialRunes || utf8.RuneCountInString(b) < minPartialRunes {
		return fuzzywuzzy.Ratio(a, b)
	}
	return fuzzywuzzy.UWRatio(a, b)
}
