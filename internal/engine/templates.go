package engine

import (
	"strings"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/fuzzy"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// templateMatch is the winning template index entry.
type templateMatch struct {
	ID    string
	Key   string
	Score int
}

// detectTemplate scores every index key against the prompt. An exact
// whole-word occurrence scores 100; otherwise the best Ratio against
// prompt n-grams of the key's word count is used. The index is sorted by
// key length descending, so on equal scores the longest key wins.
func detectTemplate(index []catalog.TemplateKey, tokens []annotate.Token, formTypes []string, cutoff, formTypeCutoff int) (templateMatch, bool) {
	lowers := make([]string, len(tokens))
	lemmas := make([]string, len(tokens))
	for i, tok := range tokens {
		lowers[i] = tok.Lower
		lemmas[i] = tok.Lemma
	}
	prompts := []string{
		fuzzy.Process(strings.Join(lowers, " ")),
		fuzzy.Process(strings.Join(lemmas, " ")),
	}
	var phrases []string
	for _, ft := range formTypes {
		if p := fuzzy.Process(ft); p != "" {
			phrases = append(phrases, p)
		}
	}

	var best templateMatch
	found := false
	for _, entry := range index {
		score := 0
		for _, prompt := range prompts {
			if s := keyScore(prompt, entry.Key); s > score {
				score = s
			}
		}
		passed := score >= cutoff
		for _, phrase := range phrases {
			if s := fuzzy.WRatio(phrase, entry.Key); s >= formTypeCutoff && s > score {
				score = s
				passed = true
			}
		}
		if !passed {
			continue
		}
		if !found || score > best.Score {
			best = templateMatch{ID: entry.TemplateID, Key: entry.Key, Score: score}
			found = true
		}
	}
	return best, found
}

func keyScore(prompt, key string) int {
	if prompt == "" || key == "" {
		return 0
	}
	if strings.Contains(" "+prompt+" ", " "+key+" ") {
		return 100
	}
	words := strings.Fields(prompt)
	n := len(strings.Fields(key))
	best := 0
	for i := 0; i+n <= len(words); i++ {
		if s := fuzzy.Ratio(strings.Join(words[i:i+n], " "), key); s > best {
			best = s
		}
	}
	return best
}
