package fuzzy

import (
	"sort"
	"strings"
)

// Entry maps one case-folded keyword onto a canonical id.
type Entry struct {
	Key string
	ID  string
}

// Match is the best scoring entry for a phrase.
type Match struct {
	ID    string
	Key   string
	Score int
}

var containerWords = map[string]bool{
	"field": true, "fields": true, "box": true, "boxes": true,
	"input": true, "inputs": true, "section": true, "sections": true,
	"entry": true, "entries": true, "form": true, "forms": true,
}

// Canonicalizer resolves free text onto canonical ids. It holds no mutable
// state and is safe for concurrent use.
type Canonicalizer struct {
	entries []Entry
}

// NewCanonicalizer builds a canonicalizer over a keyword table. Earlier
// entries win ties and duplicate keys keep their first id.
func NewCanonicalizer(entries []Entry) *Canonicalizer {
	seen := make(map[string]bool, len(entries))
	table := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := Process(e.Key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		table = append(table, Entry{Key: key, ID: e.ID})
	}
	return &Canonicalizer{entries: table}
}

// Entries returns a copy of the processed keyword table.
func (c *Canonicalizer) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Best returns the highest scoring entry across the candidate phrases, or
// false when nothing reaches cutoff. Phrases are usually a surface form and
// its lemmatised variant.
func (c *Canonicalizer) Best(cutoff int, phrases ...string) (Match, bool) {
	if c == nil {
		return Match{}, false
	}
	var best Match
	found := false
	for _, raw := range phrases {
		phrase := TrimContainers(Process(raw))
		if phrase == "" {
			continue
		}
		for _, e := range c.entries {
			score := 100
			if e.Key != phrase {
				score = WRatio(phrase, e.Key)
			}
			if !found || score > best.Score {
				best = Match{ID: e.ID, Key: e.Key, Score: score}
				found = true
			}
			if score == 100 {
				break
			}
		}
		if found && best.Score == 100 {
			break
		}
	}
	if !found || best.Score < cutoff {
		return Match{}, false
	}
	return best, true
}

// TrimContainers drops generic container words such as "field" or "box"
// from a processed phrase.
func TrimContainers(phrase string) string {
	words := strings.Fields(phrase)
	kept := words[:0]
	for _, w := range words {
		if containerWords[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Containers lists the generic container words in sorted order.
func Containers() []string {
	out := make([]string, 0, len(containerWords))
	for w := range containerWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// IsContainer reports whether the word is a generic container word.
func IsContainer(word string) bool {
	return containerWords[strings.ToLower(word)]
}
