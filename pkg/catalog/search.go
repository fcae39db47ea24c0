package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchResult is one field returned by Search.
type SearchResult struct {
	Field   FieldDefinition
	Keyword string
	Score   int
}

type keywordSource []KeywordEntry

func (s keywordSource) String(i int) string { return s[i].Keyword }

func (s keywordSource) Len() int { return len(s) }

// Search finds fields whose keywords or labels contain the query characters
// in order, best first. limit <= 0 returns every hit.
func (c *Catalog) Search(query string, limit int) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if c == nil || query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, keywordSource(c.keywords))
	seen := make(map[string]bool)
	var out []SearchResult
	for _, m := range matches {
		entry := c.keywords[m.Index]
		if seen[entry.FieldID] {
			continue
		}
		seen[entry.FieldID] = true
		def, _ := c.Field(entry.FieldID)
		out = append(out, SearchResult{Field: def, Keyword: entry.Keyword, Score: m.Score})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
