package engine

import (
	"github.com/goliatone/go-formprompt/internal/model"
	"github.com/goliatone/go-formprompt/pkg/catalog"
)

// candidate is a field under construction. base holds the catalog and
// template layers; overrides holds values set by prompt signals.
type candidate struct {
	field      model.Field
	base       catalog.Validation
	overrides  catalog.Validation
	explicit   bool
	pos        int
	positioned bool
	// group links the copies produced by one quantifier or generic request.
	group string
	// rank is the template slot, or -1 for fields not taken from a template.
	rank int
	seq  int
}

func (c *candidate) at(pos int) *candidate {
	c.pos = pos
	c.positioned = true
	return c
}

// workset is the ordered, id-unique set of candidates.
type workset struct {
	list []*candidate
	byID map[string]*candidate
	seq  int
}

func newWorkset() *workset {
	return &workset{byID: make(map[string]*candidate)}
}

// add appends c unless its id is already present.
func (w *workset) add(c *candidate) bool {
	if _, ok := w.byID[c.field.ID]; ok {
		return false
	}
	if c.overrides == nil {
		c.overrides = catalog.Validation{}
	}
	if c.base == nil {
		c.base = catalog.Validation{}
	}
	c.seq = w.seq
	w.seq++
	w.list = append(w.list, c)
	w.byID[c.field.ID] = c
	return true
}

func (w *workset) has(id string) bool {
	_, ok := w.byID[id]
	return ok
}

func (w *workset) get(id string) *candidate {
	return w.byID[id]
}

// members returns every candidate sharing c's group, or c alone.
func (w *workset) members(c *candidate) []*candidate {
	if c.group == "" {
		return []*candidate{c}
	}
	var out []*candidate
	for _, other := range w.list {
		if other.group == c.group {
			out = append(out, other)
		}
	}
	return out
}

// remove drops every candidate for which drop returns true and returns the
// removed ids.
func (w *workset) remove(drop func(*candidate) bool) []string {
	kept := w.list[:0]
	var removed []string
	for _, c := range w.list {
		if drop(c) {
			delete(w.byID, c.field.ID)
			removed = append(removed, c.field.ID)
			continue
		}
		kept = append(kept, c)
	}
	w.list = kept
	return removed
}

// insertAfter moves c directly behind anchor.
func (w *workset) insertAfter(anchor, c *candidate) {
	out := make([]*candidate, 0, len(w.list))
	for _, item := range w.list {
		if item == c {
			continue
		}
		out = append(out, item)
		if item == anchor {
			out = append(out, c)
		}
	}
	w.list = out
}
