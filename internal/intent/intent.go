// Package intent turns resolved spans into typed request signals.
package intent

import "github.com/goliatone/go-formprompt/pkg/catalog"

// Kind tags the variants of Intent.
type Kind int

const (
	KindMention Kind = iota + 1
	KindQuantity
	KindGeneric
	KindNegation
	KindAttribute
	KindRange
	KindOptions
)

func (k Kind) String() string {
	switch k {
	case KindMention:
		return "mention"
	case KindQuantity:
		return "quantity"
	case KindGeneric:
		return "generic"
	case KindNegation:
		return "negation"
	case KindAttribute:
		return "attribute"
	case KindRange:
		return "range"
	case KindOptions:
		return "options"
	}
	return "unknown"
}

// Intent is a closed union; the variants below are the only implementations.
type Intent interface {
	Kind() Kind
	// Tokens returns the half-open token range the signal came from.
	Tokens() (start, end int)
}

// Mention is an explicit reference to a catalog field.
type Mention struct {
	FieldID    string
	Start, End int
}

// Quantity asks for Count copies of a catalog field.
type Quantity struct {
	FieldID    string
	Count      int
	Start, End int
}

// Generic asks for Count freestanding fields of a primitive type.
type Generic struct {
	Keyword    string
	Type       catalog.FieldType
	Count      int
	Start, End int
}

// Negation removes a field, or exempts it from a global attribute when the
// trigger was "except".
type Negation struct {
	FieldID    string
	Except     bool
	Start, End int
}

// Attribute sets the required flag on the nearest field. Prenominal marks
// attributes written before the noun they modify.
type Attribute struct {
	Required   bool
	Prenominal bool
	Start, End int
}

// Range bounds a numeric field.
type Range struct {
	Min, Max   float64
	Start, End int
}

// Options attaches a list of choices to a subject.
type Options struct {
	Subject      string
	SubjectLemma string
	Choices      []string
	Start, End   int
}

func (Mention) Kind() Kind   { return KindMention }
func (Quantity) Kind() Kind  { return KindQuantity }
func (Generic) Kind() Kind   { return KindGeneric }
func (Negation) Kind() Kind  { return KindNegation }
func (Attribute) Kind() Kind { return KindAttribute }
func (Range) Kind() Kind     { return KindRange }
func (Options) Kind() Kind   { return KindOptions }

func (m Mention) Tokens() (int, int)   { return m.Start, m.End }
func (q Quantity) Tokens() (int, int)  { return q.Start, q.End }
func (g Generic) Tokens() (int, int)   { return g.Start, g.End }
func (n Negation) Tokens() (int, int)  { return n.Start, n.End }
func (a Attribute) Tokens() (int, int) { return a.Start, a.End }
func (r Range) Tokens() (int, int)     { return r.Start, r.End }
func (o Options) Tokens() (int, int)   { return o.Start, o.End }

// Bundle accumulates every intent of one prompt before synthesis starts.
type Bundle struct {
	Intents []Intent
	// Excluded holds field ids that must not appear in the output.
	Excluded map[string]bool
	// Exceptions holds field ids exempt from the global attribute.
	Exceptions map[string]bool
	// Global is the default required flag set by "all fields ..." phrasing.
	Global *bool
	// Claimed marks token indices consumed by a signal.
	Claimed map[int]bool
	// Dropped counts signals that could not be resolved, by kind.
	Dropped map[string]int
}

// NewBundle returns an empty bundle.
func NewBundle() Bundle {
	return Bundle{
		Excluded:   make(map[string]bool),
		Exceptions: make(map[string]bool),
		Claimed:    make(map[int]bool),
		Dropped:    make(map[string]int),
	}
}

// Has reports whether any intent of kind k was recorded.
func (b Bundle) Has(k Kind) bool {
	for _, in := range b.Intents {
		if in.Kind() == k {
			return true
		}
	}
	return false
}

// ExcludedIDs returns the excluded ids in first-seen order.
func (b Bundle) ExcludedIDs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, in := range b.Intents {
		n, ok := in.(Negation)
		if !ok || seen[n.FieldID] || !b.Excluded[n.FieldID] {
			continue
		}
		seen[n.FieldID] = true
		out = append(out, n.FieldID)
	}
	return out
}

func (b *Bundle) add(in Intent) {
	b.Intents = append(b.Intents, in)
}

func (b *Bundle) claim(start, end int) {
	for i := start; i < end; i++ {
		b.Claimed[i] = true
	}
}

func (b *Bundle) drop(kind Kind) {
	b.Dropped[kind.String()]++
}
