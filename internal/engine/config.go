package engine

import "github.com/goliatone/go-formprompt/internal/model"

// Ordering selects how output fields are ordered.
type Ordering string

const (
	// OrderSynthesis keeps the order in which fields were synthesized.
	OrderSynthesis Ordering = "synthesis"
	// OrderMention sorts unpositioned template fields first, then the rest
	// by the prompt position that produced them.
	OrderMention Ordering = "mention"
)

// Valid reports whether o is a known ordering.
func (o Ordering) Valid() bool {
	return o == OrderSynthesis || o == OrderMention
}

// Cutoffs are the fuzzy score thresholds, on a 0-100 scale.
type Cutoffs struct {
	// Mention applies to FIELD_NAME entities from an external tagger.
	Mention  int `json:"mention" yaml:"mention" mapstructure:"mention"`
	Quantity int `json:"quantity" yaml:"quantity" mapstructure:"quantity"`
	Negation int `json:"negation" yaml:"negation" mapstructure:"negation"`
	Options  int `json:"options" yaml:"options" mapstructure:"options"`
	Template int `json:"template" yaml:"template" mapstructure:"template"`
	Fallback int `json:"fallback" yaml:"fallback" mapstructure:"fallback"`
	// FormType applies to FORM_TYPE entities from an external tagger.
	FormType int `json:"form_type" yaml:"form_type" mapstructure:"form_type"`
}

// DefaultCutoffs returns the standard thresholds.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{
		Mention:  85,
		Quantity: 88,
		Negation: 88,
		Options:  85,
		Template: 88,
		Fallback: 88,
		FormType: 85,
	}
}

// withDefaults fills zero thresholds from DefaultCutoffs.
func (c Cutoffs) withDefaults() Cutoffs {
	def := DefaultCutoffs()
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&c.Mention, def.Mention)
	fill(&c.Quantity, def.Quantity)
	fill(&c.Negation, def.Negation)
	fill(&c.Options, def.Options)
	fill(&c.Template, def.Template)
	fill(&c.Fallback, def.Fallback)
	fill(&c.FormType, def.FormType)
	return c
}

// DefaultNegationWindow is the number of tokens scanned after a negation
// trigger.
const DefaultNegationWindow = 8

// Config tunes a Resolver.
type Config struct {
	Cutoffs        Cutoffs
	NegationWindow int
	Ordering       Ordering
	Labels         model.Options
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		Cutoffs:        DefaultCutoffs(),
		NegationWindow: DefaultNegationWindow,
		Ordering:       OrderSynthesis,
		Labels:         model.DefaultOptions(),
	}
}

func (c Config) normalize() Config {
	c.Cutoffs = c.Cutoffs.withDefaults()
	if c.NegationWindow <= 0 {
		c.NegationWindow = DefaultNegationWindow
	}
	if !c.Ordering.Valid() {
		c.Ordering = OrderSynthesis
	}
	c.Labels = c.Labels.Normalize()
	return c
}
