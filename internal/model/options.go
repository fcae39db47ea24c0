package model

// Options configures how synthesized fields are labelled.
type Options struct {
	// Labeler turns free-text subjects (for example an options subject that
	// matched no catalog field) into display labels.
	Labeler func(string) string
}

// DefaultOptions returns the options used when callers supply none.
func DefaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}

// Normalize fills unset options with defaults.
func (o Options) Normalize() Options {
	if o.Labeler == nil {
		o.Labeler = DefaultLabeler
	}
	return o
}
