package model

// Options configures how fields are derived from placeholder tokens. Options
// are constructed by the public adapter in pkg/model.
type Options struct {
	Labeler func(string) string
}

// DefaultOptions returns the options used when callers supply none.
func DefaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
	}
}

// Merge fills unset values in o from the defaults.
func (o Options) Merge() Options {
	if o.Labeler == nil {
		o.Labeler = DefaultLabeler
	}
	return o
}
