package clipset

type aggregateOptions struct {
	placeholder string
	idleLabel   string
}

// AggregateOption is a functional option for configuring Aggregate.
type AggregateOption func(*aggregateOptions)

// WithPlaceholderName is an option builder that sets the exporter placeholder clip name.
//
// Parameters:
//   - name: the base clip name to replace
//
// Returns:
//   - AggregateOption: a function that applies the placeholder name
func WithPlaceholderName(name string) AggregateOption {
	return func(o *aggregateOptions) {
		o.placeholder = name
	}
}

// WithIdleLabel is an option builder that sets the label placeholder base clips are renamed to.
//
// Parameters:
//   - label: the canonical idle label
//
// Returns:
//   - AggregateOption: a function that applies the idle label
func WithIdleLabel(label string) AggregateOption {
	return func(o *aggregateOptions) {
		if label != "" {
			o.idleLabel = label
		}
	}
}
