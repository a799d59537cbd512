package kb

// DefaultRoot is the id of the designated root class when none is configured.
const DefaultRoot = "owl:Thing"

// DefaultInstanceCacheSize bounds the number of inferred-instance bitmaps
// kept by InstancesOf.
const DefaultInstanceCacheSize = 1024

type options struct {
	root              string
	instanceCacheSize int
}

func defaultOptions() options {
	return options{
		root:              DefaultRoot,
		instanceCacheSize: DefaultInstanceCacheSize,
	}
}

// Option configures knowledge base construction.
type Option func(*options)

// WithRoot sets the id of the root class. Every class without an asserted
// parent becomes a direct subclass of the root.
func WithRoot(id string) Option {
	return func(o *options) {
		if id != "" {
			o.root = id
		}
	}
}

// WithInstanceCacheSize bounds the LRU of lazily computed inferred
// instances. A size <= 0 disables caching: every InstancesOf call recomputes
// the union of direct instances over the subclass closure.
func WithInstanceCacheSize(n int) Option {
	return func(o *options) {
		o.instanceCacheSize = n
	}
}
