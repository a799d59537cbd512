package matcher

// Strategy scores a candidate profile against a query profile. Higher is
// more similar. Implementations must be safe for concurrent use.
type Strategy interface {
	Name() string
	Score(q, c *Profile) (float64, error)
}

// Capabilities describes optional query features a strategy understands.
type Capabilities struct {
	// Negation is set when negated query classes affect the score.
	Negation bool
}

// CapabilityReporter is implemented by strategies with capabilities beyond
// the default.
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// CapabilitiesOf returns the capabilities a strategy declares.
func CapabilitiesOf(s Strategy) Capabilities {
	if r, ok := s.(CapabilityReporter); ok {
		return r.Capabilities()
	}
	return Capabilities{}
}

// Preparer is implemented by strategies that precompute per-query state.
// Prepare is called once per Match and the returned Strategy scores all
// candidates of that call.
type Preparer interface {
	Prepare(q *Profile) (Strategy, error)
}
