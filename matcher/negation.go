package matcher

import (
	"github.com/hupe1980/simgo/stats"
)

// NegationIC is MICA with penalties for contradicted negation. Every negated
// query class the candidate has (directly or by inference) subtracts its
// information content, and so does every query class the candidate is known
// not to have.
type NegationIC struct {
	calc *stats.Calculator
}

// NewNegationIC creates the negation-aware strategy.
func NewNegationIC(calc *stats.Calculator) *NegationIC { return &NegationIC{calc: calc} }

// Name implements Strategy.
func (*NegationIC) Name() string { return "negation-ic" }

// Capabilities implements CapabilityReporter.
func (*NegationIC) Capabilities() Capabilities { return Capabilities{Negation: true} }

// Score implements Strategy.
func (s *NegationIC) Score(q, c *Profile) (float64, error) {
	score, err := bestMatchAverage(s.calc, q, c)
	if err != nil {
		return 0, err
	}
	for qn := range q.Negated.All() {
		if c.Inferred.Contains(qn) {
			score -= s.calc.IC(qn)
		}
	}
	for qc := range q.Direct.All() {
		if c.NegatedInferred.Contains(qc) {
			score -= s.calc.IC(qc)
		}
	}
	return score, nil
}
