package matcher

import (
	"github.com/hupe1980/simgo/stats"
)

// MICA averages, over the query classes, the information content of the
// most informative common ancestor with any candidate type.
//
// The best common ancestor of q with any direct type of the candidate is the
// most informative class in Sup(q) ∩ inferred(c), so the candidate's direct
// types need not be enumerated.
type MICA struct {
	calc *stats.Calculator
}

// NewMICA creates the best-match-average MICA strategy.
func NewMICA(calc *stats.Calculator) *MICA { return &MICA{calc: calc} }

// Name implements Strategy.
func (*MICA) Name() string { return "mica" }

// Score implements Strategy.
func (s *MICA) Score(q, c *Profile) (float64, error) {
	return bestMatchAverage(s.calc, q, c)
}

func bestMatchAverage(calc *stats.Calculator, q, c *Profile) (float64, error) {
	n := q.Direct.Cardinality()
	if n == 0 {
		return 0, nil
	}
	k := calc.KnowledgeBase()
	var sum float64
	for qc := range q.Direct.All() {
		common, err := k.SuperClasses(qc, false).And(c.Inferred)
		if err != nil {
			return 0, err
		}
		if _, ic, ok := calc.MaxIC(common); ok {
			sum += ic
		}
	}
	return sum / float64(n), nil
}
