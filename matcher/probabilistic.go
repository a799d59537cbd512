package matcher

import (
	"github.com/hupe1980/simgo/stats"
)

// BasicProbabilistic is a log probability: each query class missing from the
// candidate costs the information content it carries beyond its nearest
// common ancestor with the candidate. A candidate that has every query class
// scores 0.
type BasicProbabilistic struct {
	calc *stats.Calculator
}

// NewBasicProbabilistic creates the basic probabilistic strategy.
func NewBasicProbabilistic(calc *stats.Calculator) *BasicProbabilistic {
	return &BasicProbabilistic{calc: calc}
}

// Name implements Strategy.
func (*BasicProbabilistic) Name() string { return "basic-probabilistic" }

// Score implements Strategy.
func (s *BasicProbabilistic) Score(q, c *Profile) (float64, error) {
	k := s.calc.KnowledgeBase()
	score := 0.0
	for qc := range q.Direct.All() {
		if c.Inferred.Contains(qc) {
			continue
		}
		common, err := k.SuperClasses(qc, false).And(c.Inferred)
		if err != nil {
			return 0, err
		}
		_, nca, _ := s.calc.MaxIC(common)
		score -= s.calc.IC(qc) - nca
	}
	return score, nil
}
