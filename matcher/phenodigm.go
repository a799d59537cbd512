package matcher

import (
	"github.com/hupe1980/simgo/stats"
)

// Phenodigm scores a candidate as a percentage of the best score the query
// could reach: the mean of the candidate's maximum MICA information content
// relative to the query's own maximum, and its best-match average relative
// to the query's own best-match average. A candidate with every query class
// scores 100.
type Phenodigm struct {
	calc *stats.Calculator
}

// NewPhenodigm creates the Phenodigm strategy.
func NewPhenodigm(calc *stats.Calculator) *Phenodigm { return &Phenodigm{calc: calc} }

// Name implements Strategy.
func (*Phenodigm) Name() string { return "phenodigm" }

// Score implements Strategy. It prepares the query on every call.
func (p *Phenodigm) Score(q, c *Profile) (float64, error) {
	prepared, err := p.prepare(q)
	if err != nil {
		return 0, err
	}
	return prepared.Score(q, c)
}

// Prepare implements Preparer.
func (p *Phenodigm) Prepare(q *Profile) (Strategy, error) {
	return p.prepare(q)
}

type preparedPhenodigm struct {
	*Phenodigm
	optimalMax float64
	optimalBMA float64
}

func (p *Phenodigm) prepare(q *Profile) (*preparedPhenodigm, error) {
	// Matching the query against itself gives IC(q) for every query class.
	bma, err := bestMatchAverage(p.calc, q, q)
	if err != nil {
		return nil, err
	}
	_, optimalMax, _ := p.calc.MaxIC(q.Direct)
	return &preparedPhenodigm{Phenodigm: p, optimalMax: optimalMax, optimalBMA: bma}, nil
}

// Score implements Strategy.
func (p *preparedPhenodigm) Score(q, c *Profile) (float64, error) {
	if p.optimalMax == 0 || p.optimalBMA == 0 {
		return 0, nil
	}
	// Every query class has itself as best match.
	covered, err := q.Inferred.IsSubsetOf(c.Inferred)
	if err != nil {
		return 0, err
	}
	if covered {
		return 100, nil
	}
	common, err := q.Inferred.And(c.Inferred)
	if err != nil {
		return 0, err
	}
	_, maxIC, _ := p.calc.MaxIC(common)
	bma, err := bestMatchAverage(p.calc, q, c)
	if err != nil {
		return 0, err
	}
	return 100 * (maxIC/p.optimalMax + bma/p.optimalBMA) / 2, nil
}
