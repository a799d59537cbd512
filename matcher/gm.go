package matcher

import (
	"errors"
	"math"

	"github.com/hupe1980/simgo/cpt"
	"github.com/hupe1980/simgo/stats"
)

// DefaultEpsilon is the probability floor of the graphical model.
const DefaultEpsilon = 0.01

// GraphicalModel scores the log likelihood ratio of the observed query
// profile under the candidate versus the background population.
//
// Every inferred query class except the root is observed present and every
// negated query class is observed absent. For the candidate, a class it has
// is present with probability 1-ε, a class it is known not to have with
// probability ε, and any other class with the conditional probability of
// the class given the candidate's state of its direct parents. The
// background probability of a class is its frequency over N. All
// probabilities are clamped to [ε, 1-ε].
//
// Conditional tables are computed once per Match call. Classes with more
// parents than the index allows fall back to the background probability.
type GraphicalModel struct {
	calc    *stats.Calculator
	index   *cpt.Index
	epsilon float64
}

// NewGraphicalModel creates the graphical-model strategy. epsilon outside
// (0, 0.5) selects DefaultEpsilon.
func NewGraphicalModel(calc *stats.Calculator, index *cpt.Index, epsilon float64) *GraphicalModel {
	if epsilon <= 0 || epsilon >= 0.5 {
		epsilon = DefaultEpsilon
	}
	return &GraphicalModel{calc: calc, index: index, epsilon: epsilon}
}

// Name implements Strategy.
func (*GraphicalModel) Name() string { return "gm" }

// Capabilities implements CapabilityReporter.
func (*GraphicalModel) Capabilities() Capabilities { return Capabilities{Negation: true} }

// Epsilon returns the probability floor.
func (g *GraphicalModel) Epsilon() float64 { return g.epsilon }

// Score implements Strategy. It prepares the query on every call; Match
// prepares once through Prepare instead.
func (g *GraphicalModel) Score(q, c *Profile) (float64, error) {
	p, err := g.prepare(q)
	if err != nil {
		return 0, err
	}
	return p.Score(q, c)
}

// Prepare implements Preparer.
func (g *GraphicalModel) Prepare(q *Profile) (Strategy, error) {
	return g.prepare(q)
}

type observation struct {
	class      uint32
	present    bool
	table      *cpt.Table
	background float64
}

type preparedGM struct {
	*GraphicalModel
	observed []observation
}

func (g *GraphicalModel) prepare(q *Profile) (*preparedGM, error) {
	k := g.calc.KnowledgeBase()
	n := float64(max(k.NumIndividuals(), 1))
	p := &preparedGM{GraphicalModel: g}

	add := func(c uint32, present bool) error {
		table, err := g.index.Compute(c)
		if err != nil {
			if !errors.Is(err, cpt.ErrTooManyParents) {
				return err
			}
			table = nil
		}
		p.observed = append(p.observed, observation{
			class:      c,
			present:    present,
			table:      table,
			background: g.clamp(float64(k.Frequency(c)) / n),
		})
		return nil
	}

	for c := range q.Inferred.All() {
		if c == k.Root() {
			continue
		}
		if err := add(c, true); err != nil {
			return nil, err
		}
	}
	for c := range q.Negated.All() {
		if err := add(c, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (g *GraphicalModel) clamp(p float64) float64 {
	return min(max(p, g.epsilon), 1-g.epsilon)
}

// Score implements Strategy.
func (p *preparedGM) Score(_, c *Profile) (float64, error) {
	score := 0.0
	for _, o := range p.observed {
		pc := p.presence(o, c)
		if o.present {
			score += math.Log(pc) - math.Log(o.background)
		} else {
			score += math.Log(1-pc) - math.Log(1-o.background)
		}
	}
	return score, nil
}

// presence is the probability that the candidate has class o.class.
func (p *preparedGM) presence(o observation, c *Profile) float64 {
	switch {
	case c.Inferred.Contains(o.class):
		return 1 - p.epsilon
	case c.NegatedInferred.Contains(o.class):
		return p.epsilon
	case o.table == nil:
		return o.background
	}
	pattern := 0
	for j, parent := range o.table.Parents {
		if c.Inferred.Contains(parent) {
			pattern |= 1 << j
		}
	}
	return p.clamp(o.table.At(pattern))
}
