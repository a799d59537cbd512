package matcher

import (
	"fmt"

	"github.com/hupe1980/simgo/stats"
)

// Aggregator reduces a pairwise score matrix to one score.
type Aggregator int

const (
	// BestMatchAverage averages the row maxima.
	BestMatchAverage Aggregator = iota
	// MaxScore takes the largest cell.
	MaxScore
	// MeanScore averages all cells.
	MeanScore
)

func (a Aggregator) String() string {
	switch a {
	case BestMatchAverage:
		return "bma"
	case MaxScore:
		return "max"
	case MeanScore:
		return "mean"
	default:
		return fmt.Sprintf("Aggregator(%d)", int(a))
	}
}

// Grid is the exhaustive reference strategy. It computes the IC of the MICA
// of every query class with every direct type of the candidate and reduces
// the matrix with an Aggregator. With BestMatchAverage it agrees with MICA.
type Grid struct {
	calc *stats.Calculator
	agg  Aggregator
}

// NewGrid creates the grid strategy.
func NewGrid(calc *stats.Calculator, agg Aggregator) *Grid {
	return &Grid{calc: calc, agg: agg}
}

// Name implements Strategy.
func (*Grid) Name() string { return "grid" }

// Aggregator returns the configured reduction.
func (g *Grid) Aggregator() Aggregator { return g.agg }

// Matrix returns IC(MICA(q_i, c_j)) with one row per query class and one
// column per direct candidate type, both in index order.
func (g *Grid) Matrix(q, c *Profile) ([][]float64, error) {
	k := g.calc.KnowledgeBase()
	rows := make([][]float64, 0, q.Direct.Cardinality())
	for qc := range q.Direct.All() {
		row := make([]float64, 0, c.Direct.Cardinality())
		for cc := range c.Direct.All() {
			common, err := k.SuperClasses(qc, false).And(k.SuperClasses(cc, false))
			if err != nil {
				return nil, err
			}
			_, ic, _ := g.calc.MaxIC(common)
			row = append(row, ic)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Score implements Strategy.
func (g *Grid) Score(q, c *Profile) (float64, error) {
	m, err := g.Matrix(q, c)
	if err != nil {
		return 0, err
	}
	if len(m) == 0 {
		return 0, nil
	}

	var best, bma, total float64
	cells := 0
	for _, row := range m {
		rowMax := 0.0
		for _, v := range row {
			rowMax = max(rowMax, v)
			total += v
			cells++
		}
		best = max(best, rowMax)
		bma += rowMax
	}

	switch g.agg {
	case MaxScore:
		return best, nil
	case MeanScore:
		if cells == 0 {
			return 0, nil
		}
		return total / float64(cells), nil
	default:
		return bma / float64(len(m)), nil
	}
}
