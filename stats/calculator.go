package stats

import (
	"math"
	"sync"

	"github.com/hupe1980/simgo/internal/bitmap"
	"github.com/hupe1980/simgo/kb"
)

// Calculator computes information content and summaries over a knowledge
// base. Information content is computed eagerly; per-individual summaries
// and the overall summary are computed on first use.
//
// A Calculator is safe for concurrent use.
type Calculator struct {
	kb *kb.KnowledgeBase
	ic []float64

	individualsOnce sync.Once
	individuals     []Summary

	overallOnce sync.Once
	overall     Summary
}

// New creates a calculator for k.
func New(k *kb.KnowledgeBase) *Calculator {
	n := float64(max(k.NumIndividuals(), 1))
	ic := make([]float64, k.NumClasses())
	for c := range ic {
		freq := float64(k.Frequency(uint32(c)))
		// Written as ln(N) - ln(f) so the root gets +0 rather than -0.
		ic[c] = math.Log(n) - math.Log(freq)
	}
	return &Calculator{kb: k, ic: ic}
}

// KnowledgeBase returns the underlying knowledge base.
func (calc *Calculator) KnowledgeBase() *kb.KnowledgeBase { return calc.kb }

// IC returns the information content of class c.
func (calc *Calculator) IC(c uint32) float64 { return calc.ic[c] }

// ICByID returns the information content of a class id.
func (calc *Calculator) ICByID(id string) (float64, error) {
	c, err := calc.kb.ClassIndex(id)
	if err != nil {
		return 0, err
	}
	return calc.ic[c], nil
}

// SummaryOf summarizes the information content of the classes in bm.
func (calc *Calculator) SummaryOf(classes *bitmap.Bitmap) Summary {
	vals := make([]float64, 0, classes.Cardinality())
	for c := range classes.All() {
		vals = append(vals, calc.ic[c])
	}
	return NewSummary(vals...)
}

// MaxIC returns the class of bm with the highest information content. Ties
// go to the lowest index. ok is false when bm is empty.
func (calc *Calculator) MaxIC(classes *bitmap.Bitmap) (c uint32, ic float64, ok bool) {
	for x := range classes.All() {
		if !ok || calc.ic[x] > ic {
			c, ic, ok = x, calc.ic[x], true
		}
	}
	return c, ic, ok
}

func (calc *Calculator) initIndividuals() {
	calc.individualsOnce.Do(func() {
		s := make([]Summary, calc.kb.NumIndividuals())
		for i := range s {
			s[i] = calc.SummaryOf(calc.kb.Types(uint32(i), true))
		}
		calc.individuals = s
	})
}

// IndividualSummary summarizes the direct types of individual i.
func (calc *Calculator) IndividualSummary(i uint32) Summary {
	calc.initIndividuals()
	return calc.individuals[i]
}

// IndividualSummaryByID is IndividualSummary keyed by individual id.
func (calc *Calculator) IndividualSummaryByID(id string) (Summary, error) {
	i, err := calc.kb.IndividualIndex(id)
	if err != nil {
		return Summary{}, err
	}
	return calc.IndividualSummary(i), nil
}

// SetSummary merges the cached summaries of a set of individuals.
func (calc *Calculator) SetSummary(individuals *bitmap.Bitmap) Summary {
	calc.initIndividuals()
	var s Summary
	for i := range individuals.All() {
		s = s.Merge(calc.individuals[i])
	}
	return s
}

// Overall is the merged summary of every individual.
func (calc *Calculator) Overall() Summary {
	calc.overallOnce.Do(func() {
		calc.overall = calc.SetSummary(calc.kb.Individuals())
	})
	return calc.overall
}

// SummaryForClassIDs summarizes an ad hoc set of class ids. The result is
// not cached.
func (calc *Calculator) SummaryForClassIDs(ids []string) (Summary, error) {
	classes, err := calc.kb.ClassIndices(ids)
	if err != nil {
		return Summary{}, err
	}
	return calc.SummaryOf(classes), nil
}

// SubtreeSummaryForClassIDs summarizes the ids that descend from rootID.
func (calc *Calculator) SubtreeSummaryForClassIDs(ids []string, rootID string) (Summary, error) {
	classes, err := calc.kb.FilteredTypesByID(ids, rootID)
	if err != nil {
		return Summary{}, err
	}
	return calc.SummaryOf(classes), nil
}

// SubtreeSummaryForIndividual summarizes the direct types of an individual
// that descend from rootID.
func (calc *Calculator) SubtreeSummaryForIndividual(individualID, rootID string) (Summary, error) {
	classes, err := calc.kb.FilteredDirectTypesByID(individualID, rootID)
	if err != nil {
		return Summary{}, err
	}
	return calc.SummaryOf(classes), nil
}
