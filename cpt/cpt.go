package cpt

import (
	"fmt"
	"strings"

	"github.com/hupe1980/simgo/kb"
)

// DefaultMaxParents bounds the 2^k table size.
const DefaultMaxParents = 12

// State is the two-state model of a parent class.
type State uint8

const (
	Absent State = iota
	Present
)

func (s State) String() string {
	if s == Present {
		return "t"
	}
	return "u"
}

// Option configures an Index.
type Option func(*Index)

// WithMaxParents sets the largest number of direct parents a target may
// have. Non-positive values keep the default.
func WithMaxParents(n int) Option {
	return func(x *Index) {
		if n > 0 {
			x.maxParents = n
		}
	}
}

// Index computes conditional probability tables on demand. It holds no
// mutable state and is safe for concurrent use.
type Index struct {
	kb         *kb.KnowledgeBase
	maxParents int
}

// New creates an index over k.
func New(k *kb.KnowledgeBase, optFns ...Option) *Index {
	x := &Index{kb: k, maxParents: DefaultMaxParents}
	for _, fn := range optFns {
		fn(x)
	}
	return x
}

// MaxParents returns the configured parent limit.
func (x *Index) MaxParents() int { return x.maxParents }

// Table holds support and hit counts per parent pattern. Bit j of a pattern
// is set when parent j is Present.
type Table struct {
	Target  uint32
	Parents []uint32
	// Support[p] counts individuals consistent with pattern p, Hits[p]
	// those among them that are of the target class.
	Support []int
	Hits    []int

	targetID  string
	parentIDs []string
}

// ComputeByID is Compute keyed by class id.
func (x *Index) ComputeByID(id string) (*Table, error) {
	c, err := x.kb.ClassIndex(id)
	if err != nil {
		return nil, err
	}
	return x.Compute(c)
}

// Compute builds the table for target.
func (x *Index) Compute(target uint32) (*Table, error) {
	parents := x.kb.SuperClasses(target, true).ToArray()
	if len(parents) > x.maxParents {
		return nil, fmt.Errorf("%w: %s has %d, limit %d", ErrTooManyParents, x.kb.ClassID(target), len(parents), x.maxParents)
	}

	t := &Table{
		Target:   target,
		Parents:  parents,
		Support:  make([]int, 1<<len(parents)),
		Hits:     make([]int, 1<<len(parents)),
		targetID: x.kb.ClassID(target),
	}
	for _, p := range parents {
		t.parentIDs = append(t.parentIDs, x.kb.ClassID(p))
	}

	for i := range uint32(x.kb.NumIndividuals()) {
		types := x.kb.Types(i, false)
		negated := x.kb.NegatedTypes(i, false)

		pattern, observed := 0, true
		for j, p := range parents {
			pos, neg := types.Contains(p), negated.Contains(p)
			switch {
			case pos && neg:
				return nil, &IncoherentStateError{
					Target:     t.targetID,
					Individual: x.kb.IndividualID(i),
					Parent:     t.parentIDs[j],
				}
			case pos:
				pattern |= 1 << j
			case !neg:
				observed = false
			}
		}
		if !observed {
			continue
		}
		t.Support[pattern]++
		if types.Contains(target) {
			t.Hits[pattern]++
		}
	}
	return t, nil
}

// NumPatterns returns 2^k.
func (t *Table) NumPatterns() int { return len(t.Support) }

// PatternOf encodes one state per parent, in parent order.
func (t *Table) PatternOf(states []State) (int, error) {
	if len(states) != len(t.Parents) {
		return 0, fmt.Errorf("%w: got %d states for %d parents", ErrPatternLength, len(states), len(t.Parents))
	}
	pattern := 0
	for j, s := range states {
		if s == Present {
			pattern |= 1 << j
		}
	}
	return pattern, nil
}

// At returns the smoothed probability of the target for an encoded pattern.
func (t *Table) At(pattern int) float64 {
	return float64(t.Hits[pattern]+1) / float64(t.Support[pattern]+2)
}

// Probability returns Pr(target | states). An unobserved pattern yields the
// 0.5 prior.
func (t *Table) Probability(states []State) (float64, error) {
	pattern, err := t.PatternOf(states)
	if err != nil {
		return 0, err
	}
	return t.At(pattern), nil
}

// Require is Probability for a pattern the caller asserts to exist. It
// returns an *IncoherentStateError when no individual supports it.
func (t *Table) Require(states []State) (float64, error) {
	pattern, err := t.PatternOf(states)
	if err != nil {
		return 0, err
	}
	if t.Support[pattern] == 0 {
		return 0, &IncoherentStateError{Target: t.targetID, Pattern: t.condition(pattern)}
	}
	return t.At(pattern), nil
}

func (t *Table) condition(pattern int) string {
	parts := make([]string, len(t.Parents))
	for j := range t.Parents {
		s := Absent
		if pattern&(1<<j) != 0 {
			s = Present
		}
		parts[j] = t.parentIDs[j] + " = " + s.String()
	}
	return strings.Join(parts, ", ")
}

// String renders one line per pattern, e.g.
//
//	Pr(leaf | x1 = t, x2 = u) = 0.33
func (t *Table) String() string {
	var sb strings.Builder
	for p := range t.Support {
		if len(t.Parents) == 0 {
			fmt.Fprintf(&sb, "Pr(%s) = %.2f\n", t.targetID, t.At(p))
			continue
		}
		fmt.Fprintf(&sb, "Pr(%s | %s) = %.2f\n", t.targetID, t.condition(p), t.At(p))
	}
	return sb.String()
}
