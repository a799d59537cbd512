package matcher

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/stats"
)

// minChunk is the smallest number of candidates scored per goroutine.
const minChunk = 256

// Option configures a Matcher.
type Option func(*Matcher)

// WithWorkers bounds the number of goroutines scoring candidates.
// Non-positive values keep the default of GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// Matcher ranks the individuals of a knowledge base with one strategy.
// It is safe for concurrent use.
type Matcher struct {
	kb       *kb.KnowledgeBase
	calc     *stats.Calculator
	strategy Strategy
	workers  int
}

// New creates a matcher.
func New(calc *stats.Calculator, s Strategy, optFns ...Option) *Matcher {
	m := &Matcher{
		kb:       calc.KnowledgeBase(),
		calc:     calc,
		strategy: s,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(m)
	}
	return m
}

// Name returns the strategy name.
func (m *Matcher) Name() string { return m.strategy.Name() }

// Capabilities returns the strategy capabilities.
func (m *Matcher) Capabilities() Capabilities { return CapabilitiesOf(m.strategy) }

// Strategy returns the scoring strategy.
func (m *Matcher) Strategy() Strategy { return m.strategy }

// SelfQuery builds a query from the direct types of an individual.
func SelfQuery(k *kb.KnowledgeBase, individualID string) (Query, error) {
	i, err := k.IndividualIndex(individualID)
	if err != nil {
		return Query{}, err
	}
	return Query{IDs: k.ClassIDs(k.Types(i, true))}, nil
}

// SelfQuery builds a query from the direct types of an individual.
func (m *Matcher) SelfQuery(individualID string) (Query, error) {
	return SelfQuery(m.kb, individualID)
}

// Match scores and ranks the candidates for q.
func (m *Matcher) Match(ctx context.Context, q Query) (*MatchSet, error) {
	if len(q.NegatedIDs) > 0 && !m.Capabilities().Negation {
		return nil, fmt.Errorf("%w: %s does not support negated classes", ErrUnsupportedCapability, m.Name())
	}
	if err := validateFilter(q.Filter); err != nil {
		return nil, err
	}

	qp, err := QueryProfile(m.kb, q.IDs, q.NegatedIDs)
	if err != nil {
		return nil, err
	}
	candidates, err := m.candidates(q.Filter)
	if err != nil {
		return nil, err
	}

	s := m.strategy
	if p, ok := s.(Preparer); ok {
		if s, err = p.Prepare(qp); err != nil {
			return nil, err
		}
	}

	ids := candidates.ToArray()
	scores := make([]float64, len(ids))

	chunk := max(minChunk, (len(ids)+m.workers-1)/m.workers)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for start := 0; start < len(ids); start += chunk {
		end := min(start+chunk, len(ids))
		g.Go(func() error {
			for j := start; j < end; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				score, err := s.Score(qp, CandidateProfile(m.kb, ids[j]))
				if err != nil {
					return fmt.Errorf("score %s: %w", m.kb.IndividualID(ids[j]), err)
				}
				scores[j] = score
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, len(ids))
	for j, i := range ids {
		node := m.kb.Individual(i)
		matches[j] = Match{ID: node.IDs[0], Label: node.Label, Score: scores[j]}
	}
	matches = truncate(rank(matches), q.Limit)

	return &MatchSet{
		Matcher: m.Name(),
		Query: Query{
			IDs:        m.kb.ClassIDs(qp.Direct),
			NegatedIDs: m.kb.ClassIDs(qp.Negated),
			Filter:     q.Filter,
			Limit:      q.Limit,
		},
		Matches: matches,
	}, nil
}
