package simgo

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"slices"
	"time"

	"github.com/hupe1980/simgo/cpt"
	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/matcher"
	"github.com/hupe1980/simgo/stats"
)

// Engine is a registry of matchers over one knowledge base. It is immutable
// after construction and safe for concurrent use.
type Engine struct {
	kb       *kb.KnowledgeBase
	calc     *stats.Calculator
	index    *cpt.Index
	matchers map[string]*matcher.Matcher
	names    []string

	logger  *Logger
	metrics MetricsCollector
}

// New creates an engine with the built-in matchers
//
//	jaccard, mica, basic-probabilistic, grid, negation-ic, gm, phenodigm
//
// plus any registered with WithStrategy.
func New(k *kb.KnowledgeBase, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	calc := stats.New(k)
	index := cpt.New(k, cpt.WithMaxParents(o.maxParents))

	builtins := []matcher.Strategy{
		matcher.NewJaccard(),
		matcher.NewMICA(calc),
		matcher.NewBasicProbabilistic(calc),
		matcher.NewGrid(calc, o.gridAggregator),
		matcher.NewNegationIC(calc),
		matcher.NewGraphicalModel(calc, index, o.epsilon),
		matcher.NewPhenodigm(calc),
	}

	e := &Engine{
		kb:       k,
		calc:     calc,
		index:    index,
		matchers: make(map[string]*matcher.Matcher),
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}
	for _, s := range append(builtins, o.strategies...) {
		if isNilStrategy(s) {
			return nil, &ErrInvalidStrategy{}
		}
		name := s.Name()
		if name == "" {
			return nil, &ErrInvalidStrategy{Name: name}
		}
		if _, ok := e.matchers[name]; !ok {
			e.names = append(e.names, name)
		}
		e.matchers[name] = matcher.New(calc, s, matcher.WithWorkers(o.workers))
	}
	slices.Sort(e.names)
	return e, nil
}

// Load reads a YAML knowledge base definition and creates an engine for it.
func Load(ctx context.Context, r io.Reader, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	return load(ctx, o, optFns, func() (*kb.KnowledgeBase, error) {
		def, err := kb.LoadDefinition(r)
		if err != nil {
			return nil, err
		}
		return def.Build(o.kbOptions...)
	})
}

// LoadSnapshot reads a knowledge base written by kb.WriteSnapshot.
func LoadSnapshot(ctx context.Context, r io.Reader, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	return load(ctx, o, optFns, func() (*kb.KnowledgeBase, error) {
		return kb.ReadSnapshot(r, o.kbOptions...)
	})
}

func load(ctx context.Context, o options, optFns []Option, build func() (*kb.KnowledgeBase, error)) (*Engine, error) {
	start := time.Now()
	k, err := build()
	if err != nil {
		o.metricsCollector.RecordLoad(0, 0, time.Since(start), err)
		o.logger.LogLoad(ctx, 0, 0, err)
		return nil, err
	}
	o.metricsCollector.RecordLoad(k.NumClasses(), k.NumIndividuals(), time.Since(start), nil)
	o.logger.LogLoad(ctx, k.NumClasses(), k.NumIndividuals(), nil)
	return New(k, optFns...)
}

// KnowledgeBase returns the underlying knowledge base.
func (e *Engine) KnowledgeBase() *kb.KnowledgeBase { return e.kb }

// Stats returns the information content calculator.
func (e *Engine) Stats() *stats.Calculator { return e.calc }

// ConditionalProbabilities computes the conditional probability table of a
// class given its direct parents.
func (e *Engine) ConditionalProbabilities(classID string) (*cpt.Table, error) {
	t, err := e.index.ComputeByID(classID)
	return t, translateError(err)
}

// Matchers returns the registered matcher names in ascending order.
func (e *Engine) Matchers() []string { return slices.Clone(e.names) }

// Matcher returns the matcher registered under name.
func (e *Engine) Matcher(name string) (*matcher.Matcher, error) {
	m, ok := e.matchers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
	}
	return m, nil
}

// SelfQuery builds a query from the direct types of an individual.
func (e *Engine) SelfQuery(individualID string) (matcher.Query, error) {
	q, err := matcher.SelfQuery(e.kb, individualID)
	return q, translateError(err)
}

// Match runs q against the named matcher.
func (e *Engine) Match(ctx context.Context, name string, q matcher.Query) (*matcher.MatchSet, error) {
	start := time.Now()
	set, err := e.match(ctx, name, q)

	results := 0
	if set != nil {
		results = len(set.Matches)
	}
	e.metrics.RecordMatch(name, results, time.Since(start), err)
	e.logger.WithMatcher(name).LogMatch(ctx, results, err)
	return set, err
}

func (e *Engine) match(ctx context.Context, name string, q matcher.Query) (*matcher.MatchSet, error) {
	m, err := e.Matcher(name)
	if err != nil {
		return nil, err
	}
	set, err := m.Match(ctx, q)
	if err != nil {
		return nil, translateError(err)
	}
	return set, nil
}

// isNilStrategy reports whether s is nil or wraps a nil pointer.
func isNilStrategy(s matcher.Strategy) bool {
	if s == nil {
		return true
	}
	switch v := reflect.ValueOf(s); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
