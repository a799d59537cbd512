package matcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simgo/cpt"
	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/stats"
	"github.com/hupe1980/simgo/testutil"
)

type countingStrategy struct {
	Strategy
	calls atomic.Int64
}

func (s *countingStrategy) Score(q, c *Profile) (float64, error) {
	s.calls.Add(1)
	return s.Strategy.Score(q, c)
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Score(_, _ *Profile) (float64, error) {
	return 0, errors.New("boom")
}

func ids(ms []Match) []string {
	out := make([]string, len(ms))
	for j, m := range ms {
		out[j] = m.ID
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	m := New(calc, NewJaccard())

	set, err := m.Match(context.Background(), Query{IDs: []string{"dog"}})
	require.NoError(t, err)

	assert.Equal(t, "jaccard", set.Matcher)
	assert.Len(t, set.Matches, 5)
	assert.Equal(t, []string{"fido", "rex"}, ids(set.MatchesWithRank(1)))
	assert.Equal(t, "Rex", set.Matches[1].Label)
	assert.Equal(t, 1.0, set.Matches[0].Score)

	r, ok := set.Rank("tweety")
	require.True(t, ok)
	assert.Greater(t, r, 2)

	// nemo has no asserted types and is scored against the baseline only.
	last := set.Matches[len(set.Matches)-1]
	assert.Equal(t, "nemo", last.ID)
	assert.Zero(t, last.Score)
}

func TestMatcher_QueryEcho(t *testing.T) {
	_, calc := fixture(t, testutil.Negation)
	m := New(calc, NewNegationIC(calc))

	q := Query{
		IDs:        []string{"A"},
		NegatedIDs: []string{"B"},
		Filter:     &Filter{Name: FilterType, ClassIDs: []string{"A"}},
		Limit:      1,
	}
	set, err := m.Match(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, q, set.Query)
	assert.Equal(t, []string{"X"}, ids(set.Matches))

	_, calc = fixture(t, testutil.Animals)
	set, err = New(calc, NewJaccard()).Match(context.Background(), Query{IDs: []string{"pet", "companion"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"companion"}, set.Query.IDs)
}

func TestMatcher_Filters(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	m := New(calc, NewMICA(calc))

	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{"none", nil, []string{"fido", "nemo", "rex", "tom", "tweety"}},
		{"type", &Filter{Name: FilterType, ClassIDs: []string{"mammal"}}, []string{"fido", "rex", "tom"}},
		{"type any", &Filter{Name: FilterType, ClassIDs: []string{"bird", "cat"}}, []string{"tom", "tweety"}},
		{"target all", &Filter{Name: FilterTarget, ClassIDs: []string{"dog", "pet"}}, []string{"fido", "rex"}},
		{"no classes", &Filter{Name: FilterTarget}, []string{"fido", "nemo", "rex", "tom", "tweety"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := m.Match(context.Background(), Query{IDs: []string{"cat"}, Filter: tt.filter})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(set.Matches))
		})
	}
}

func TestMatcher_ValidationBeforeScoring(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	s := &countingStrategy{Strategy: NewJaccard()}
	m := New(calc, s)
	ctx := context.Background()

	tests := []struct {
		name string
		q    Query
		err  error
	}{
		{"unknown filter", Query{IDs: []string{"dog"}, Filter: &Filter{Name: "species"}}, ErrUnknownFilter},
		{"negation unsupported", Query{IDs: []string{"dog"}, NegatedIDs: []string{"cat"}}, ErrUnsupportedCapability},
		{"unknown class", Query{IDs: []string{"unicorn"}}, kb.ErrNotFound},
		{"unknown filter class", Query{IDs: []string{"dog"}, Filter: &Filter{Name: FilterType, ClassIDs: []string{"unicorn"}}}, kb.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := m.Match(ctx, tt.q)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, set)
		})
	}
	assert.Zero(t, s.calls.Load())
}

func TestMatcher_ScoringFailureAborts(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	set, err := New(calc, failingStrategy{}).Match(context.Background(), Query{IDs: []string{"dog"}})
	assert.Error(t, err)
	assert.Nil(t, set)

	k, err := kb.NewBuilder().
		AddSubClassOf("leaf", "x1").
		AddType("a", "x1").
		AddNegatedType("a", "x1").
		Build()
	require.NoError(t, err)
	calc = stats.New(k)
	_, err = New(calc, NewGraphicalModel(calc, cpt.New(k), 0)).Match(context.Background(), Query{IDs: []string{"leaf"}})
	assert.ErrorIs(t, err, cpt.ErrIncoherentState)
}

func TestMatcher_Canceled(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(calc, NewJaccard()).Match(ctx, Query{IDs: []string{"dog"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatcher_Limit(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	m := New(calc, NewJaccard())

	// fido and rex tie for first; both are kept.
	set, err := m.Match(context.Background(), Query{IDs: []string{"dog"}, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"fido", "rex"}, ids(set.Matches))

	set, err = m.Match(context.Background(), Query{IDs: []string{"dog"}, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, set.Matches, 3)
	assert.Equal(t, 3, set.Matches[2].Rank)
}

func TestMatcher_EmptyQuery(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)

	for _, s := range strategies(calc) {
		t.Run(s.Name(), func(t *testing.T) {
			set, err := New(calc, s).Match(context.Background(), Query{})
			require.NoError(t, err)
			require.Len(t, set.Matches, 5)
			for _, m := range set.Matches {
				assert.Zero(t, m.Score)
				assert.Equal(t, 1, m.Rank)
			}
		})
	}
}

func TestMatcher_SelfMatch(t *testing.T) {
	k, err := testutil.NewRNG(2024).Definition(40, 80).Build()
	require.NoError(t, err)
	calc := stats.New(k)

	for _, s := range []Strategy{NewJaccard(), NewMICA(calc), NewBasicProbabilistic(calc), NewPhenodigm(calc)} {
		m := New(calc, s, WithWorkers(3))
		t.Run(s.Name(), func(t *testing.T) {
			for i := range uint32(k.NumIndividuals()) {
				id := k.IndividualID(i)
				q, err := m.SelfQuery(id)
				require.NoError(t, err)

				set, err := m.Match(context.Background(), q)
				require.NoError(t, err)
				r, ok := set.Rank(id)
				require.True(t, ok)
				assert.Equal(t, 1, r, id)
			}
		})
	}

	_, err = New(calc, NewJaccard()).SelfQuery("nobody")
	assert.ErrorIs(t, err, kb.ErrNotFound)
}

func TestMatcher_PhenodigmRanksDissimilarLast(t *testing.T) {
	_, calc := fixture(t, testutil.Animals)
	m := New(calc, NewPhenodigm(calc))

	q, err := m.SelfQuery("tom")
	require.NoError(t, err)
	set, err := m.Match(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "tom", set.Matches[0].ID)
	assert.InDelta(t, 100.0, set.Matches[0].Score, 1e-9)
	last := set.Matches[len(set.Matches)-1]
	assert.Equal(t, "nemo", last.ID)
	assert.Zero(t, last.Score)
}

func TestMatcher_SelfQueryUntyped(t *testing.T) {
	k, calc := fixture(t, testutil.Animals)
	q, err := New(calc, NewJaccard()).SelfQuery("nemo")
	require.NoError(t, err)
	assert.Equal(t, []string{k.ClassID(k.Root())}, q.IDs)
}

func TestMatcher_Concurrent(t *testing.T) {
	k, err := testutil.NewRNG(5).Definition(60, 600).Build()
	require.NoError(t, err)
	calc := stats.New(k)
	m := New(calc, NewNegationIC(calc), WithWorkers(4))

	q, err := m.SelfQuery(k.IndividualID(0))
	require.NoError(t, err)
	want, err := m.Match(context.Background(), q)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Match(context.Background(), q)
			if assert.NoError(t, err) {
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}
