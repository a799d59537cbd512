package cpt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simgo/cpt"
	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/testutil"
)

func TestIndex_Compute(t *testing.T) {
	k, err := testutil.Fixture(testutil.CPT)
	require.NoError(t, err)

	table, err := cpt.New(k).ComputeByID("leaf")
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, k.ClassIDs(k.SuperClasses(table.Target, true)))
	assert.Equal(t, 4, table.NumPatterns())

	tests := []struct {
		name   string
		states []cpt.State
		want   float64
	}{
		{"none", []cpt.State{cpt.Absent, cpt.Absent}, 0.20},
		{"x1", []cpt.State{cpt.Present, cpt.Absent}, 0.33},
		{"x2", []cpt.State{cpt.Absent, cpt.Present}, 0.33},
		{"both", []cpt.State{cpt.Present, cpt.Present}, 0.50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Probability(tt.states)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.005)

			// Every pattern is observed, so requiring it succeeds too.
			req, err := table.Require(tt.states)
			require.NoError(t, err)
			assert.Equal(t, got, req)
		})
	}

	// u1 has no evidence for either parent and is in no pattern.
	total := 0
	for _, s := range table.Support {
		total += s
	}
	assert.Equal(t, 7, total)

	_, err = table.Probability([]cpt.State{cpt.Present})
	assert.ErrorIs(t, err, cpt.ErrPatternLength)
}

func TestTable_String(t *testing.T) {
	k, err := testutil.Fixture(testutil.CPT)
	require.NoError(t, err)

	table, err := cpt.New(k).ComputeByID("leaf")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	assert.Equal(t, []string{
		"Pr(leaf | x1 = u, x2 = u) = 0.20",
		"Pr(leaf | x1 = t, x2 = u) = 0.33",
		"Pr(leaf | x1 = u, x2 = t) = 0.33",
		"Pr(leaf | x1 = t, x2 = t) = 0.50",
	}, lines)

	root, err := cpt.New(k).Compute(k.Root())
	require.NoError(t, err)
	assert.Equal(t, "Pr(owl:Thing) = 0.90\n", root.String())
}

func TestIndex_UnobservedPattern(t *testing.T) {
	k, err := kb.NewBuilder().
		AddSubClassOf("leaf", "x1").
		AddSubClassOf("leaf", "x2").
		AddType("a", "leaf").
		Build()
	require.NoError(t, err)

	table, err := cpt.New(k).ComputeByID("leaf")
	require.NoError(t, err)

	// Nobody is negated for x1 or x2: the pattern is unobserved, not an error.
	p, err := table.Probability([]cpt.State{cpt.Absent, cpt.Absent})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)

	// Asserting it is.
	_, err = table.Require([]cpt.State{cpt.Absent, cpt.Absent})
	assert.ErrorIs(t, err, cpt.ErrIncoherentState)

	var ise *cpt.IncoherentStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "leaf", ise.Target)
	assert.Equal(t, "x1 = u, x2 = u", ise.Pattern)
	assert.Empty(t, ise.Individual)
}

func TestIndex_ContradictoryEvidence(t *testing.T) {
	k, err := kb.NewBuilder().
		AddSubClassOf("leaf", "x1").
		AddType("a", "x1").
		AddNegatedType("a", "x1").
		Build()
	require.NoError(t, err)

	_, err = cpt.New(k).ComputeByID("leaf")
	assert.ErrorIs(t, err, cpt.ErrIncoherentState)

	var ise *cpt.IncoherentStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "a", ise.Individual)
	assert.Equal(t, "x1", ise.Parent)
	assert.Contains(t, ise.Error(), "both typed and negated")
}

func TestIndex_TooManyParents(t *testing.T) {
	b := kb.NewBuilder()
	for _, p := range []string{"p1", "p2", "p3"} {
		b.AddSubClassOf("child", p)
	}
	k, err := b.Build()
	require.NoError(t, err)

	_, err = cpt.New(k, cpt.WithMaxParents(2)).ComputeByID("child")
	assert.ErrorIs(t, err, cpt.ErrTooManyParents)

	table, err := cpt.New(k).ComputeByID("child")
	require.NoError(t, err)
	assert.Equal(t, 8, table.NumPatterns())

	_, err = cpt.New(k).ComputeByID("unicorn")
	assert.ErrorIs(t, err, kb.ErrNotFound)
}
