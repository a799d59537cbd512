package kb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/testutil"
)

func individualIDs(k *kb.KnowledgeBase, ids []uint32) []string {
	out := make([]string, 0, len(ids))
	for _, i := range ids {
		out = append(out, k.IndividualID(i))
	}
	return out
}

func TestKnowledgeBase_InstancesOf(t *testing.T) {
	for _, size := range []int{0, 2} {
		k, err := testutil.Fixture(testutil.Animals, kb.WithInstanceCacheSize(size))
		require.NoError(t, err)

		tests := []struct {
			class string
			want  []string
		}{
			{"mammal", []string{"fido", "rex", "tom"}},
			{"pet", []string{"fido", "rex", "tom"}},
			{"bird", []string{"tweety"}},
			{"owl:Thing", []string{"fido", "nemo", "rex", "tom", "tweety"}},
		}
		for _, tt := range tests {
			t.Run(tt.class, func(t *testing.T) {
				// Twice to hit the cache.
				for range 2 {
					bm, err := k.InstancesOfByID(tt.class)
					require.NoError(t, err)
					assert.Equal(t, tt.want, individualIDs(k, bm.ToArray()))
				}
			})
		}

		mammal := classIndex(t, k, "mammal")
		assert.Equal(t, []string{"fido"}, individualIDs(k, k.DirectInstances(mammal).ToArray()))
		assert.Same(t, k.Individuals(), k.InstancesOf(k.Root()))
	}
}

func TestKnowledgeBase_Filtered(t *testing.T) {
	k, err := testutil.Fixture(testutil.Animals)
	require.NoError(t, err)

	tom, err := k.IndividualIndex("tom")
	require.NoError(t, err)
	mammal := classIndex(t, k, "mammal")

	bm, err := k.FilteredTypes(k.Types(tom, false), mammal)
	assert.ElementsMatch(t, []string{"cat", "mammal"}, classIDs(t, k, bm, err))

	bm, err = k.FilteredDirectTypesByID("tom", "mammal")
	assert.ElementsMatch(t, []string{"cat"}, classIDs(t, k, bm, err))

	bm, err = k.FilteredTypesByID([]string{"dog", "sparrow", "pet"}, "animal")
	assert.ElementsMatch(t, []string{"dog", "sparrow"}, classIDs(t, k, bm, err))
}

func TestKnowledgeBase_SetClosures(t *testing.T) {
	k, err := testutil.Fixture(testutil.Animals)
	require.NoError(t, err)

	classes, err := k.ClassIndices([]string{"cat", "sparrow"})
	require.NoError(t, err)

	bm, err := k.SuperClassesOf(classes)
	assert.ElementsMatch(t, []string{"cat", "sparrow", "mammal", "bird", "animal", "owl:Thing"}, classIDs(t, k, bm, err))

	classes, err = k.ClassIndices([]string{"bird", "pet"})
	require.NoError(t, err)
	bm, err = k.SubClassesOf(classes)
	assert.ElementsMatch(t, []string{"bird", "sparrow", "companion", "dog"}, classIDs(t, k, bm, err))
}

func TestKnowledgeBase_NotFound(t *testing.T) {
	k, err := testutil.Fixture(testutil.Animals)
	require.NoError(t, err)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"ClassIndex", func() error { _, err := k.ClassIndex("unicorn"); return err }},
		{"IndividualIndex", func() error { _, err := k.IndividualIndex("nobody"); return err }},
		{"ClassIndices", func() error { _, err := k.ClassIndices([]string{"dog", "unicorn"}); return err }},
		{"SuperClassesByID", func() error { _, err := k.SuperClassesByID("unicorn", false); return err }},
		{"SubClassesByID", func() error { _, err := k.SubClassesByID("unicorn", true); return err }},
		{"TypesByID", func() error { _, err := k.TypesByID("nobody", false); return err }},
		{"NegatedTypesByID", func() error { _, err := k.NegatedTypesByID("nobody", true); return err }},
		{"InstancesOfByID", func() error { _, err := k.InstancesOfByID("unicorn"); return err }},
		{"FilteredTypesByID", func() error { _, err := k.FilteredTypesByID([]string{"dog"}, "unicorn"); return err }},
		{"FilteredDirectTypesByID", func() error { _, err := k.FilteredDirectTypesByID("rex", "unicorn"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.fn(), kb.ErrNotFound)
		})
	}
}

func TestKnowledgeBase_ConcurrentInstancesOf(t *testing.T) {
	def := testutil.NewRNG(7).Definition(40, 120)
	k, err := def.Build(kb.WithInstanceCacheSize(8))
	require.NoError(t, err)

	want := make([]int, k.NumClasses())
	for c := range want {
		want[c] = k.Class(uint32(c)).Instances
	}

	done := make(chan struct{})
	for w := range 4 {
		go func() {
			defer func() { done <- struct{}{} }()
			for c := range k.NumClasses() {
				c := (c + w*7) % k.NumClasses()
				assert.Equal(t, want[c], k.InstancesOf(uint32(c)).Cardinality())
			}
		}()
	}
	for range 4 {
		<-done
	}
}
