package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ranksOf(ms []Match) []int {
	out := make([]int, len(ms))
	for j, m := range ms {
		out[j] = m.Rank
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		ranks  []int
	}{
		{"competition", []float64{0.9, 0.5, 0.9}, []int{1, 1, 3}},
		{"all tied", []float64{1, 1, 1}, []int{1, 1, 1}},
		{"distinct", []float64{0.1, 0.3, 0.2}, []int{1, 2, 3}},
		{"negative", []float64{-2, 0, -2, -1}, []int{1, 2, 3, 3}},
		{"empty", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := make([]Match, len(tt.scores))
			for j, s := range tt.scores {
				ms[j] = Match{ID: string(rune('a' + j)), Score: s}
			}
			ms = rank(ms)
			assert.Equal(t, tt.ranks, ranksOf(ms))
			for j := 1; j < len(ms); j++ {
				assert.GreaterOrEqual(t, ms[j-1].Score, ms[j].Score)
				assert.LessOrEqual(t, ms[j-1].Rank, ms[j].Rank)
			}
		})
	}
}

func TestRank_TiesByID(t *testing.T) {
	ms := rank([]Match{{ID: "c", Score: 1}, {ID: "a", Score: 1}, {ID: "b", Score: 2}})
	assert.Equal(t, "b", ms[0].ID)
	assert.Equal(t, "a", ms[1].ID)
	assert.Equal(t, "c", ms[2].ID)
}

func TestTruncate(t *testing.T) {
	ms := rank([]Match{
		{ID: "a", Score: 5},
		{ID: "b", Score: 5},
		{ID: "c", Score: 3},
		{ID: "d", Score: 3},
		{ID: "e", Score: 1},
	})

	tests := []struct {
		limit int
		want  int
	}{
		{0, 5},
		{-1, 5},
		{1, 2},
		{2, 2},
		{3, 4},
		{5, 5},
		{9, 5},
	}
	for _, tt := range tests {
		got := truncate(ms, tt.limit)
		assert.Len(t, got, tt.want, "limit %d", tt.limit)
	}
}

func TestMatchSet_Helpers(t *testing.T) {
	s := &MatchSet{Matches: rank([]Match{
		{ID: "x", Score: 1},
		{ID: "y", Score: 1},
		{ID: "z", Score: 0},
	})}

	assert.Len(t, s.MatchesWithRank(1), 2)
	assert.Empty(t, s.MatchesWithRank(2))
	assert.Len(t, s.MatchesWithRank(3), 1)

	r, ok := s.Rank("z")
	assert.True(t, ok)
	assert.Equal(t, 3, r)

	_, ok = s.Rank("nobody")
	assert.False(t, ok)
}
