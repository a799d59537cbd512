package matcher

import (
	"cmp"
	"slices"
)

// rank sorts matches by descending score, then ascending id, and assigns
// competition ranks: equal scores share a rank and the next distinct score
// resumes at its 1-based position.
func rank(matches []Match) []Match {
	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for j := range matches {
		if j > 0 && matches[j].Score == matches[j-1].Score {
			matches[j].Rank = matches[j-1].Rank
		} else {
			matches[j].Rank = j + 1
		}
	}
	return matches
}

// truncate keeps the first limit matches plus any tied with the last one.
func truncate(matches []Match, limit int) []Match {
	if limit <= 0 || limit >= len(matches) {
		return matches
	}
	end := limit
	for end < len(matches) && matches[end].Rank == matches[limit-1].Rank {
		end++
	}
	return matches[:end]
}
