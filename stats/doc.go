// Package stats derives information content from class frequencies and
// aggregates it into composable summaries.
//
// The information content of class c is
//
//	IC(c) = -ln(max(freq(c), 1) / N)
//
// where N is the number of individuals. Every Summary built from a set of
// values is seeded with one baseline value of 0.0, so an empty attribute set
// has a well defined minimal summary (n=1, all moments zero) rather than
// being an error.
//
// Summaries merge without the original values:
//
//	a := stats.NewSummary(1, 2)
//	b := stats.NewSummary(3)
//	ab := a.Merge(b) // same moments as NewSummary over {0, 1, 2, 0, 3}
package stats
