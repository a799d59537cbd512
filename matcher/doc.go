// Package matcher ranks individuals by similarity to a query profile of
// classes.
//
// A Matcher pairs a knowledge base with one scoring Strategy. Match
// validates the query, restricts the candidates with an optional filter,
// scores every candidate in parallel, and returns the candidates sorted by
// descending score with competition ranks:
//
//	scores [0.9, 0.9, 0.5] -> ranks [1, 1, 3]
//
// Strategies:
//
//	jaccard              overlap of inferred type sets
//	mica                 best-match average of most informative common ancestors
//	basic-probabilistic  IC penalty for query classes the candidate lacks
//	grid                 pairwise MICA matrix reduced by an Aggregator
//	negation-ic          mica with penalties for contradicted negations
//	gm                   graphical-model likelihood ratio against the background
//	phenodigm            percentage of the query's own maximum and average MICA
//
// Every strategy scores an empty query profile as 0.0.
//
// Validation failures (unknown ids, unknown filters, negated ids against a
// strategy without negation support) are returned before any scoring. A
// failure while scoring aborts the whole call; no partial MatchSet is ever
// returned.
package matcher
