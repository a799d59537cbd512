// Package simgo ranks entities annotated against an ontology by semantic
// similarity to a query profile of classes.
//
// A knowledge base is a classified subsumption hierarchy plus instance
// data, stored as compressed bitmaps over dense class and individual
// indices. On top of it simgo provides information content statistics, a
// conditional probability index and a family of interchangeable matchers.
//
// # Quick Start
//
//	ctx := context.Background()
//	f, _ := os.Open("phenotypes.yaml")
//	e, _ := simgo.Load(ctx, f)
//
//	set, _ := e.Match(ctx, "mica", matcher.Query{
//	    IDs:   []string{"HP:0001250", "HP:0001263"},
//	    Limit: 10,
//	})
//	for _, m := range set.Matches {
//	    fmt.Println(m.Rank, m.ID, m.Score)
//	}
//
// # Matchers
//
//	jaccard              overlap of inferred type sets
//	mica                 best-match average information content of common ancestors
//	basic-probabilistic  information content lost on missing query classes
//	grid                 exhaustive pairwise reference, configurable aggregation
//	negation-ic          mica with penalties for contradicted negations
//	gm                   graphical-model likelihood ratio (supports negation)
//	phenodigm            mica maximum and average as a percentage of the optimal score
//
// Negated query classes are accepted only by matchers that declare the
// negation capability; others return ErrUnsupportedCapability.
//
// # Snapshots
//
// A built knowledge base can be written as a compressed binary snapshot and
// loaded without rebuilding:
//
//	_ = e.KnowledgeBase().WriteSnapshot(w, kb.CompressionZSTD)
//	e, _ = simgo.LoadSnapshot(ctx, r)
//
// # Errors
//
// Errors wrap the sentinels of this package (ErrNotFound, ErrUnknownFilter,
// ErrUnsupportedCapability, ErrIncoherentState, ErrInvariantViolation,
// ErrUnknownMatcher); use errors.Is.
package simgo
