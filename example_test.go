package simgo_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/simgo"
	"github.com/hupe1980/simgo/matcher"
)

const zoo = `
classes:
  - id: A
  - id: B
  - id: C
individuals:
  - id: X
    types: [A]
  - id: Y
    types: [A, B]
  - id: Z
    types: [C]
`

// Example_match ranks individuals by overlap with a query profile.
func Example_match() {
	ctx := context.Background()

	e, err := simgo.Load(ctx, strings.NewReader(zoo))
	if err != nil {
		log.Fatal(err)
	}

	set, err := e.Match(ctx, "jaccard", matcher.Query{IDs: []string{"A"}})
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range set.Matches {
		fmt.Printf("%d %s %.2f\n", m.Rank, m.ID, m.Score)
	}
	// Output:
	// 1 X 1.00
	// 2 Y 0.67
	// 3 Z 0.33
}

// Example_negation shows a negated query class lowering the score of an
// individual that has it.
func Example_negation() {
	ctx := context.Background()

	e, err := simgo.Load(ctx, strings.NewReader(zoo))
	if err != nil {
		log.Fatal(err)
	}

	q := matcher.Query{IDs: []string{"A"}, NegatedIDs: []string{"B"}}
	if _, err := e.Match(ctx, "mica", q); err != nil {
		fmt.Println(err)
	}

	set, err := e.Match(ctx, "negation-ic", q)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range set.MatchesWithRank(1) {
		fmt.Println(m.ID)
	}
	// Output:
	// unsupported capability: unsupported capability: mica does not support negated classes
	// X
}

// Example_conditionalProbabilities prints the table of a class given its
// direct parents.
func Example_conditionalProbabilities() {
	e, err := simgo.Load(context.Background(), strings.NewReader(`
classes:
  - id: leaf
    parents: [x1, x2]
individuals:
  - id: a
    negated: [x1, x2]
  - id: b
    types: [leaf]
`))
	if err != nil {
		log.Fatal(err)
	}

	table, err := e.ConditionalProbabilities("leaf")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(table)
	// Output:
	// Pr(leaf | x1 = u, x2 = u) = 0.33
	// Pr(leaf | x1 = t, x2 = u) = 0.50
	// Pr(leaf | x1 = u, x2 = t) = 0.50
	// Pr(leaf | x1 = t, x2 = t) = 0.67
}
