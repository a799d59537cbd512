package matcher

// Jaccard scores |q ∩ c| / |q ∪ c| over inferred type sets. A candidate
// without asserted types, whose inferred set is just the root, scores 0.
type Jaccard struct{}

// NewJaccard creates the overlap strategy.
func NewJaccard() *Jaccard { return &Jaccard{} }

// Name implements Strategy.
func (*Jaccard) Name() string { return "jaccard" }

// Score implements Strategy.
func (*Jaccard) Score(q, c *Profile) (float64, error) {
	if q.Inferred.IsEmpty() || c.Inferred.Cardinality() <= 1 {
		return 0, nil
	}
	inter, err := q.Inferred.AndCardinality(c.Inferred)
	if err != nil {
		return 0, err
	}
	union, err := q.Inferred.OrCardinality(c.Inferred)
	if err != nil {
		return 0, err
	}
	return float64(inter) / float64(union), nil
}
