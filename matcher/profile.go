package matcher

import (
	"github.com/hupe1980/simgo/internal/bitmap"
	"github.com/hupe1980/simgo/kb"
)

// Profile is the class view of a query or a candidate. Candidate profiles
// share the knowledge base bitmaps and must not be modified.
type Profile struct {
	// Direct holds the query classes, or the direct types of a candidate.
	Direct *bitmap.Bitmap
	// Inferred is the superclass closure of Direct.
	Inferred *bitmap.Bitmap
	// Negated holds the classes known to be absent.
	Negated *bitmap.Bitmap
	// NegatedInferred is the subclass closure of Negated.
	NegatedInferred *bitmap.Bitmap
}

// IsEmpty reports whether the profile has neither positive nor negated
// classes.
func (p *Profile) IsEmpty() bool {
	return p.Direct.IsEmpty() && p.Negated.IsEmpty()
}

// CandidateProfile returns the profile of individual i.
func CandidateProfile(k *kb.KnowledgeBase, i uint32) *Profile {
	return &Profile{
		Direct:          k.Types(i, true),
		Inferred:        k.Types(i, false),
		Negated:         k.NegatedTypes(i, true),
		NegatedInferred: k.NegatedTypes(i, false),
	}
}

// QueryProfile resolves class ids into a profile. An empty id list gives an
// empty profile, not one containing the root.
func QueryProfile(k *kb.KnowledgeBase, ids, negatedIDs []string) (*Profile, error) {
	direct, err := k.ClassIndices(ids)
	if err != nil {
		return nil, err
	}
	inferred, err := k.SuperClassesOf(direct)
	if err != nil {
		return nil, err
	}
	negated, err := k.ClassIndices(negatedIDs)
	if err != nil {
		return nil, err
	}
	negatedInferred, err := k.SubClassesOf(negated)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Direct:          direct,
		Inferred:        inferred,
		Negated:         negated,
		NegatedInferred: negatedInferred,
	}, nil
}
