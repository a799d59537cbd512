package kb

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/simgo/internal/bitmap"
)

// ClassNode is an equivalence set of classes collapsed to one index.
type ClassNode struct {
	// IDs holds every class id of the equivalence set in ascending order.
	// IDs[0] is the representative id.
	IDs   []string
	Label string
	// Instances is the number of individuals inferred to be instances of the
	// node. It is zero for a class nobody uses.
	Instances int
	// Frequency is Instances floored to one.
	Frequency int
}

// IndividualNode is a set of same-as individuals collapsed to one index.
type IndividualNode struct {
	IDs   []string
	Label string
}

// KnowledgeBase is an immutable bitmap snapshot of a classified ontology and
// its instance data.
//
// Class and individual nodes are addressed by dense uint32 indices. Index
// based accessors panic on indices outside [0, NumClasses) or
// [0, NumIndividuals), like slice indexing; id based accessors return
// ErrNotFound instead.
//
// A KnowledgeBase is safe for concurrent use.
type KnowledgeBase struct {
	root        uint32
	classes     []ClassNode
	individuals []IndividualNode

	classIndex      map[string]uint32
	individualIndex map[string]uint32

	directSuper     []*bitmap.Bitmap
	super           []*bitmap.Bitmap
	directSub       []*bitmap.Bitmap
	sub             []*bitmap.Bitmap
	directInstances []*bitmap.Bitmap

	directTypes   []*bitmap.Bitmap
	types         []*bitmap.Bitmap
	directNegated []*bitmap.Bitmap
	negated       []*bitmap.Bitmap

	allIndividuals *bitmap.Bitmap
	instances      *lru.Cache[uint32, *bitmap.Bitmap]
}

// finish populates the derived lookup tables shared by Build and ReadSnapshot.
func (kb *KnowledgeBase) finish(o options) error {
	kb.classIndex = make(map[string]uint32)
	for i, n := range kb.classes {
		for _, id := range n.IDs {
			kb.classIndex[id] = uint32(i)
		}
	}
	kb.individualIndex = make(map[string]uint32)
	for i, n := range kb.individuals {
		for _, id := range n.IDs {
			kb.individualIndex[id] = uint32(i)
		}
	}
	kb.allIndividuals = bitmap.Full(uint32(len(kb.individuals)))

	if o.instanceCacheSize > 0 {
		c, err := lru.New[uint32, *bitmap.Bitmap](o.instanceCacheSize)
		if err != nil {
			return err
		}
		kb.instances = c
	}
	return nil
}

// NumClasses returns the number of class nodes (the class bitmap dimension).
func (kb *KnowledgeBase) NumClasses() int { return len(kb.classes) }

// NumIndividuals returns N, the number of individual nodes.
func (kb *KnowledgeBase) NumIndividuals() int { return len(kb.individuals) }

// Root returns the index of the designated root class.
func (kb *KnowledgeBase) Root() uint32 { return kb.root }

// Class returns the node at class index c.
func (kb *KnowledgeBase) Class(c uint32) ClassNode { return kb.classes[c] }

// Individual returns the node at individual index i.
func (kb *KnowledgeBase) Individual(i uint32) IndividualNode { return kb.individuals[i] }

// Frequency returns the inferred instance count of class c, at least 1.
func (kb *KnowledgeBase) Frequency(c uint32) int { return kb.classes[c].Frequency }

// ClassID returns the representative id of class c.
func (kb *KnowledgeBase) ClassID(c uint32) string { return kb.classes[c].IDs[0] }

// IndividualID returns the representative id of individual i.
func (kb *KnowledgeBase) IndividualID(i uint32) string { return kb.individuals[i].IDs[0] }

// ClassIndex resolves a class id (any member of an equivalence set).
func (kb *KnowledgeBase) ClassIndex(id string) (uint32, error) {
	c, ok := kb.classIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: class %q", ErrNotFound, id)
	}
	return c, nil
}

// IndividualIndex resolves an individual id (any member of a same-as set).
func (kb *KnowledgeBase) IndividualIndex(id string) (uint32, error) {
	i, ok := kb.individualIndex[id]
	if !ok {
		return 0, fmt.Errorf("%w: individual %q", ErrNotFound, id)
	}
	return i, nil
}

// ClassIndices resolves ids into a class bitmap.
func (kb *KnowledgeBase) ClassIndices(ids []string) (*bitmap.Bitmap, error) {
	bm := bitmap.New(uint32(len(kb.classes)))
	for _, id := range ids {
		c, err := kb.ClassIndex(id)
		if err != nil {
			return nil, err
		}
		if err := bm.Add(c); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

// ClassIDs returns the representative ids of the classes in bm, in index order.
func (kb *KnowledgeBase) ClassIDs(bm *bitmap.Bitmap) []string {
	ids := make([]string, 0, bm.Cardinality())
	for c := range bm.All() {
		ids = append(ids, kb.ClassID(c))
	}
	return ids
}

// Individuals returns the bitmap of all individuals.
func (kb *KnowledgeBase) Individuals() *bitmap.Bitmap { return kb.allIndividuals }

// SuperClasses returns the direct superclasses of c, or all of them
// (reflexive: the closure contains c itself).
func (kb *KnowledgeBase) SuperClasses(c uint32, direct bool) *bitmap.Bitmap {
	if direct {
		return kb.directSuper[c]
	}
	return kb.super[c]
}

// SubClasses returns the direct subclasses of c, or all of them (reflexive).
func (kb *KnowledgeBase) SubClasses(c uint32, direct bool) *bitmap.Bitmap {
	if direct {
		return kb.directSub[c]
	}
	return kb.sub[c]
}

// Types returns the direct (most specific) types of individual i, or all
// inferred types including the root.
func (kb *KnowledgeBase) Types(i uint32, direct bool) *bitmap.Bitmap {
	if direct {
		return kb.directTypes[i]
	}
	return kb.types[i]
}

// NegatedTypes returns the classes individual i is known not to instantiate.
// Direct negated types are the negated or opposing classes themselves; the
// full set adds their subclass closures.
func (kb *KnowledgeBase) NegatedTypes(i uint32, direct bool) *bitmap.Bitmap {
	if direct {
		return kb.directNegated[i]
	}
	return kb.negated[i]
}

// DirectInstances returns the individuals asserted to be of class c.
func (kb *KnowledgeBase) DirectInstances(c uint32) *bitmap.Bitmap {
	return kb.directInstances[c]
}

// InstancesOf returns all individuals inferred to be of class c.
//
// For the root this is every individual. For any other class the result is
// the union of direct instances over the subclass closure, computed on
// demand and kept in a bounded LRU.
func (kb *KnowledgeBase) InstancesOf(c uint32) *bitmap.Bitmap {
	if c == kb.root {
		return kb.allIndividuals
	}
	if kb.instances != nil {
		if bm, ok := kb.instances.Get(c); ok {
			return bm
		}
	}

	bm := bitmap.New(uint32(len(kb.individuals)))
	for s := range kb.sub[c].All() {
		// All direct instance bitmaps share the individual dimension.
		bm, _ = bm.Or(kb.directInstances[s])
	}

	if kb.instances != nil {
		kb.instances.Add(c, bm)
	}
	return bm
}

// FilteredTypes restricts a class set to the descendants of root (inclusive).
func (kb *KnowledgeBase) FilteredTypes(classes *bitmap.Bitmap, root uint32) (*bitmap.Bitmap, error) {
	return classes.And(kb.sub[root])
}

// FilteredDirectTypes returns the direct types of individual i that descend
// from root.
func (kb *KnowledgeBase) FilteredDirectTypes(i, root uint32) (*bitmap.Bitmap, error) {
	return kb.directTypes[i].And(kb.sub[root])
}

// SuperClassesOf returns the union of the superclass closures of classes.
func (kb *KnowledgeBase) SuperClassesOf(classes *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	closures := make([]*bitmap.Bitmap, 0, classes.Cardinality())
	for c := range classes.All() {
		closures = append(closures, kb.super[c])
	}
	return bitmap.Union(uint32(len(kb.classes)), closures...)
}

// SubClassesOf returns the union of the subclass closures of classes.
func (kb *KnowledgeBase) SubClassesOf(classes *bitmap.Bitmap) (*bitmap.Bitmap, error) {
	closures := make([]*bitmap.Bitmap, 0, classes.Cardinality())
	for c := range classes.All() {
		closures = append(closures, kb.sub[c])
	}
	return bitmap.Union(uint32(len(kb.classes)), closures...)
}

// SuperClassesByID is SuperClasses keyed by class id.
func (kb *KnowledgeBase) SuperClassesByID(id string, direct bool) (*bitmap.Bitmap, error) {
	c, err := kb.ClassIndex(id)
	if err != nil {
		return nil, err
	}
	return kb.SuperClasses(c, direct), nil
}

// SubClassesByID is SubClasses keyed by class id.
func (kb *KnowledgeBase) SubClassesByID(id string, direct bool) (*bitmap.Bitmap, error) {
	c, err := kb.ClassIndex(id)
	if err != nil {
		return nil, err
	}
	return kb.SubClasses(c, direct), nil
}

// TypesByID is Types keyed by individual id.
func (kb *KnowledgeBase) TypesByID(id string, direct bool) (*bitmap.Bitmap, error) {
	i, err := kb.IndividualIndex(id)
	if err != nil {
		return nil, err
	}
	return kb.Types(i, direct), nil
}

// NegatedTypesByID is NegatedTypes keyed by individual id.
func (kb *KnowledgeBase) NegatedTypesByID(id string, direct bool) (*bitmap.Bitmap, error) {
	i, err := kb.IndividualIndex(id)
	if err != nil {
		return nil, err
	}
	return kb.NegatedTypes(i, direct), nil
}

// InstancesOfByID is InstancesOf keyed by class id.
func (kb *KnowledgeBase) InstancesOfByID(id string) (*bitmap.Bitmap, error) {
	c, err := kb.ClassIndex(id)
	if err != nil {
		return nil, err
	}
	return kb.InstancesOf(c), nil
}

// FilteredTypesByID resolves classIDs and keeps those descending from rootID.
func (kb *KnowledgeBase) FilteredTypesByID(classIDs []string, rootID string) (*bitmap.Bitmap, error) {
	root, err := kb.ClassIndex(rootID)
	if err != nil {
		return nil, err
	}
	classes, err := kb.ClassIndices(classIDs)
	if err != nil {
		return nil, err
	}
	return kb.FilteredTypes(classes, root)
}

// FilteredDirectTypesByID returns the direct types of an individual that
// descend from rootID.
func (kb *KnowledgeBase) FilteredDirectTypesByID(individualID, rootID string) (*bitmap.Bitmap, error) {
	i, err := kb.IndividualIndex(individualID)
	if err != nil {
		return nil, err
	}
	root, err := kb.ClassIndex(rootID)
	if err != nil {
		return nil, err
	}
	return kb.FilteredDirectTypes(i, root)
}
