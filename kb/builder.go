package kb

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/simgo/internal/bitmap"
)

type classDecl struct {
	label    string
	parents  []string
	equiv    []string
	opposing []string
}

type individualDecl struct {
	label   string
	types   []string
	negated []string
	sameAs  []string
}

// Builder collects asserted classes, subclass edges and instance facts and
// turns them into an immutable KnowledgeBase.
//
// The builder performs only the structural inference needed for a
// subsumption DAG: equivalence and same-as collapsing, transitive closure,
// transitive reduction of direct edges, and negative type propagation.
// Classes and individuals referenced before being declared are declared
// implicitly.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	opts        options
	classes     map[string]*classDecl
	individuals map[string]*individualDecl
}

// NewBuilder creates an empty builder.
func NewBuilder(optFns ...Option) *Builder {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	b := &Builder{
		opts:        o,
		classes:     make(map[string]*classDecl),
		individuals: make(map[string]*individualDecl),
	}
	b.class(o.root)
	return b
}

func (b *Builder) class(id string) *classDecl {
	d, ok := b.classes[id]
	if !ok {
		d = &classDecl{}
		b.classes[id] = d
	}
	return d
}

func (b *Builder) individual(id string) *individualDecl {
	d, ok := b.individuals[id]
	if !ok {
		d = &individualDecl{}
		b.individuals[id] = d
	}
	return d
}

// AddClass declares a class with an optional label.
func (b *Builder) AddClass(id, label string) *Builder {
	d := b.class(id)
	if label != "" {
		d.label = label
	}
	return b
}

// AddSubClassOf asserts that child is a subclass of parent.
func (b *Builder) AddSubClassOf(child, parent string) *Builder {
	b.class(parent)
	d := b.class(child)
	d.parents = append(d.parents, parent)
	return b
}

// AddEquivalent asserts that two class ids denote the same class.
func (b *Builder) AddEquivalent(a, c string) *Builder {
	b.class(c)
	d := b.class(a)
	d.equiv = append(d.equiv, c)
	return b
}

// AddDisjoint asserts that two classes share no instances. Disjointness is
// symmetric and feeds negative type propagation.
func (b *Builder) AddDisjoint(a, c string) *Builder {
	return b.addOpposing(a, c)
}

// AddOpposite asserts that a is the opposite of c (e.g. increased vs.
// decreased). For negative type propagation it behaves like disjointness.
func (b *Builder) AddOpposite(a, c string) *Builder {
	return b.addOpposing(a, c)
}

func (b *Builder) addOpposing(a, c string) *Builder {
	da := b.class(a)
	dc := b.class(c)
	da.opposing = append(da.opposing, c)
	dc.opposing = append(dc.opposing, a)
	return b
}

// AddIndividual declares an individual with an optional label.
func (b *Builder) AddIndividual(id, label string) *Builder {
	d := b.individual(id)
	if label != "" {
		d.label = label
	}
	return b
}

// AddType asserts that individual is an instance of class.
func (b *Builder) AddType(individual, class string) *Builder {
	b.class(class)
	d := b.individual(individual)
	d.types = append(d.types, class)
	return b
}

// AddNegatedType asserts that individual is not an instance of class.
func (b *Builder) AddNegatedType(individual, class string) *Builder {
	b.class(class)
	d := b.individual(individual)
	d.negated = append(d.negated, class)
	return b
}

// AddSameAs asserts that two individual ids denote the same individual.
func (b *Builder) AddSameAs(a, c string) *Builder {
	b.individual(c)
	d := b.individual(a)
	d.sameAs = append(d.sameAs, c)
	return b
}

// unionFind groups string ids; the representative of a group is its
// smallest id.
type unionFind map[string]string

func (u unionFind) find(x string) string {
	p, ok := u[x]
	if !ok || p == x {
		u[x] = x
		return x
	}
	r := u.find(p)
	u[x] = r
	return r
}

func (u unionFind) union(a, c string) {
	ra, rc := u.find(a), u.find(c)
	if ra == rc {
		return
	}
	if rc < ra {
		ra, rc = rc, ra
	}
	u[rc] = ra
}

// groups returns the id sets keyed by representative, each sorted, ordered
// by representative.
func (u unionFind) groups(ids []string) [][]string {
	byRep := make(map[string][]string)
	for _, id := range ids {
		r := u.find(id)
		byRep[r] = append(byRep[r], id)
	}
	out := make([][]string, 0, len(byRep))
	for _, g := range byRep {
		slices.Sort(g)
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, c []string) int { return cmp.Compare(a[0], c[0]) })
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Build classifies the collected facts and returns the knowledge base.
//
// Class indices are assigned in ascending order of
// frequency + 1 - ancestors/classIDs so that rare (high information
// content) classes get low indices and, among equally frequent classes,
// deeper ones come first. Remaining ties are broken by representative id,
// which makes the enumeration reproducible.
func (b *Builder) Build() (*KnowledgeBase, error) {
	for id := range b.classes {
		if id == "" {
			return nil, fmt.Errorf("%w: empty class id", ErrInvalidDefinition)
		}
	}
	for id := range b.individuals {
		if id == "" {
			return nil, fmt.Errorf("%w: empty individual id", ErrInvalidDefinition)
		}
	}

	// Class nodes in provisional order (by representative id).
	classIDs := sortedKeys(b.classes)
	cuf := make(unionFind)
	for _, id := range classIDs {
		cuf.find(id)
		for _, e := range b.classes[id].equiv {
			cuf.union(id, e)
		}
	}
	classGroups := cuf.groups(classIDs)
	nc := uint32(len(classGroups))
	tmp := make(map[string]uint32, len(classIDs))
	for t, g := range classGroups {
		for _, id := range g {
			tmp[id] = uint32(t)
		}
	}
	root := tmp[b.opts.root]

	parents := make([][]uint32, nc)
	opposing := make([][]uint32, nc)
	for _, id := range classIDs {
		t := tmp[id]
		for _, p := range b.classes[id].parents {
			if pt := tmp[p]; pt != t && !slices.Contains(parents[t], pt) {
				parents[t] = append(parents[t], pt)
			}
		}
		for _, o := range b.classes[id].opposing {
			if ot := tmp[o]; !slices.Contains(opposing[t], ot) {
				opposing[t] = append(opposing[t], ot)
			}
		}
	}
	for t := range parents {
		if uint32(t) != root && len(parents[t]) == 0 {
			parents[t] = []uint32{root}
		}
	}

	order, err := topoOrder(parents)
	if err != nil {
		return nil, err
	}

	// Reflexive ancestor closures, parents before children.
	anc := make([]*bitmap.Bitmap, nc)
	for _, t := range order {
		closures := make([]*bitmap.Bitmap, 0, len(parents[t]))
		for _, p := range parents[t] {
			closures = append(closures, anc[p])
		}
		bm, err := bitmap.Union(nc, closures...)
		if err != nil {
			return nil, err
		}
		if err := bm.Add(t); err != nil {
			return nil, err
		}
		anc[t] = bm
	}
	desc := invert(anc, nc)

	// Individual nodes.
	indIDs := sortedKeys(b.individuals)
	iuf := make(unionFind)
	for _, id := range indIDs {
		iuf.find(id)
		for _, s := range b.individuals[id].sameAs {
			iuf.union(id, s)
		}
	}
	indGroups := iuf.groups(indIDs)
	ni := uint32(len(indGroups))

	asserted := make([]*bitmap.Bitmap, ni)
	inferred := make([]*bitmap.Bitmap, ni)
	directTypes := make([]*bitmap.Bitmap, ni)
	directNeg := make([]*bitmap.Bitmap, ni)
	neg := make([]*bitmap.Bitmap, ni)
	individuals := make([]IndividualNode, ni)

	for i, g := range indGroups {
		node := IndividualNode{IDs: g}
		a := bitmap.New(nc)
		dn := bitmap.New(nc)
		negClosures := []*bitmap.Bitmap{}
		for _, id := range g {
			d := b.individuals[id]
			if node.Label == "" {
				node.Label = d.label
			}
			for _, c := range d.types {
				_ = a.Add(tmp[c])
			}
			for _, c := range d.negated {
				_ = dn.Add(tmp[c])
				negClosures = append(negClosures, desc[tmp[c]])
			}
		}
		individuals[i] = node

		closures := []*bitmap.Bitmap{anc[root]}
		for c := range a.All() {
			closures = append(closures, anc[c])
		}
		inf, err := bitmap.Union(nc, closures...)
		if err != nil {
			return nil, err
		}

		// Most specific asserted types.
		dt := bitmap.New(nc)
		for c := range a.All() {
			specific := true
			for o := range a.All() {
				if o != c && anc[o].Contains(c) {
					specific = false
					break
				}
			}
			if specific {
				_ = dt.Add(c)
			}
		}
		if dt.IsEmpty() {
			_ = dt.Add(root)
		}

		// Opposing classes of any inferred type are negated.
		for c := range inf.All() {
			for _, o := range opposing[c] {
				_ = dn.Add(o)
				negClosures = append(negClosures, desc[o])
			}
		}
		nn, err := bitmap.Union(nc, negClosures...)
		if err != nil {
			return nil, err
		}

		asserted[i], inferred[i], directTypes[i] = a, inf, dt
		directNeg[i], neg[i] = dn, nn
	}

	// Frequencies over the inferred types.
	freq := make([]int, nc)
	for _, inf := range inferred {
		for c := range inf.All() {
			freq[c]++
		}
	}

	// Index assignment.
	numClassIDs := float64(len(classIDs))
	keys := make([]float64, nc)
	for t := range keys {
		keys[t] = float64(freq[t]) + 1 - float64(anc[t].Cardinality()-1)/numClassIDs
	}
	perm := make([]uint32, nc)
	for t := range perm {
		perm[t] = uint32(t)
	}
	slices.SortFunc(perm, func(x, y uint32) int {
		if c := cmp.Compare(keys[x], keys[y]); c != 0 {
			return c
		}
		return cmp.Compare(classGroups[x][0], classGroups[y][0])
	})
	final := make([]uint32, nc)
	for f, t := range perm {
		final[t] = uint32(f)
	}
	remap := func(bm *bitmap.Bitmap) *bitmap.Bitmap {
		out := bitmap.New(bm.Dim())
		for t := range bm.All() {
			_ = out.Add(final[t])
		}
		return out
	}

	kb := &KnowledgeBase{
		root:            final[root],
		classes:         make([]ClassNode, nc),
		individuals:     individuals,
		directSuper:     make([]*bitmap.Bitmap, nc),
		super:           make([]*bitmap.Bitmap, nc),
		directSub:       make([]*bitmap.Bitmap, nc),
		sub:             make([]*bitmap.Bitmap, nc),
		directInstances: make([]*bitmap.Bitmap, nc),
		directTypes:     make([]*bitmap.Bitmap, ni),
		types:           make([]*bitmap.Bitmap, ni),
		directNegated:   make([]*bitmap.Bitmap, ni),
		negated:         make([]*bitmap.Bitmap, ni),
	}

	for t := range nc {
		f := final[t]
		node := ClassNode{IDs: classGroups[t], Instances: freq[t], Frequency: max(freq[t], 1)}
		for _, id := range classGroups[t] {
			if node.Label == "" {
				node.Label = b.classes[id].label
			}
		}
		kb.classes[f] = node
		kb.super[f] = remap(anc[t])
		kb.sub[f] = remap(desc[t])
		kb.directInstances[f] = bitmap.New(ni)
		kb.directSub[f] = bitmap.New(nc)

		// Transitive reduction: drop parents implied by another parent.
		ds := bitmap.New(nc)
		for _, p := range parents[t] {
			redundant := false
			for _, q := range parents[t] {
				if q != p && anc[q].Contains(p) {
					redundant = true
					break
				}
			}
			if !redundant {
				_ = ds.Add(final[p])
			}
		}
		kb.directSuper[f] = ds
	}
	for f := range nc {
		for p := range kb.directSuper[f].All() {
			_ = kb.directSub[p].Add(f)
		}
	}

	for i := range ni {
		for t := range asserted[i].All() {
			_ = kb.directInstances[final[t]].Add(i)
		}
		kb.types[i] = remap(inferred[i])
		kb.directTypes[i] = remap(directTypes[i])
		kb.negated[i] = remap(neg[i])
		kb.directNegated[i] = remap(directNeg[i])
	}

	if err := kb.finish(b.opts); err != nil {
		return nil, err
	}
	return kb, nil
}

// topoOrder returns the nodes ordered so that every parent precedes its
// children.
func topoOrder(parents [][]uint32) ([]uint32, error) {
	n := len(parents)
	pending := make([]int, n)
	children := make([][]uint32, n)
	for c, ps := range parents {
		pending[c] = len(ps)
		for _, p := range ps {
			children[p] = append(children[p], uint32(c))
		}
	}

	order := make([]uint32, 0, n)
	for t := range n {
		if pending[t] == 0 {
			order = append(order, uint32(t))
		}
	}
	for k := 0; k < len(order); k++ {
		for _, c := range children[order[k]] {
			pending[c]--
			if pending[c] == 0 {
				order = append(order, c)
			}
		}
	}
	if len(order) != n {
		return nil, fmt.Errorf("%w: %d classes unreachable from root", ErrCyclicHierarchy, n-len(order))
	}
	return order, nil
}

// invert turns reflexive ancestor closures into reflexive descendant closures.
func invert(anc []*bitmap.Bitmap, dim uint32) []*bitmap.Bitmap {
	desc := make([]*bitmap.Bitmap, len(anc))
	for t := range desc {
		desc[t] = bitmap.New(dim)
	}
	for t, a := range anc {
		for p := range a.All() {
			_ = desc[p].Add(uint32(t))
		}
	}
	return desc
}
