package testutil

import (
	"embed"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/simgo/kb"
)

// Fixture names.
const (
	// Animals is a multiple-inheritance hierarchy with equivalent classes
	// and same-as individuals.
	Animals = "animals"
	// Negation has individuals X {A}, Y {A, B}, Z {C} and an opposite pair.
	Negation = "negation"
	// CPT is the x1, x2 -> leaf diamond with absence evidence.
	CPT = "cpt"
)

//go:embed testdata/*.yaml
var testdata embed.FS

// Definition loads an embedded fixture definition.
func Definition(name string) (*kb.Definition, error) {
	f, err := testdata.Open("testdata/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", name, err)
	}
	defer f.Close()
	return kb.LoadDefinition(f)
}

// Fixture builds an embedded fixture.
func Fixture(name string, optFns ...kb.Option) (*kb.KnowledgeBase, error) {
	def, err := Definition(name)
	if err != nil {
		return nil, err
	}
	return def.Build(optFns...)
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ClassID returns the id used for the k-th generated class.
func ClassID(k int) string { return fmt.Sprintf("C:%04d", k) }

// IndividualID returns the id used for the k-th generated individual.
func IndividualID(k int) string { return fmt.Sprintf("I:%04d", k) }

// Definition generates a random DAG of numClasses classes below the default
// root. Every class has one or two parents among the classes generated
// before it, so the hierarchy is acyclic by construction. Each individual
// gets one to three Zipf-distributed types and, occasionally, a negated
// type.
func (r *RNG) Definition(numClasses, numIndividuals int) *kb.Definition {
	r.mu.Lock()
	defer r.mu.Unlock()

	def := &kb.Definition{}
	for k := range numClasses {
		c := kb.ClassDefinition{ID: ClassID(k)}
		if k > 0 {
			c.Parents = append(c.Parents, ClassID(r.rand.Intn(k)))
			if k > 1 && r.rand.Intn(4) == 0 {
				if p := ClassID(r.rand.Intn(k)); p != c.Parents[0] {
					c.Parents = append(c.Parents, p)
				}
			}
		}
		def.Classes = append(def.Classes, c)
	}

	for k := range numIndividuals {
		ind := kb.IndividualDefinition{ID: IndividualID(k)}
		if numClasses > 0 {
			for range 1 + r.rand.Intn(3) {
				// Deeper classes are generated later; favour them.
				ind.Types = append(ind.Types, ClassID(numClasses-1-r.zipfLocked(numClasses, 1.1)))
			}
			if r.rand.Intn(5) == 0 {
				ind.Negated = append(ind.Negated, ClassID(r.rand.Intn(numClasses)))
			}
		}
		def.Individuals = append(def.Individuals, ind)
	}
	return def
}
