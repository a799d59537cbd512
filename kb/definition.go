package kb

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Definition is a declarative description of classes and instance data, as
// produced by an external ontology loader or written by hand for fixtures.
//
//	root: owl:Thing
//	classes:
//	  - id: HP:0000118
//	    label: Phenotypic abnormality
//	  - id: HP:0001250
//	    parents: [HP:0000118]
//	    opposite: [HP:0001251]
//	individuals:
//	  - id: patient-1
//	    types: [HP:0001250]
//	    negated: [HP:0000707]
type Definition struct {
	Root        string                 `yaml:"root,omitempty" json:"root,omitempty"`
	Classes     []ClassDefinition      `yaml:"classes,omitempty" json:"classes,omitempty"`
	Individuals []IndividualDefinition `yaml:"individuals,omitempty" json:"individuals,omitempty"`
}

// ClassDefinition declares a class and its asserted axioms.
type ClassDefinition struct {
	ID         string   `yaml:"id" json:"id"`
	Label      string   `yaml:"label,omitempty" json:"label,omitempty"`
	Parents    []string `yaml:"parents,omitempty" json:"parents,omitempty"`
	Equivalent []string `yaml:"equivalent,omitempty" json:"equivalent,omitempty"`
	Disjoint   []string `yaml:"disjoint,omitempty" json:"disjoint,omitempty"`
	Opposite   []string `yaml:"opposite,omitempty" json:"opposite,omitempty"`
}

// IndividualDefinition declares an individual and its class assertions.
type IndividualDefinition struct {
	ID      string   `yaml:"id" json:"id"`
	Label   string   `yaml:"label,omitempty" json:"label,omitempty"`
	Types   []string `yaml:"types,omitempty" json:"types,omitempty"`
	Negated []string `yaml:"negated,omitempty" json:"negated,omitempty"`
	SameAs  []string `yaml:"same_as,omitempty" json:"same_as,omitempty"`
}

// LoadDefinition decodes a YAML (or JSON) definition. Unknown fields are
// rejected.
func LoadDefinition(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &d, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return &d, nil
}

// Builder returns a builder populated with the definition. The root from
// the definition takes precedence over WithRoot.
func (d *Definition) Builder(optFns ...Option) *Builder {
	if d.Root != "" {
		optFns = append(optFns, WithRoot(d.Root))
	}
	b := NewBuilder(optFns...)

	for _, c := range d.Classes {
		b.AddClass(c.ID, c.Label)
		for _, p := range c.Parents {
			b.AddSubClassOf(c.ID, p)
		}
		for _, e := range c.Equivalent {
			b.AddEquivalent(c.ID, e)
		}
		for _, x := range c.Disjoint {
			b.AddDisjoint(c.ID, x)
		}
		for _, x := range c.Opposite {
			b.AddOpposite(c.ID, x)
		}
	}
	for _, i := range d.Individuals {
		b.AddIndividual(i.ID, i.Label)
		for _, c := range i.Types {
			b.AddType(i.ID, c)
		}
		for _, c := range i.Negated {
			b.AddNegatedType(i.ID, c)
		}
		for _, s := range i.SameAs {
			b.AddSameAs(i.ID, s)
		}
	}
	return b
}

// Build is shorthand for d.Builder(optFns...).Build().
func (d *Definition) Build(optFns ...Option) (*KnowledgeBase, error) {
	return d.Builder(optFns...).Build()
}
