// Package testutil provides fixtures and generators for simgo tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Fixtures
//
// Small hand written knowledge bases live in testdata/ as YAML definitions
// and are embedded into the binary:
//
//	kb, err := testutil.Fixture(testutil.Animals)
//
// # Random Knowledge Bases
//
//	rng := testutil.NewRNG(seed)
//	def := rng.Definition(50, 200)
//	kb, err := def.Build()
//
// Types are drawn from a Zipfian distribution so a few classes are common
// and most are rare, which is how annotation frequencies look in practice.
package testutil
