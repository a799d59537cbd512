// Package cpt computes conditional probability tables for a class given the
// presence or absence of its direct parents.
//
// For a target class T with direct parents P1..Pk there are 2^k parent
// patterns. An individual supports a pattern when, for every parent, it
// carries evidence for exactly that state: Present when the parent is among
// its inferred types, Absent when the parent is among its negated types.
// Individuals without evidence for some parent support no pattern.
//
// Probabilities use add-one smoothing:
//
//	Pr(T | pattern) = (hits + 1) / (support + 2)
//
// so an unobserved pattern has probability 0.5 and is never an error. Tables
// are computed per call and never cached.
package cpt
