package cpt

import (
	"errors"
	"fmt"
)

var (
	// ErrIncoherentState is the sentinel matched by *IncoherentStateError.
	ErrIncoherentState = errors.New("incoherent state")

	// ErrTooManyParents is returned when a target has more direct parents
	// than the index allows.
	ErrTooManyParents = errors.New("too many parents")

	// ErrPatternLength is returned when a state pattern does not match the
	// number of parents.
	ErrPatternLength = errors.New("pattern length mismatch")
)

// IncoherentStateError reports contradictory evidence: an individual that is
// both typed and negated for a parent, or a pattern asserted without any
// supporting individual.
type IncoherentStateError struct {
	Target string
	// Individual and Parent are set for contradictory evidence.
	Individual string
	Parent     string
	// Pattern is set for an asserted pattern without support.
	Pattern string
}

func (e *IncoherentStateError) Error() string {
	if e.Individual != "" {
		return fmt.Sprintf("incoherent state for %s: individual %s is both typed and negated for %s", e.Target, e.Individual, e.Parent)
	}
	return fmt.Sprintf("incoherent state for %s: no support for %s", e.Target, e.Pattern)
}

func (e *IncoherentStateError) Unwrap() error {
	return ErrIncoherentState
}
