package simgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/simgo/cpt"
	"github.com/hupe1980/simgo/internal/bitmap"
	"github.com/hupe1980/simgo/kb"
	"github.com/hupe1980/simgo/matcher"
)

var (
	// ErrNotFound is returned for an unknown class or individual id.
	ErrNotFound = errors.New("not found")

	// ErrUnknownFilter is returned for an unrecognized filter name.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnsupportedCapability is returned for a negated query against a
	// matcher without negation support.
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrIncoherentState is returned when the conditional probability index
	// meets contradictory evidence.
	ErrIncoherentState = errors.New("incoherent state")

	// ErrInvariantViolation signals an internal inconsistency such as a
	// bitmap dimension mismatch. It is unreachable for knowledge bases built
	// by this module.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnknownMatcher is returned for a matcher name not in the registry.
	ErrUnknownMatcher = errors.New("unknown matcher")
)

// ErrInvalidStrategy indicates a strategy that cannot be registered: a nil
// strategy or one with an empty name.
type ErrInvalidStrategy struct {
	Name string
}

func (e *ErrInvalidStrategy) Error() string {
	return fmt.Sprintf("invalid strategy %q", e.Name)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Validation.
	if errors.Is(err, kb.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, matcher.ErrUnknownFilter) {
		return fmt.Errorf("%w: %w", ErrUnknownFilter, err)
	}
	if errors.Is(err, matcher.ErrUnsupportedCapability) {
		return fmt.Errorf("%w: %w", ErrUnsupportedCapability, err)
	}

	// Scoring.
	var ise *cpt.IncoherentStateError
	if errors.As(err, &ise) {
		return fmt.Errorf("%w: %w", ErrIncoherentState, err)
	}
	if errors.Is(err, bitmap.ErrDimensionMismatch) || errors.Is(err, bitmap.ErrOutOfRange) {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}

	return err
}
