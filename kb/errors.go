package kb

import "errors"

var (
	// ErrNotFound is returned when a class or individual id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrCyclicHierarchy is returned when asserted subclass edges form a cycle
	// between classes that were not declared equivalent.
	ErrCyclicHierarchy = errors.New("cyclic class hierarchy")

	// ErrInvalidDefinition is returned when a definition contains an empty id.
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrCorruptSnapshot is returned when a snapshot fails validation.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrIncompatibleFormat is returned when the snapshot version or
	// compression is not supported.
	ErrIncompatibleFormat = errors.New("incompatible snapshot format")
)
