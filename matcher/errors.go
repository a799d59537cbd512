package matcher

import "errors"

var (
	// ErrUnknownFilter is returned for a filter name the matcher does not know.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnsupportedCapability is returned when a query needs a capability,
	// such as negation, that the strategy does not declare.
	ErrUnsupportedCapability = errors.New("unsupported capability")
)
