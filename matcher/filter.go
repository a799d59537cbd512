package matcher

import (
	"fmt"

	"github.com/hupe1980/simgo/internal/bitmap"
)

func validateFilter(f *Filter) error {
	if f == nil {
		return nil
	}
	switch f.Name {
	case FilterType, FilterTarget:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFilter, f.Name)
	}
}

// candidates returns the individuals passing f.
func (m *Matcher) candidates(f *Filter) (*bitmap.Bitmap, error) {
	if f == nil || len(f.ClassIDs) == 0 {
		return m.kb.Individuals(), nil
	}
	classes, err := m.kb.ClassIndices(f.ClassIDs)
	if err != nil {
		return nil, err
	}

	var out *bitmap.Bitmap
	for c := range classes.All() {
		instances := m.kb.InstancesOf(c)
		if out == nil {
			out = instances
			continue
		}
		switch f.Name {
		case FilterType:
			out, err = out.Or(instances)
		case FilterTarget:
			out, err = out.And(instances)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
