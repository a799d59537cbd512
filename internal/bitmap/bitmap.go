package bitmap

import (
	"errors"
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

var (
	// ErrDimensionMismatch is returned when two bitmaps over different
	// universes are combined.
	ErrDimensionMismatch = errors.New("bitmap dimension mismatch")

	// ErrOutOfRange is returned when an index is not below the declared dimension.
	ErrOutOfRange = errors.New("bitmap index out of range")
)

// Bitmap is a compressed set of dense indices in [0, Dim).
//
// A Bitmap is mutable only while it is being built (Add). Once it is shared
// through a knowledge base it must be treated as read-only; every set
// operation returns a fresh Bitmap and never modifies its receiver.
type Bitmap struct {
	rb  *roaring.Bitmap
	dim uint32
}

// New creates an empty bitmap over the universe [0, dim).
func New(dim uint32) *Bitmap {
	return &Bitmap{rb: roaring.New(), dim: dim}
}

// Of creates a bitmap containing ids. It fails if any id is >= dim.
func Of(dim uint32, ids ...uint32) (*Bitmap, error) {
	b := New(dim)
	for _, id := range ids {
		if err := b.Add(id); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Full creates a bitmap containing every index of the universe.
func Full(dim uint32) *Bitmap {
	b := New(dim)
	b.rb.AddRange(0, uint64(dim))
	return b
}

// Add sets id. Only valid during construction.
func (b *Bitmap) Add(id uint32) error {
	if id >= b.dim {
		return fmt.Errorf("%w: %d >= %d", ErrOutOfRange, id, b.dim)
	}
	b.rb.Add(id)
	return nil
}

// Dim returns the declared universe size.
func (b *Bitmap) Dim() uint32 { return b.dim }

// Contains reports whether id is set.
func (b *Bitmap) Contains(id uint32) bool {
	return b.rb.Contains(id)
}

// Cardinality returns the number of set bits.
func (b *Bitmap) Cardinality() int {
	return int(b.rb.GetCardinality())
}

// IsEmpty returns true if no bit is set.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// ToArray returns the set bits in ascending order.
func (b *Bitmap) ToArray() []uint32 {
	return b.rb.ToArray()
}

// All iterates the set bits in ascending order.
func (b *Bitmap) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Equals reports whether both bitmaps share dimension and members.
func (b *Bitmap) Equals(other *Bitmap) bool {
	return b.dim == other.dim && b.rb.Equals(other.rb)
}

// IsSubsetOf reports whether every member of b is in other.
func (b *Bitmap) IsSubsetOf(other *Bitmap) (bool, error) {
	if err := b.check(other); err != nil {
		return false, err
	}
	return b.rb.AndCardinality(other.rb) == b.rb.GetCardinality(), nil
}

func (b *Bitmap) check(other *Bitmap) error {
	if b.dim != other.dim {
		return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, b.dim, other.dim)
	}
	return nil
}

// And returns the intersection of b and other.
func (b *Bitmap) And(other *Bitmap) (*Bitmap, error) {
	if err := b.check(other); err != nil {
		return nil, err
	}
	return &Bitmap{rb: roaring.And(b.rb, other.rb), dim: b.dim}, nil
}

// Or returns the union of b and other.
func (b *Bitmap) Or(other *Bitmap) (*Bitmap, error) {
	if err := b.check(other); err != nil {
		return nil, err
	}
	return &Bitmap{rb: roaring.Or(b.rb, other.rb), dim: b.dim}, nil
}

// AndCardinality returns |b ∩ other| without materializing the intersection.
func (b *Bitmap) AndCardinality(other *Bitmap) (int, error) {
	if err := b.check(other); err != nil {
		return 0, err
	}
	return int(b.rb.AndCardinality(other.rb)), nil
}

// OrCardinality returns |b ∪ other| without materializing the union.
func (b *Bitmap) OrCardinality(other *Bitmap) (int, error) {
	if err := b.check(other); err != nil {
		return 0, err
	}
	return int(b.rb.OrCardinality(other.rb)), nil
}

// Union returns the union of all bitmaps over a universe of size dim.
// An empty input yields an empty bitmap.
func Union(dim uint32, bms ...*Bitmap) (*Bitmap, error) {
	rbs := make([]*roaring.Bitmap, 0, len(bms))
	for _, bm := range bms {
		if bm.dim != dim {
			return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, bm.dim, dim)
		}
		rbs = append(rbs, bm.rb)
	}
	return &Bitmap{rb: roaring.FastOr(rbs...), dim: dim}, nil
}

// MarshalBinary encodes the members in the portable roaring format.
// The dimension is not included; callers persist it separately.
func (b *Bitmap) MarshalBinary() ([]byte, error) {
	return b.rb.ToBytes()
}

// Unmarshal decodes a roaring-encoded bitmap and validates it against dim.
func Unmarshal(dim uint32, data []byte) (*Bitmap, error) {
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if !rb.IsEmpty() && rb.Maximum() >= dim {
		return nil, fmt.Errorf("%w: %d >= %d", ErrOutOfRange, rb.Maximum(), dim)
	}
	return &Bitmap{rb: rb, dim: dim}, nil
}
