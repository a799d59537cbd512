// Package bitmap provides the dimension-checked compressed bitsets used by the
// knowledge base.
//
// Bitmap wraps a Roaring bitmap together with the size of the dense integer
// universe it was declared over (number of class nodes or number of
// individual nodes). Combining bitmaps over different universes is an
// invariant violation and is reported as ErrDimensionMismatch instead of
// silently producing a meaningless result.
//
// # Immutability
//
// Bitmaps are built once while the knowledge base is constructed and are
// shared read-only afterwards. Set operations (And, Or, Union)
// always allocate their result, so concurrent readers never observe a
// partially updated bitmap.
//
// # Example Usage
//
//	a, _ := bitmap.Of(16, 1, 2, 3)
//	b, _ := bitmap.Of(16, 2, 3, 4)
//
//	both, _ := a.And(b)            // {2,3}
//	n, _ := a.OrCardinality(b)     // 4
//
//	for id := range both.All() {
//	    // ascending order
//	}
package bitmap
