// Package conv provides bounds-checked integer conversions for lengths and
// counts that cross the snapshot boundary.
//
// Use direct casts where the domain already bounds the value, such as node
// indices below the bitmap dimension.
package conv
