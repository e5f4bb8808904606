// Package conv holds checked integer conversions and zero-copy slice
// reinterpretation used at the boundary between typed identifiers and the
// raw columns of the table engine.
package conv
