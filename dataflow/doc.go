// Package dataflow links the instructions of a straight-line range by the
// values they produce and consume.
//
// Build executes a range symbolically: every instruction becomes a Frame
// whose Operands are the frames that produced the values it popped, and
// every frame records the frames consuming its value. Local variables are
// followed from store to load, so a load's operand is the store that
// defined the slot.
//
// A frame's Slice is the smallest set of instructions that recomputes its
// value, and Extract turns a slice into a standalone static method that
// returns that value. This is how a constant computed by obfuscated code is
// isolated and evaluated on its own.
package dataflow
