// Package tensor provides the dense numeric N-d array the rest of
// worldline computes over.
//
// A Dense value is a flat row-major float64 buffer plus a shape. All
// shape arithmetic is right-aligned, NumPy style: axes are addressed by
// their offset from the rightmost axis (offset 1 = last axis), and an
// axis beyond a value's rank behaves as an implicit axis of size 1.
// That convention is what lets reserved "world" axes grow leftward
// without disturbing a model's own batch and event axes on the right.
//
// Key operations:
//   - Zeros / Full / Scalar / New            — constructors
//   - BroadcastShapes / BroadcastTo          — right-aligned broadcasting
//   - SizeFromRight / IndexSelectFromRight   — axis-from-right addressing
//   - SetIndexed                             — indexed writes (scatter kernel)
//   - Zip / Apply / FoldTrailing / Select    — elementwise algebra
//
// Design rules, shared with the rest of the module:
//   - no panics on user-triggered conditions; sentinel errors matched
//     via errors.Is, wrapped with context at the detection site
//   - deterministic loop orders, no map iteration in numeric paths
//   - values are immutable through the public surface except Set and
//     SetIndexed, which mutate only their receiver
//
// Complexity quicksheet: constructors O(len), At/Set O(rank),
// broadcasted elementwise ops O(result len · rank).
package tensor
