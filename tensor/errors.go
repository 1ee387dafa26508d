// Package tensor: sentinel error set.
// Every message is prefixed with "tensor: ..." for consistency and easy
// grepping. Algorithms MUST return these sentinels and tests MUST check
// them via errors.Is. When context is essential, wrap with
// fmt.Errorf("ctx: %w", ErrX) at the detection site — callers still
// match with errors.Is.

package tensor

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid
	// (a non-positive dimension) or when the backing data length does
	// not match the shape's element count.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates that a coordinate, axis offset or index
	// selection is outside valid bounds. Public indexers return this,
	// they never panic.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrShapeMismatch indicates incompatible shapes between operands:
	// two axes of size > 1 disagree under right-aligned broadcasting,
	// or an indexed write's source cannot be matched to the selection.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrNilTensor indicates that a nil *Dense (receiver or argument)
	// was passed where a value is required.
	ErrNilTensor = errors.New("tensor: nil tensor")
)
