package tensor

import "fmt"

// panic message for misuse of the axis-from-right convention;
// offsets are 1-based by contract, so 0 or negative is programmer error.
const panicAxisOffset = "tensor: axis offset from right must be >= 1"

// BroadcastShapes computes the right-aligned broadcast union of two
// shapes: ranks are aligned at the rightmost axis, missing axes count
// as size 1, and each axis of the result takes the larger size.
// Errors: ErrShapeMismatch when both sizes exceed 1 and disagree.
// Complexity: O(max rank).
func BroadcastShapes(a, b []int) ([]int, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for k := 1; k <= n; k++ {
		sa, sb := sizeFromRight(a, k), sizeFromRight(b, k)
		switch {
		case sa == sb, sb == 1:
			out[n-k] = sa
		case sa == 1:
			out[n-k] = sb
		default:
			return nil, fmt.Errorf("tensor: axes %d and %d at offset -%d: %w", sa, sb, k, ErrShapeMismatch)
		}
	}
	return out, nil
}

// sizeFromRight reads the k-th axis from the right of shape, treating
// axes beyond the rank as size 1.
func sizeFromRight(shape []int, k int) int {
	if k < 1 {
		panic(panicAxisOffset)
	}
	if k > len(shape) {
		return 1
	}
	return shape[len(shape)-k]
}

// SizeFromRight returns the size of the k-th axis counted from the
// rightmost axis (k=1 is the last axis). Axes beyond the value's rank
// are implicit broadcast axes and report size 1.
// Complexity: O(1).
func (d *Dense) SizeFromRight(k int) int {
	return sizeFromRight(d.shape, k)
}

// strides returns row-major strides for shape (stride of the last axis
// is 1). An empty shape yields an empty stride set.
func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}
	return st
}

// decodeCoords fills buf (len == len(shape)) with the coordinates of
// flat index off under shape.
func decodeCoords(off int, shape, buf []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		buf[i] = off % shape[i]
		off /= shape[i]
	}
}

// flatUnder maps result coordinates (under resShape) onto a flat index
// of an operand with the given shape, right-aligned: implicit and
// size-1 operand axes pin their coordinate to 0.
func flatUnder(opShape, opStrides, resCoords []int) int {
	off := 0
	for k := 1; k <= len(opShape); k++ {
		size := opShape[len(opShape)-k]
		if size == 1 {
			continue
		}
		c := resCoords[len(resCoords)-k]
		off += c * opStrides[len(opShape)-k]
	}
	return off
}

// BroadcastTo materializes the receiver broadcast to shape.
// Errors: ErrShapeMismatch when the receiver does not broadcast to
// shape (an axis of size > 1 disagrees, or shape is narrower than the
// receiver); ErrBadShape on an invalid target shape.
// Complexity: O(prod(shape) · rank).
func (d *Dense) BroadcastTo(shape ...int) (*Dense, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if len(shape) < len(d.shape) {
		return nil, fmt.Errorf("tensor: broadcast %v to narrower %v: %w", d.shape, shape, ErrShapeMismatch)
	}
	for k := 1; k <= len(d.shape); k++ {
		s := sizeFromRight(d.shape, k)
		if s != 1 && s != sizeFromRight(shape, k) {
			return nil, fmt.Errorf("tensor: broadcast %v to %v: %w", d.shape, shape, ErrShapeMismatch)
		}
	}
	out, err := Zeros(shape...)
	if err != nil {
		return nil, err
	}
	st := strides(d.shape)
	coords := make([]int, len(shape))
	for i := range out.data {
		decodeCoords(i, shape, coords)
		out.data[i] = d.data[flatUnder(d.shape, st, coords)]
	}
	return out, nil
}
