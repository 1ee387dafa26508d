package tensor

import (
	"fmt"
	"strings"
)

// Dense is a concrete row-major N-d array.
//   - shape holds the axis sizes, leftmost axis first; an empty shape
//     is a rank-0 scalar holding exactly one element.
//   - data is a flat buffer of length prod(shape) in row-major order.
type Dense struct {
	shape []int
	data  []float64
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense)(nil)

// denseErrorf wraps a sentinel with uniform method context.
func denseErrorf(method string, err error, format string, args ...any) error {
	return fmt.Errorf("Dense.%s(%s): %w", method, fmt.Sprintf(format, args...), err)
}

// checkShape validates that every dimension is strictly positive.
func checkShape(shape []int) error {
	for _, s := range shape {
		if s <= 0 {
			return fmt.Errorf("tensor: dimension %d: %w", s, ErrBadShape)
		}
	}
	return nil
}

// numElems returns the element count implied by shape (1 for rank 0).
func numElems(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Zeros creates a zero-filled tensor of the given shape.
// A call with no dimensions yields a rank-0 scalar.
// Errors: ErrBadShape on a non-positive dimension.
// Complexity: O(prod(shape)).
func Zeros(shape ...int) (*Dense, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	cp := append([]int(nil), shape...)
	return &Dense{shape: cp, data: make([]float64, numElems(cp))}, nil
}

// Full creates a tensor of the given shape with every element set to v.
// Errors: ErrBadShape on a non-positive dimension.
// Complexity: O(prod(shape)).
func Full(v float64, shape ...int) (*Dense, error) {
	d, err := Zeros(shape...)
	if err != nil {
		return nil, err
	}
	for i := range d.data {
		d.data[i] = v
	}
	return d, nil
}

// Scalar creates a rank-0 tensor holding v. Infallible by contract.
func Scalar(v float64) *Dense {
	return &Dense{shape: nil, data: []float64{v}}
}

// New creates a tensor over a copy of data with the given shape.
// Errors: ErrBadShape when a dimension is non-positive or when
// len(data) != prod(shape).
// Complexity: O(len(data)).
func New(data []float64, shape ...int) (*Dense, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if len(data) != numElems(shape) {
		return nil, fmt.Errorf("tensor: %d elements for shape %v: %w", len(data), shape, ErrBadShape)
	}
	return &Dense{
		shape: append([]int(nil), shape...),
		data:  append([]float64(nil), data...),
	}, nil
}

// Shape returns a copy of the axis sizes, leftmost axis first.
// Complexity: O(rank).
func (d *Dense) Shape() []int {
	return append([]int(nil), d.shape...)
}

// Rank returns the number of axes (0 for a scalar).
func (d *Dense) Rank() int { return len(d.shape) }

// Len returns the total number of elements.
func (d *Dense) Len() int { return len(d.data) }

// Data returns a copy of the flat row-major buffer.
// Complexity: O(len).
func (d *Dense) Data() []float64 {
	return append([]float64(nil), d.data...)
}

// Clone returns an independent deep copy.
// Complexity: O(len).
func (d *Dense) Clone() *Dense {
	return &Dense{
		shape: append([]int(nil), d.shape...),
		data:  append([]float64(nil), d.data...),
	}
}

// At returns the element at the given coordinates (one per axis,
// leftmost axis first; no coordinates for a scalar).
// Errors: ErrOutOfRange on a wrong coordinate count or an index
// outside its axis.
// Complexity: O(rank).
func (d *Dense) At(coords ...int) (float64, error) {
	off, err := d.offset(coords)
	if err != nil {
		return 0, denseErrorf("At", err, "%v", coords)
	}
	return d.data[off], nil
}

// Set writes v at the given coordinates. The only mutating accessor
// besides SetIndexed.
// Errors: ErrOutOfRange on a wrong coordinate count or an index
// outside its axis.
// Complexity: O(rank).
func (d *Dense) Set(v float64, coords ...int) error {
	off, err := d.offset(coords)
	if err != nil {
		return denseErrorf("Set", err, "%v", coords)
	}
	d.data[off] = v
	return nil
}

// offset computes the flat index for coords or reports ErrOutOfRange.
func (d *Dense) offset(coords []int) (int, error) {
	if len(coords) != len(d.shape) {
		return 0, fmt.Errorf("want %d coordinates, got %d: %w", len(d.shape), len(coords), ErrOutOfRange)
	}
	off := 0
	for i, c := range coords {
		if c < 0 || c >= d.shape[i] {
			return 0, ErrOutOfRange
		}
		off = off*d.shape[i] + c
	}
	return off, nil
}

// Equal reports exact structural equality: same shape, identical
// elements. Scalars compare equal only to scalars.
// Complexity: O(len).
func (d *Dense) Equal(o *Dense) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.shape) != len(o.shape) {
		return false
	}
	for i := range d.shape {
		if d.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range d.data {
		if d.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether o has the same shape and every element
// within eps of the receiver's. Exact comparison of NaN fails.
// Complexity: O(len).
func (d *Dense) AllClose(o *Dense, eps float64) bool {
	if d == nil || o == nil || len(d.shape) != len(o.shape) {
		return false
	}
	for i := range d.shape {
		if d.shape[i] != o.shape[i] {
			return false
		}
	}
	for i := range d.data {
		diff := d.data[i] - o.data[i]
		if diff < -eps || diff > eps {
			return false
		}
	}
	return true
}

// Reshape returns a view-copy of the same elements under a new shape
// with an identical element count.
// Errors: ErrBadShape when the counts disagree or a dimension is
// non-positive.
// Complexity: O(len).
func (d *Dense) Reshape(shape ...int) (*Dense, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if numElems(shape) != len(d.data) {
		return nil, fmt.Errorf("tensor: reshape %v to %v: %w", d.shape, shape, ErrBadShape)
	}
	return &Dense{
		shape: append([]int(nil), shape...),
		data:  append([]float64(nil), d.data...),
	}, nil
}

// String renders a compact single-line description; intended for
// diagnostics, not serialization.
func (d *Dense) String() string {
	if d == nil {
		return "Dense(nil)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dense%v", d.shape)
	if len(d.data) <= 8 {
		fmt.Fprintf(&b, "%v", d.data)
	} else {
		fmt.Fprintf(&b, "[%g ... %g]", d.data[0], d.data[len(d.data)-1])
	}
	return b.String()
}
