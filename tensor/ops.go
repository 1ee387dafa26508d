package tensor

import (
	"fmt"
	"math"
)

// Zip applies f elementwise over a and b after right-aligned
// broadcasting and returns the result; neither operand is mutated.
// Errors: ErrNilTensor on a nil operand; ErrShapeMismatch when the
// shapes do not broadcast.
// Complexity: O(result len · rank).
func Zip(a, b *Dense, f func(x, y float64) float64) (*Dense, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("Zip: %w", ErrNilTensor)
	}
	shape, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	out, err := Zeros(shape...)
	if err != nil {
		return nil, err
	}
	sta, stb := strides(a.shape), strides(b.shape)
	coords := make([]int, len(shape))
	for i := range out.data {
		decodeCoords(i, shape, coords)
		out.data[i] = f(
			a.data[flatUnder(a.shape, sta, coords)],
			b.data[flatUnder(b.shape, stb, coords)],
		)
	}
	return out, nil
}

// Apply returns a new tensor with f applied to every element.
// Complexity: O(len).
func (d *Dense) Apply(f func(float64) float64) *Dense {
	out := d.Clone()
	for i := range out.data {
		out.data[i] = f(out.data[i])
	}
	return out
}

// FoldTrailing folds the last n axes of the receiver into a single
// value per remaining position: each output element is the left fold of
// f over the corresponding trailing block, starting from init. n == 0
// returns a clone.
// Errors: ErrOutOfRange when n is negative or exceeds the rank.
// Complexity: O(len).
func (d *Dense) FoldTrailing(n int, init float64, f func(acc, x float64) float64) (*Dense, error) {
	if n < 0 || n > len(d.shape) {
		return nil, fmt.Errorf("Dense.FoldTrailing(%d) over rank %d: %w", n, len(d.shape), ErrOutOfRange)
	}
	if n == 0 {
		return d.Clone(), nil
	}
	keep := d.shape[:len(d.shape)-n]
	inner := 1
	for _, s := range d.shape[len(d.shape)-n:] {
		inner *= s
	}
	out := &Dense{shape: append([]int(nil), keep...), data: make([]float64, numElems(keep))}
	for i := range out.data {
		acc := init
		block := d.data[i*inner : (i+1)*inner]
		for _, x := range block {
			acc = f(acc, x)
		}
		out.data[i] = acc
	}
	return out, nil
}

// IndexSelectFromRight selects the given indices along the k-th axis
// from the right (k=1 is the last axis). When the axis is implicit
// (k exceeds the rank) or has size 1, the value is constant along it
// and selection is a broadcast no-op: the receiver is returned as is.
// Indices are taken in the order given and may repeat.
// Errors: ErrOutOfRange on k < 1, an empty selection, or an index
// outside the axis.
// Complexity: O(result len · rank).
func (d *Dense) IndexSelectFromRight(k int, indices []int) (*Dense, error) {
	if k < 1 {
		return nil, fmt.Errorf("Dense.IndexSelectFromRight(%d): %w", k, ErrOutOfRange)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("Dense.IndexSelectFromRight(%d): empty selection: %w", k, ErrOutOfRange)
	}
	size := d.SizeFromRight(k)
	if size == 1 {
		return d, nil
	}
	for _, idx := range indices {
		if idx < 0 || idx >= size {
			return nil, fmt.Errorf("Dense.IndexSelectFromRight(%d): index %d of %d: %w", k, idx, size, ErrOutOfRange)
		}
	}
	axis := len(d.shape) - k
	shape := d.Shape()
	shape[axis] = len(indices)
	out, err := Zeros(shape...)
	if err != nil {
		return nil, err
	}
	st := strides(d.shape)
	coords := make([]int, len(shape))
	for i := range out.data {
		decodeCoords(i, shape, coords)
		coords[axis] = indices[coords[axis]]
		off := 0
		for j, c := range coords {
			off += c * st[j]
		}
		out.data[i] = d.data[off]
	}
	return out, nil
}

// SetIndexed writes src into the receiver restricted to the selected
// positions. sel maps an axis offset from the right (1-based) to the
// destination indices to visit along that axis; unselected axes span
// fully. For each selected axis, src must either be constant along it
// (size 1, broadcast into every selected index), carry one slice per
// selected index (size == len(sel[k]), written positionally in the
// given order), or span the full destination axis (size == dst size,
// copied index-aligned). Unselected axes follow plain broadcasting.
// This is the scatter kernel: the only bulk-mutating operation.
// Errors: ErrNilTensor, ErrOutOfRange (bad axis offset, empty or
// out-of-range selection), ErrShapeMismatch (unmatchable src).
// Complexity: O(written elements · rank).
func (d *Dense) SetIndexed(src *Dense, sel map[int][]int) error {
	if d == nil || src == nil {
		return fmt.Errorf("Dense.SetIndexed: %w", ErrNilTensor)
	}
	rank := len(d.shape)
	for k := range sel {
		if k < 1 || k > rank {
			return fmt.Errorf("Dense.SetIndexed: axis offset -%d over rank %d: %w", k, rank, ErrOutOfRange)
		}
	}
	// Source axes beyond the destination rank must be broadcast axes.
	for k := rank + 1; k <= len(src.shape); k++ {
		if src.SizeFromRight(k) != 1 {
			return fmt.Errorf("Dense.SetIndexed: source rank %d exceeds destination rank %d: %w",
				len(src.shape), rank, ErrShapeMismatch)
		}
	}
	// Per-axis destination index lists and source addressing modes.
	const (
		srcBroadcast = iota // source size 1: same slice into every index
		srcPositional       // source size len(sel[k]): one slice per index
		srcAligned          // source spans the axis: index-aligned copy
	)
	lists := make([][]int, rank) // indexed by axis offset-1 from right
	modes := make([]int, rank)
	for k := 1; k <= rank; k++ {
		dstSize := d.SizeFromRight(k)
		srcSize := src.SizeFromRight(k)
		if idxs, ok := sel[k]; ok {
			if len(idxs) == 0 {
				return fmt.Errorf("Dense.SetIndexed: axis -%d: empty selection: %w", k, ErrOutOfRange)
			}
			for _, idx := range idxs {
				if idx < 0 || idx >= dstSize {
					return fmt.Errorf("Dense.SetIndexed: axis -%d: index %d of %d: %w", k, idx, dstSize, ErrOutOfRange)
				}
			}
			lists[k-1] = idxs
			switch srcSize {
			case 1:
				modes[k-1] = srcBroadcast
			case len(idxs):
				modes[k-1] = srcPositional
			case dstSize:
				modes[k-1] = srcAligned
			default:
				return fmt.Errorf("Dense.SetIndexed: axis -%d: source size %d vs %d selected of %d: %w",
					k, srcSize, len(idxs), dstSize, ErrShapeMismatch)
			}
		} else {
			if srcSize != 1 && srcSize != dstSize {
				return fmt.Errorf("Dense.SetIndexed: axis -%d: source size %d vs %d: %w",
					k, srcSize, dstSize, ErrShapeMismatch)
			}
			full := make([]int, dstSize)
			for i := range full {
				full[i] = i
			}
			lists[k-1] = full
			if srcSize == 1 {
				modes[k-1] = srcBroadcast
			} else {
				modes[k-1] = srcAligned
			}
		}
	}
	// Odometer over the selected subgrid, rightmost axis fastest.
	pos := make([]int, rank)        // position within each axis's list
	dstCoords := make([]int, rank)  // leftmost-first coordinates
	srcCoords := make([]int, rank)  // aligned from the right against src
	srcStrides := strides(src.shape)
	dstStrides := strides(d.shape)
	for {
		for k := 1; k <= rank; k++ {
			axis := rank - k
			dstIdx := lists[k-1][pos[k-1]]
			dstCoords[axis] = dstIdx
			switch modes[k-1] {
			case srcBroadcast:
				srcCoords[axis] = 0
			case srcPositional:
				srcCoords[axis] = pos[k-1]
			default: // srcAligned
				srcCoords[axis] = dstIdx
			}
		}
		dstOff, srcOff := 0, 0
		for axis := 0; axis < rank; axis++ {
			dstOff += dstCoords[axis] * dstStrides[axis]
		}
		for k := 1; k <= len(src.shape); k++ {
			if src.shape[len(src.shape)-k] == 1 {
				continue
			}
			srcOff += srcCoords[rank-k] * srcStrides[len(src.shape)-k]
		}
		d.data[dstOff] = src.data[srcOff]
		// Advance the odometer.
		k := 1
		for ; k <= rank; k++ {
			pos[k-1]++
			if pos[k-1] < len(lists[k-1]) {
				break
			}
			pos[k-1] = 0
		}
		if k > rank {
			return nil
		}
	}
}

// Select picks, per element, among candidates by the integer code in
// codes: result[i] = candidates[codes[i]][i], with codes and all
// candidates broadcast to their common shape.
// Errors: ErrNilTensor on nil inputs or no candidates; ErrShapeMismatch
// when shapes do not broadcast; ErrOutOfRange when a code is not an
// integer in [0, len(candidates)).
// Complexity: O(result len · rank).
func Select(codes *Dense, candidates []*Dense) (*Dense, error) {
	if codes == nil || len(candidates) == 0 {
		return nil, fmt.Errorf("Select: %w", ErrNilTensor)
	}
	shape := codes.Shape()
	for _, c := range candidates {
		if c == nil {
			return nil, fmt.Errorf("Select: %w", ErrNilTensor)
		}
		var err error
		if shape, err = BroadcastShapes(shape, c.shape); err != nil {
			return nil, err
		}
	}
	out, err := Zeros(shape...)
	if err != nil {
		return nil, err
	}
	codeStrides := strides(codes.shape)
	candStrides := make([][]int, len(candidates))
	for i, c := range candidates {
		candStrides[i] = strides(c.shape)
	}
	coords := make([]int, len(shape))
	for i := range out.data {
		decodeCoords(i, shape, coords)
		raw := codes.data[flatUnder(codes.shape, codeStrides, coords)]
		ci := int(raw)
		if float64(ci) != raw || math.IsNaN(raw) || ci < 0 || ci >= len(candidates) {
			return nil, fmt.Errorf("Select: code %g with %d candidates: %w", raw, len(candidates), ErrOutOfRange)
		}
		c := candidates[ci]
		out.data[i] = c.data[flatUnder(c.shape, candStrides[ci], coords)]
	}
	return out, nil
}
