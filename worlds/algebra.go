// SPDX-License-Identifier: MIT

// Package worlds: the scatter/gather algebra.
//
// Scatter
//
//	Merge several partial values, each tagged with the IndexSet of
//	worlds it belongs to, into one tensor spanning their union:
//	 1. register every branch key with the allocator (fresh names get
//	    axes eagerly, known names are subset-checked);
//	 2. verify all branches agree on the trailing event shape;
//	 3. build the union shape — broadcast of the branch batch shapes,
//	    with every scattered axis widened to its full plate size — and
//	    write each branch into its index range. Positions no branch
//	    names are don't-care fill (zero): downstream gathers re-select
//	    the same branches and never read them.
//
// Gather
//
//	Project a tensor down to a requested IndexSet: select the index
//	sub-range along every named axis the value actually varies over;
//	size-1 axes are broadcast no-ops, unnamed axes stay untouched.
//
// Both take the allocator's state as an explicit argument — either a
// bare *Allocator or an effects stack routing to one.

package worlds

import (
	"fmt"

	"github.com/katalvlaran/worldline/tensor"
)

// PlateSource exposes the current name → plate mapping. Implemented by
// *Allocator and by the effects stack.
type PlateSource interface {
	Plates() map[string]Plate
}

// Registry is the full allocator capability the scatter side needs.
type Registry interface {
	PlateSource
	AddIndices(IndexSet) error
}

// Branch tags a partial value with the worlds it belongs to. Scatter
// takes an ordered slice (Go map keys cannot be IndexSets); order only
// matters when branches overlap, in which case the last write wins.
type Branch struct {
	Where IndexSet
	Value *tensor.Dense
}

// Scatter merges branches into one tensor spanning their union of
// worlds. eventDim declares how many trailing axes are event axes,
// never touched by world indexing; all branches must agree on them.
//
// Errors: ErrNoBranches, ErrBadEventDim, ErrNilValue,
// ErrEventShapeMismatch, plus every allocation error AddIndices can
// raise; tensor.ErrShapeMismatch when branch batch shapes do not
// broadcast.
//
// Complexity: O(result len · rank) per branch.
func Scatter(reg Registry, branches []Branch, eventDim int) (*tensor.Dense, error) {
	if len(branches) == 0 {
		return nil, fmt.Errorf("Scatter: %w", ErrNoBranches)
	}
	if eventDim < 0 {
		return nil, fmt.Errorf("Scatter: event dim %d: %w", eventDim, ErrBadEventDim)
	}
	for _, b := range branches {
		if b.Value == nil {
			return nil, fmt.Errorf("Scatter: branch %v: %w", b.Where, ErrNilValue)
		}
		if err := b.Where.Validate(); err != nil {
			return nil, fmt.Errorf("Scatter: %w", err)
		}
	}
	// Event shapes must agree exactly across branches.
	first := branches[0].Value
	for _, b := range branches[1:] {
		for k := 1; k <= eventDim; k++ {
			if b.Value.SizeFromRight(k) != first.SizeFromRight(k) {
				return nil, fmt.Errorf("Scatter: event axis -%d: %d vs %d: %w",
					k, b.Value.SizeFromRight(k), first.SizeFromRight(k), ErrEventShapeMismatch)
			}
		}
	}
	// Register the union of all keys in one shot, so a fresh name is
	// sized by every branch that mentions it, not just the first.
	keys := branches[0].Where
	for _, b := range branches[1:] {
		keys = Union(keys, b.Where)
	}
	if err := reg.AddIndices(keys); err != nil {
		return nil, fmt.Errorf("Scatter: %w", err)
	}
	plates := reg.Plates()
	// Union batch shape, with scattered axes neutralized to 1 first so
	// differing per-branch index counts cannot fake a broadcast clash.
	var unionShape []int
	for _, b := range branches {
		shape := b.Value.Shape()
		for _, name := range b.Where.Names() {
			depth := depthOf(plates[name], eventDim)
			if depth <= len(shape) {
				shape[len(shape)-depth] = 1
			}
		}
		var err error
		if unionShape, err = tensor.BroadcastShapes(unionShape, shape); err != nil {
			return nil, fmt.Errorf("Scatter: %w", err)
		}
	}
	// Widen every scattered axis to its full plate size.
	for _, b := range branches {
		for _, name := range b.Where.Names() {
			plate := plates[name]
			depth := depthOf(plate, eventDim)
			for len(unionShape) < depth {
				unionShape = append([]int{1}, unionShape...)
			}
			unionShape[len(unionShape)-depth] = plate.Size
		}
	}
	result, err := tensor.Zeros(unionShape...)
	if err != nil {
		return nil, fmt.Errorf("Scatter: %w", err)
	}
	for _, b := range branches {
		sel := make(map[int][]int, len(b.Where))
		for _, name := range b.Where.Names() {
			sel[depthOf(plates[name], eventDim)] = b.Where[name].Sorted()
		}
		if err := result.SetIndexed(b.Value, sel); err != nil {
			return nil, fmt.Errorf("Scatter: branch %v: %w", b.Where, err)
		}
	}
	return result, nil
}

// Gather extracts the sub-tensor of v for the requested IndexSet,
// selecting the named indices along every axis v varies over; a size-1
// axis is constant across its worlds and selection is a broadcast
// no-op. Axes not mentioned in where are left untouched.
//
// Errors: ErrNilValue, ErrBadEventDim, ErrUnknownPlate for a name with
// no live plate, ErrIndexRange when an index exceeds the plate (or the
// value's previously sub-selected width along that axis).
//
// Complexity: O(result len · rank) per named axis.
func Gather(src PlateSource, v *tensor.Dense, where IndexSet, eventDim int) (*tensor.Dense, error) {
	if v == nil {
		return nil, fmt.Errorf("Gather: %w", ErrNilValue)
	}
	if eventDim < 0 {
		return nil, fmt.Errorf("Gather: event dim %d: %w", eventDim, ErrBadEventDim)
	}
	if err := where.Validate(); err != nil {
		return nil, fmt.Errorf("Gather: %w", err)
	}
	plates := src.Plates()
	out := v
	for _, name := range where.Names() {
		plate, ok := plates[name]
		if !ok {
			return nil, fmt.Errorf("Gather: axis %q: %w", name, ErrUnknownPlate)
		}
		indices := where[name].Sorted()
		if indices[len(indices)-1] >= plate.Size {
			return nil, fmt.Errorf("Gather: axis %q: index %d of plate size %d: %w",
				name, indices[len(indices)-1], plate.Size, ErrIndexRange)
		}
		depth := depthOf(plate, eventDim)
		width := out.SizeFromRight(depth)
		if width == 1 {
			continue // constant along this axis: broadcast no-op
		}
		if indices[len(indices)-1] >= width {
			return nil, fmt.Errorf("Gather: axis %q: index %d of sub-selected width %d: %w",
				name, indices[len(indices)-1], width, ErrIndexRange)
		}
		sub, err := out.IndexSelectFromRight(depth, indices)
		if err != nil {
			return nil, fmt.Errorf("Gather: axis %q: %w", name, err)
		}
		out = sub
	}
	return out, nil
}

// IndicesOf infers the IndexSet a value belongs to, structurally, by
// comparing its shape at each allocated axis against the plate table:
// size 1 (or an implicit axis) means the value is constant there and
// the axis is omitted; any wider size contributes indices 0..size-1 —
// the full plate range, or the width of a prior sub-selection.
// A nil value yields an empty IndexSet.
//
// Complexity: O(plates).
func IndicesOf(src PlateSource, v *tensor.Dense, eventDim int) IndexSet {
	out := make(IndexSet)
	if v == nil || eventDim < 0 {
		return out
	}
	plates := src.Plates()
	for _, name := range sortedPlateNames(plates) {
		size := v.SizeFromRight(depthOf(plates[name], eventDim))
		if size <= 1 {
			continue
		}
		indices := make([]int, size)
		for i := range indices {
			indices[i] = i
		}
		out[name] = NewWorldSet(indices...)
	}
	return out
}

// depthOf converts a plate's batch-relative axis into a physical
// offset from the value's rightmost axis: event axes sit to the right
// of every batch axis, so the plate axis shifts left by eventDim.
func depthOf(p Plate, eventDim int) int {
	return -p.Axis + eventDim
}
