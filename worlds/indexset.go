// SPDX-License-Identifier: MIT

package worlds

import (
	"fmt"
	"sort"
	"strings"
)

// WorldSet is an unordered set of world indices along one named axis.
// Indices are >= 0; a WorldSet inside a live IndexSet is never empty.
type WorldSet map[int]struct{}

// NewWorldSet builds a WorldSet from the given indices (duplicates
// collapse).
func NewWorldSet(indices ...int) WorldSet {
	w := make(WorldSet, len(indices))
	for _, i := range indices {
		w[i] = struct{}{}
	}
	return w
}

// Contains reports membership of index i.
func (w WorldSet) Contains(i int) bool {
	_, ok := w[i]
	return ok
}

// Sorted returns the indices in ascending order.
// Complexity: O(n log n).
func (w WorldSet) Sorted() []int {
	out := make([]int, 0, len(w))
	for i := range w {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Equal reports structural equality (same indices).
func (w WorldSet) Equal(o WorldSet) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if !o.Contains(i) {
			return false
		}
	}
	return true
}

// IndexSet maps a world-axis name to the set of world indices a value
// or query refers to. An IndexSet is only meaningful relative to a
// live allocator state: it names axes that must currently be
// allocated. IndexSets are constructed transiently and never mutated
// in place; With returns extended copies.
type IndexSet map[string]WorldSet

// NewIndexSet builds a single-name IndexSet.
//
// Example: NewIndexSet("x", 0, 1) refers to worlds 0 and 1 of axis "x".
func NewIndexSet(name string, indices ...int) IndexSet {
	return IndexSet{name: NewWorldSet(indices...)}
}

// With returns a copy of the receiver extended with (name, indices);
// indices for an already-present name are unioned in.
// Complexity: O(total indices).
func (s IndexSet) With(name string, indices ...int) IndexSet {
	out := s.Clone()
	w, ok := out[name]
	if !ok {
		w = make(WorldSet, len(indices))
		out[name] = w
	}
	for _, i := range indices {
		w[i] = struct{}{}
	}
	return out
}

// Clone returns a deep copy.
func (s IndexSet) Clone() IndexSet {
	out := make(IndexSet, len(s))
	for name, w := range s {
		cp := make(WorldSet, len(w))
		for i := range w {
			cp[i] = struct{}{}
		}
		out[name] = cp
	}
	return out
}

// Names returns the axis names in ascending order; the deterministic
// iteration order used by every operation in this package.
func (s IndexSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Equal reports structural equality: same names, same index sets.
func (s IndexSet) Equal(o IndexSet) bool {
	if len(s) != len(o) {
		return false
	}
	for name, w := range s {
		ow, ok := o[name]
		if !ok || !w.Equal(ow) {
			return false
		}
	}
	return true
}

// Union merges two IndexSets, unioning index sets of shared names.
// Both inputs are left untouched.
func Union(a, b IndexSet) IndexSet {
	out := a.Clone()
	for name, w := range b {
		out = out.With(name, w.Sorted()...)
	}
	return out
}

// Validate checks the structural invariants: every named axis selects
// at least one index and every index is non-negative. Plate-size
// bounds are checked later, against a live allocator.
// Errors: ErrEmptyIndexSet, ErrIndexRange.
func (s IndexSet) Validate() error {
	for _, name := range s.Names() {
		w := s[name]
		if len(w) == 0 {
			return fmt.Errorf("axis %q: %w", name, ErrEmptyIndexSet)
		}
		for i := range w {
			if i < 0 {
				return fmt.Errorf("axis %q: index %d: %w", name, i, ErrIndexRange)
			}
		}
	}
	return nil
}

// String renders the set deterministically, e.g. {x: [0 1], y: [1]}.
func (s IndexSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range s.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", name, s[name].Sorted())
	}
	b.WriteString("}")
	return b.String()
}
