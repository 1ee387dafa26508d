// SPDX-License-Identifier: MIT

// Package worlds: the scoped dimension allocator.
//
// The allocator owns every plate it creates: plates are registered
// eagerly at allocation time and released by the allocator's own Exit
// in reverse creation order. Nothing is ever spliced into a handler
// stack retroactively — the stack above stays exactly as pushed, so
// handlers pushed after the allocator still exit in reverse push order
// when its scope closes.

package worlds

import (
	"fmt"
	"sort"
)

// Plate is an allocated dimension: a named world axis of fixed size.
// Axis is a negative offset from the rightmost batch axis (never
// positive). A Plate is owned by its allocator for the lifetime of the
// enclosing scope.
type Plate struct {
	Name string
	Axis int
	Size int
}

// AxisLedger records which axes are currently occupied, across every
// party that shares it. It is the collision authority: an allocator
// acquiring an axis already present fails eagerly with
// ErrAxisCollision. Not safe for concurrent use; the whole package
// assumes a single logical call stack.
type AxisLedger struct {
	inUse map[int]string // axis -> owner name, diagnostics only
}

// NewAxisLedger creates an empty ledger.
func NewAxisLedger() *AxisLedger {
	return &AxisLedger{inUse: make(map[int]string)}
}

// Acquire claims axis for owner, failing with ErrAxisCollision when the
// axis is already held.
func (l *AxisLedger) Acquire(axis int, owner string) error {
	if prev, ok := l.inUse[axis]; ok {
		return fmt.Errorf("axis %d already held by %q: %w", axis, prev, ErrAxisCollision)
	}
	l.inUse[axis] = owner
	return nil
}

// Release frees axis; releasing an unheld axis is a no-op.
func (l *AxisLedger) Release(axis int) {
	delete(l.inUse, axis)
}

// Owner reports the current holder of axis, if any.
func (l *AxisLedger) Owner(axis int) (string, bool) {
	name, ok := l.inUse[axis]
	return name, ok
}

// LedgerBinder is implemented by allocators (and handlers embedding
// one) that can join a shared collision ledger. The effects stack uses
// it to wire its stack-wide ledger into every allocator it hosts.
type LedgerBinder interface {
	BindLedger(*AxisLedger)
}

// Allocator is a scoped registry assigning each distinct dimension
// name an array axis and a size. The cursor starts at the configured
// first free axis and only decreases while plates are created inside
// one scope; scope exit restores it, so nested and sequential scopes
// start from the same baseline. No two live plates share an axis.
//
// Lifecycle: NewAllocator → Enter → AddIndices* → Exit (or Within).
// The allocator is not reentrant within its own active scope.
type Allocator struct {
	firstFree int
	reserved  map[int]struct{}
	ledger    *AxisLedger

	cursor int
	active bool
	plates map[string]Plate
	order  []string // creation order, for reverse teardown
}

// Compile-time interface conformance.
var (
	_ Registry     = (*Allocator)(nil)
	_ LedgerBinder = (*Allocator)(nil)
)

// NewAllocator builds an idle allocator.
//
// Implementation:
//   - Stage 1: resolve options against documented defaults.
//   - Stage 2: initialize cursor at the first free axis, empty registry.
//
// Behavior highlights:
//   - Construction is infallible; option constructors validate their
//     own arguments (panic on programmer error).
//   - A private per-allocator ledger is used unless WithLedger shares
//     an external one.
//
// Complexity: O(len(opts)).
//
// AI-Hints:
//   - Share one AxisLedger (or one effects.Stack) between nested
//     counterfactual handlers so axis collisions surface eagerly.
func NewAllocator(opts ...Option) *Allocator {
	o := gatherOptions(opts...)
	ledger := o.ledger
	if ledger == nil {
		ledger = NewAxisLedger()
	}
	return &Allocator{
		firstFree: o.firstFree,
		reserved:  o.reserved,
		ledger:    ledger,
		cursor:    o.firstFree,
		plates:    make(map[string]Plate),
	}
}

// BindLedger joins a shared collision ledger. Binding is only honored
// while the allocator is idle; a live scope keeps the ledger it
// started with.
func (a *Allocator) BindLedger(l *AxisLedger) {
	if l == nil || a.active {
		return
	}
	a.ledger = l
}

// Enter opens the allocator's scope.
//
// Implementation:
//   - Stage 1: assert freshness — no plates, cursor at its initial
//     value, not already active.
//   - Stage 2: mark active.
//
// Errors:
//   - ErrReentrantScope when the allocator is already inside a scope
//     or was not fully torn down.
//
// Complexity: O(1).
func (a *Allocator) Enter() error {
	if a.active || len(a.plates) != 0 || a.cursor != a.firstFree {
		return fmt.Errorf("Allocator.Enter: %w", ErrReentrantScope)
	}
	a.active = true
	return nil
}

// Exit closes the scope: releases all plates in reverse creation order
// (later-allocated axes may be referenced by handlers that must tear
// down before earlier ones), then restores the cursor. Exit is safe to
// run on every exit path, including panics, and is idempotent on an
// idle allocator.
//
// Complexity: O(plates).
func (a *Allocator) Exit() {
	for i := len(a.order) - 1; i >= 0; i-- {
		name := a.order[i]
		a.ledger.Release(a.plates[name].Axis)
		delete(a.plates, name)
	}
	a.order = a.order[:0]
	a.cursor = a.firstFree
	a.active = false
}

// Within runs fn inside a fresh scope, guaranteeing teardown on every
// path (fn error, panic, or clean return).
//
// Errors: ErrReentrantScope from Enter; otherwise fn's error.
func (a *Allocator) Within(fn func() error) error {
	if err := a.Enter(); err != nil {
		return err
	}
	defer a.Exit()
	return fn()
}

// Active reports whether the allocator is inside a scope.
func (a *Allocator) Active() bool { return a.active }

// NextAxis returns the axis the next fresh plate would occupy.
func (a *Allocator) NextAxis() int { return a.cursor }

// Allocated reports whether name currently owns a plate.
func (a *Allocator) Allocated(name string) bool {
	_, ok := a.plates[name]
	return ok
}

// Plates returns a copy of the current name → plate mapping.
// Read-only: never allocates a plate.
// Complexity: O(plates).
func (a *Allocator) Plates() map[string]Plate {
	out := make(map[string]Plate, len(a.plates))
	for name, p := range a.plates {
		out[name] = p
	}
	return out
}

// AddIndices registers every (name, indices) pair of set.
//
// Implementation:
//   - Stage 1: require an active scope and a structurally valid set.
//   - Stage 2: per name in deterministic (ascending) order:
//     new name  → size = max(max(indices)+1, len(indices)); claim the
//     cursor axis (reserved set + ledger arbitrate collisions),
//     register the plate, decrement the cursor;
//     known name → assert indices form a contiguous-from-zero-
//     compatible subset: 0 ≤ min ≤ len−1 ≤ max < size. The plate's
//     size never grows silently.
//
// Errors:
//   - ErrScopeInactive outside a scope;
//   - ErrEmptyIndexSet / ErrIndexRange from structural validation;
//   - ErrAxisCollision when the cursor axis is reserved or held, with
//     guidance to lower WithFirstFreeAxis below the current baseline;
//   - ErrIndexRange when a known plate's subset rule is violated.
//
// Determinism: names processed in ascending order; axis assignment
// depends only on the sequence of AddIndices calls.
//
// Complexity: O(names · indices).
//
// AI-Hints:
//   - Scatter calls this for you; call it directly only when reserving
//     plates ahead of a scatter (e.g. to pin axis order).
func (a *Allocator) AddIndices(set IndexSet) error {
	if !a.active {
		return fmt.Errorf("Allocator.AddIndices: %w", ErrScopeInactive)
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("Allocator.AddIndices: %w", err)
	}
	for _, name := range set.Names() {
		indices := set[name].Sorted()
		minIdx, maxIdx := indices[0], indices[len(indices)-1]
		if plate, ok := a.plates[name]; ok {
			if !(0 <= minIdx && minIdx <= len(indices)-1 && maxIdx < plate.Size) {
				return fmt.Errorf("Allocator.AddIndices: cannot add %s=%v to plate of size %d: %w",
					name, indices, plate.Size, ErrIndexRange)
			}
			continue
		}
		size := maxIdx + 1
		if len(indices) > size {
			size = len(indices)
		}
		axis := a.cursor
		if _, reserved := a.reserved[axis]; reserved {
			return a.collisionError(name, axis)
		}
		if err := a.ledger.Acquire(axis, name); err != nil {
			return a.collisionError(name, axis)
		}
		a.plates[name] = Plate{Name: name, Axis: axis, Size: size}
		a.order = append(a.order, name)
		a.cursor--
	}
	return nil
}

// collisionError builds the actionable ErrAxisCollision wrapper.
func (a *Allocator) collisionError(name string, axis int) error {
	return fmt.Errorf(
		"Allocator.AddIndices: unable to allocate index plate %q at axis %d; "+
			"try setting a first free axis less than %d (more negative than the "+
			"leftmost plate dimension in your model): %w",
		name, axis, a.firstFree, ErrAxisCollision)
}

// PlateNames returns the currently allocated names in creation order.
func (a *Allocator) PlateNames() []string {
	return append([]string(nil), a.order...)
}

// sortedPlateNames returns plate names of m in ascending order; shared
// helper for deterministic iteration over plate maps.
func sortedPlateNames(m map[string]Plate) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
