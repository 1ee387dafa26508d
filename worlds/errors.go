// SPDX-License-Identifier: MIT
// Package worlds: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the
// worlds package. All operations MUST return these sentinels and tests
// MUST check them via errors.Is. No operation panics on user-triggered
// error conditions. Panics are reserved for programmer errors in option
// constructors.

package worlds

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "worlds: ..." for consistency and to
// allow easy grepping across logs. DO NOT %w wrap these sentinels when
// returning directly; if context is essential, wrap with
// fmt.Errorf("ctx: %w", ErrX) at the detection site — callers still use
// errors.Is to match.
//
// All of these are local-construction errors discovered eagerly at the
// point of misuse (allocation time or scatter time), never deferred to
// later numeric failure: indexing bugs must surface at the smallest
// possible stack frame rather than corrupt downstream tensors silently.

var (
	// ErrAxisCollision is returned when a freshly allocated plate axis
	// is already used elsewhere (a reserved model batch axis, or a
	// plate owned by another live allocator sharing the same ledger).
	// The wrapped message carries the actionable fix: lower the first
	// free axis. Never silently retried.
	ErrAxisCollision = errors.New("worlds: plate axis collision")

	// ErrIndexRange indicates an index set inconsistent with an
	// already-allocated plate: an index is out of range or the set is
	// not a valid contiguous-from-zero-compatible subset. A plate's
	// size never grows silently. Fatal programming error in the
	// calling model; not retried.
	ErrIndexRange = errors.New("worlds: index set out of range for plate")

	// ErrReentrantScope signals entering an allocator scope that is
	// already active (or not yet fully torn down). The allocator
	// assumes a single logical call stack and is not reentrant within
	// itself.
	ErrReentrantScope = errors.New("worlds: allocator scope already active")

	// ErrScopeInactive signals an allocation attempt outside any
	// active scope; plates are owned by a scope and cannot outlive one.
	ErrScopeInactive = errors.New("worlds: allocator scope not active")

	// ErrEmptyIndexSet indicates an IndexSet naming an axis with no
	// indices; every named axis must select at least one world.
	ErrEmptyIndexSet = errors.New("worlds: empty index set")

	// ErrEventShapeMismatch indicates that branches passed to Scatter
	// disagree on their trailing event shape.
	ErrEventShapeMismatch = errors.New("worlds: branch event shapes differ")

	// ErrUnknownPlate indicates an IndexSet naming an axis that is not
	// currently allocated; an IndexSet is only meaningful relative to
	// a live allocator state.
	ErrUnknownPlate = errors.New("worlds: unknown index plate")

	// ErrNoBranches indicates a Scatter call with no branches.
	ErrNoBranches = errors.New("worlds: scatter requires at least one branch")

	// ErrNilValue indicates a nil tensor where a value is required.
	ErrNilValue = errors.New("worlds: nil value")

	// ErrBadEventDim indicates a negative event-dimension count.
	ErrBadEventDim = errors.New("worlds: event dim must be >= 0")
)
