// SPDX-License-Identifier: MIT

// Package worlds: functional configuration for the Allocator.
// This file defines:
//   - Option (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical
//     values — programmer error, per package policy),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each knob impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters.

package worlds

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultFirstFreeAxis is the leftmost axis the allocator hands out
	// first. −5 is a conservative guess leaving room for the batch
	// dimensions of typical models to its right; lower it when your
	// model declares plates further left.
	DefaultFirstFreeAxis = -5
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicFirstFreeAxis = "worlds: WithFirstFreeAxis: axis must be negative"
	panicReservedAxis  = "worlds: WithReservedAxes: axes must be negative"
	panicNilLedger     = "worlds: WithLedger: ledger must be non-nil"
)

// Option mutates allocator construction state. Safe to apply
// repeatedly; last writer wins for scalar knobs, reserved axes
// accumulate.
type Option func(*options)

// options stores the effective configuration after applying setters.
// Intentionally unexported; NewAllocator accepts ...Option.
type options struct {
	firstFree int
	reserved  map[int]struct{}
	ledger    *AxisLedger
}

// WithFirstFreeAxis sets the axis the cursor starts from. Must be
// strictly negative: reserved world axes always grow leftward from the
// batch shape.
//
// Behavior highlights:
//   - Nested or sequential scopes of the same allocator restart from
//     this baseline; the cursor is restored on every scope exit.
//
// Errors:
//   - Panics with a stable message when axis >= 0 (programmer error).
//
// Complexity: O(1).
//
// AI-Hints:
//   - If allocation fails with ErrAxisCollision, this is the knob the
//     error message tells you to lower.
func WithFirstFreeAxis(axis int) Option {
	if axis >= 0 {
		panic(panicFirstFreeAxis)
	}
	return func(o *options) { o.firstFree = axis }
}

// WithReservedAxes declares axes the enclosing model already uses
// (e.g. its own batch plates), so that handing one of them out is an
// eager ErrAxisCollision instead of silent tensor corruption.
//
// Errors:
//   - Panics with a stable message on a non-negative axis.
//
// Complexity: O(len(axes)).
func WithReservedAxes(axes ...int) Option {
	for _, a := range axes {
		if a >= 0 {
			panic(panicReservedAxis)
		}
	}
	return func(o *options) {
		for _, a := range axes {
			o.reserved[a] = struct{}{}
		}
	}
}

// WithLedger shares an AxisLedger across allocators: every live plate
// acquires its axis in the ledger, so two allocators stacked in one
// program cannot silently occupy the same axis. The effects package
// binds its stack-wide ledger through this option automatically.
//
// Errors:
//   - Panics with a stable message on a nil ledger.
//
// Complexity: O(1).
func WithLedger(l *AxisLedger) Option {
	if l == nil {
		panic(panicNilLedger)
	}
	return func(o *options) { o.ledger = l }
}

// gatherOptions applies user setters on top of the documented defaults.
// Deterministic: setters run left to right, last writer wins.
func gatherOptions(user ...Option) options {
	o := options{
		firstFree: DefaultFirstFreeAxis,
		reserved:  make(map[int]struct{}),
	}
	for _, set := range user {
		set(&o)
	}
	return o
}
