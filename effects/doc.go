// Package effects implements the explicit, exception-safe effect
// handler stack the counterfactual machinery runs on.
//
// Execution is single-threaded and synchronous: the stack is plain
// call-stack discipline, not a scheduler. Handlers are pushed with
// Use, which guarantees release in strictly reverse push order on
// every exit path — a panic unwinding through a scope still runs the
// full teardown. A handler dispatch is a fold over the active chain,
// innermost-pushed first; a handler that fully answers an effect sets
// Stop on the message and terminates propagation.
//
// Effects crossing the boundary (the programmatic interface of the
// module — there is no network, file or CLI surface):
//
//   - Intervene(stack, observed, proposed, ...) — the primitive the
//     counterfactual handlers intercept; unhandled, the proposed
//     (intervened) value wins.
//   - Sample(stack, name, dist, ...) — a named sampling site; returns
//     the value together with the conjunctive mask and log-weight
//     fields handlers attached.
//   - Stack.Plates / Stack.AddIndices — the index-plate queries,
//     routed to the innermost allocator-bearing handler; the stack
//     itself satisfies worlds.Registry, so the scatter/gather algebra
//     runs unchanged over either a bare allocator or a full stack.
//
// DependentMask applies a computed mask to every sampling effect,
// combining conjunctively with whatever an outer handler already
// attached — masks compose, they never overwrite.
//
// The stack owns a worlds.AxisLedger and binds it into every
// ledger-aware handler it hosts, so allocators stacked in one program
// collide eagerly instead of silently sharing an axis.
package effects
