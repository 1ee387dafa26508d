// SPDX-License-Identifier: MIT

// Package worlds names, allocates and manipulates the array axes that
// represent parallel possible worlds.
//
// Data model:
//
//   - IndexSet — immutable mapping name → set of world indices; the
//     unit of "which worlds does this value belong to". Compared by
//     structural equality; operations build new IndexSets, never
//     mutate.
//
//   - Plate — an allocated dimension (name, axis, size). Axis is a
//     negative offset from the rightmost batch axis: reserved axes
//     grow leftward so they never collide with a model's own batch and
//     event axes on the right. Size is fixed once assigned.
//
//   - Allocator — a scoped registry assigning each distinct name an
//     axis at a monotonically decreasing cursor. Scope entry asserts a
//     fresh allocator; scope exit releases plates in reverse creation
//     order and restores the cursor, on every exit path. A shared
//     AxisLedger detects collisions across allocators and with
//     user-reserved model axes.
//
//   - Scatter / Gather / IndicesOf — the algebra. Scatter merges
//     branch values, each tagged with an IndexSet, into one tensor
//     spanning their union of worlds. Gather projects a tensor down to
//     a requested IndexSet, with size-1 axes acting as broadcast
//     no-ops. IndicesOf infers a value's IndexSet structurally from
//     its shape against the current plate table — always against an
//     explicit table, never a global.
//
// There is no wrapper type around values: membership is inferred from
// shape. At each allocated axis a value is either constant (size 1),
// fully materialized (plate size), or a strict sub-range produced by a
// prior Gather.
//
// All errors are detected eagerly with sentinel errors (see errors.go);
// see the Allocator docs for the exact contiguity rule an existing
// plate imposes on re-added index sets.
package worlds
