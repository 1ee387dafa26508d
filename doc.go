// Package worldline is an in-memory substrate for counterfactual
// ("what if?") computation over numeric arrays: parallel possible
// worlds live side by side as extra broadcast axes of one tensor, and
// composable effect handlers decide how observed and intervened values
// combine.
//
// 🚀 What is worldline?
//
//	A library that re-interprets one model to answer counterfactual
//	queries without duplicating it:
//	  • tensor/         — dense N-d arrays with right-aligned broadcasting
//	  • worlds/         — named world axes: IndexSet, scoped Allocator,
//	                      scatter/gather algebra
//	  • effects/        — explicit, exception-safe handler stack with
//	                      intervene/sample effects and mask composition
//	  • counterfactual/ — Factual, MultiWorld and TwinWorld handlers,
//	                      split/preempt/undo-split, explanation factors,
//	                      proposal distributions
//	  • scm/            — a minimal structural causal model that drives
//	                      whole programs through the effect stack
//
// ✨ Why choose worldline?
//
//   - Exact bookkeeping — world axes are allocated, scoped and released
//     deterministically; indexing bugs surface eagerly as sentinel
//     errors, never as silently corrupted tensors
//   - Composable — independently written handlers stack correctly and
//     exit in reverse push order on every path, panics included
//   - Pure Go — no cgo; gonum powers the proposal distributions
//
// Quick sketch: one intervention on x splits the computation into two
// worlds along a fresh axis,
//
//	world 0 (factual):        x = observed
//	world 1 (counterfactual): x = intervened
//
// and every downstream value broadcasts across that axis until the
// split is gathered, preempted or undone.
//
// worldline prepares the multi-world tensors and masking factors that
// inference algorithms operate over; it performs no inference itself.
// Dive into the per-package docs for contracts, complexity notes and
// runnable examples.
package worldline
