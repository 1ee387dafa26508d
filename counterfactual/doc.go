// Package counterfactual turns "what if X had been v?" questions into
// indexed multi-world tensors.
//
// 🚀 What lives here?
//
//	Handlers intercepting the intervene effect:
//	  • Factual    — discards the intervened value; single-world
//	    baseline, a no-op default
//	  • MultiWorld — every distinct intervention gets its own fresh
//	    axis, so k interventions span a 2^k-world cross product; use it
//	    when a query must distinguish every combination of factual and
//	    counterfactual branches
//	  • TwinWorld  — every intervention shares one axis, 2 worlds
//	    total regardless of k; cheaper when only "some vs. no
//	    intervention" matters
//
//	Operations over indexed values, independent of which handler
//	produced them:
//	  • Split             — n-ary intervention: factual at index 0,
//	    alternatives at 1..n
//	  • Preempt           — a per-element case signal overrides which
//	    branch counts as the active one (a downstream mechanism switch)
//	  • UndoSplit         — collapse prior splits back to the factual
//	    branch, forgetting their influence
//	  • ConsequentDiffers — the "but-for" factor of causal explanation:
//	    a sentinel-negative log-weight where the counterfactual branch
//	    changed nothing, neutral where it did
//	  • UniformProposal / RandomIntervention — candidate alternative
//	    values respecting a value's domain (gonum distributions)
//
// ⚙️ Usage:
//
//	stack := effects.NewStack()
//	mwc := counterfactual.NewMultiWorld()
//	err := stack.Use(mwc, func() error {
//		v, err := effects.Intervene(stack, obs, act,
//			effects.WithName("x"))
//		// v now spans worlds {x: 0, 1}; gather, preempt or undo at will
//		return err
//	})
//
// Handlers compose by stacking: the innermost allocator-bearing
// handler answers the index-plates query and terminates it, so nested
// counterfactual scopes keep separate plate registries while sharing
// one collision ledger through the stack.
package counterfactual
