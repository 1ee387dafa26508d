// Package scm is a minimal structural causal model runner: named
// variables, each either sampled from a distribution (exogenous) or
// computed by a mechanism over its parents (endogenous), executed in
// deterministic topological order.
//
// Every assignment is dispatched through an effects.Stack — exogenous
// variables as sampling effects (so DependentMask-style handlers
// attach per-world masks), intervened variables as intervene effects
// (so a counterfactual handler on the stack lifts the whole model into
// the indexed multi-world representation). The same model can run
// factually, under hard interventions, or under any counterfactual
// handler, without being rewritten.
//
// scm prepares values and masking factors; it performs no inference.
//
// Determinism: ties in the topological order break by ascending name;
// re-running a model under an identical stack and sources reproduces
// identical values.
//
// Errors:
//
//	ErrEmptyName         - variable name is the empty string.
//	ErrDuplicateVariable - a name was defined twice.
//	ErrUnknownVariable   - a parent, observation or intervention
//	                       references an undefined variable.
//	ErrNilMechanism      - an endogenous variable without a mechanism.
//	ErrNilDistribution   - an exogenous variable without a distribution.
//	ErrCycle             - the parent relation is not a DAG.
//	ErrNilValue          - a nil tensor where a value is required.
package scm
