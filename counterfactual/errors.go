// Package counterfactual: sentinel error set. Messages are prefixed
// with "counterfactual: ..."; match via errors.Is. Errors from the
// underlying algebra (worlds) and tensors pass through wrapped and
// remain matchable.

package counterfactual

import "errors"

var (
	// ErrUnnamedSplit indicates a split/preempt without an axis name.
	ErrUnnamedSplit = errors.New("counterfactual: split requires an axis name")

	// ErrNoAlternatives indicates a split/preempt with no alternative
	// values; an intervention needs at least one.
	ErrNoAlternatives = errors.New("counterfactual: at least one alternative required")

	// ErrNilValue indicates a nil tensor where a value is required.
	ErrNilValue = errors.New("counterfactual: nil value")

	// ErrBadInterval indicates interval bounds that do not form a
	// valid non-degenerate range (or are not finite).
	ErrBadInterval = errors.New("counterfactual: invalid interval bounds")

	// ErrUnknownSupport indicates a value-domain descriptor this
	// package cannot build a proposal for.
	ErrUnknownSupport = errors.New("counterfactual: unsupported value domain")
)
