package counterfactual

import (
	"fmt"
	"math"

	"github.com/katalvlaran/worldline/tensor"
	"github.com/katalvlaran/worldline/worlds"
)

// EqualWorldsPenalty is the log-domain sentinel standing in for
// negative infinity in explanation factors: an effectively-zero
// probability, with a magnitude large enough to dominate any realistic
// score sum while keeping arithmetic finite (true -Inf would poison
// downstream sums with non-finite values).
const EqualWorldsPenalty = -1e8

// Split generalizes intervention to multiple alternatives: the current
// value keeps world index 0, the i-th alternative takes index i+1, and
// all branches are scattered onto the axis called name. The general
// n-ary form of what the handlers do for a single intervened value.
//
// Errors: ErrUnnamedSplit, ErrNoAlternatives, ErrNilValue, plus every
// scatter/allocation error.
// Complexity: one Scatter over len(alternatives)+1 branches.
func Split(reg worlds.Registry, value *tensor.Dense, alternatives []*tensor.Dense, name string, eventDim int) (*tensor.Dense, error) {
	if name == "" {
		return nil, fmt.Errorf("Split: %w", ErrUnnamedSplit)
	}
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("Split(%q): %w", name, ErrNoAlternatives)
	}
	if value == nil {
		return nil, fmt.Errorf("Split(%q): %w", name, ErrNilValue)
	}
	branches := make([]worlds.Branch, 0, len(alternatives)+1)
	branches = append(branches, worlds.Branch{Where: worlds.NewIndexSet(name, 0), Value: value})
	for i, alt := range alternatives {
		if alt == nil {
			return nil, fmt.Errorf("Split(%q): alternative %d: %w", name, i, ErrNilValue)
		}
		branches = append(branches, worlds.Branch{Where: worlds.NewIndexSet(name, i+1), Value: alt})
	}
	out, err := worlds.Scatter(reg, branches, eventDim)
	if err != nil {
		return nil, fmt.Errorf("Split(%q): %w", name, err)
	}
	return out, nil
}

// Preempt conditionally overrides a value per element: caseSignal is
// an integer-valued tensor selecting, for each batch element, which of
// [value, alternatives...] is the active content from this point
// forward — a downstream "mechanism switch" orthogonal to any earlier
// split. Where caseSignal is 0 the factual value stands; where it is
// i, the i-th alternative preempts it. Other world indices of earlier
// splits are untouched, because the selection broadcasts across them.
//
// When the named axis is already allocated, each alternative is first
// gathered at its own branch index, so indexed alternatives contribute
// their matching world slice.
//
// The case signal indexes batch elements only: it is aligned left of
// the trailing eventDim axes and broadcast across them.
//
// Errors: ErrUnnamedSplit, ErrNoAlternatives, ErrNilValue,
// tensor.ErrOutOfRange for a case entry outside [0, n alternatives].
// Complexity: O(result len · rank).
func Preempt(reg worlds.Registry, value *tensor.Dense, alternatives []*tensor.Dense, caseSignal *tensor.Dense, name string, eventDim int) (*tensor.Dense, error) {
	if name == "" {
		return nil, fmt.Errorf("Preempt: %w", ErrUnnamedSplit)
	}
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("Preempt(%q): %w", name, ErrNoAlternatives)
	}
	if value == nil || caseSignal == nil {
		return nil, fmt.Errorf("Preempt(%q): %w", name, ErrNilValue)
	}
	_, allocated := reg.Plates()[name]
	candidates := make([]*tensor.Dense, 0, len(alternatives)+1)
	candidates = append(candidates, value)
	for i, alt := range alternatives {
		if alt == nil {
			return nil, fmt.Errorf("Preempt(%q): alternative %d: %w", name, i, ErrNilValue)
		}
		c := alt
		if allocated {
			var err error
			c, err = worlds.Gather(reg, alt, worlds.NewIndexSet(name, i+1), eventDim)
			if err != nil {
				return nil, fmt.Errorf("Preempt(%q): alternative %d: %w", name, i, err)
			}
		}
		candidates = append(candidates, c)
	}
	codes := caseSignal
	if eventDim > 0 {
		shape := caseSignal.Shape()
		for k := 0; k < eventDim; k++ {
			shape = append(shape, 1)
		}
		var err error
		codes, err = caseSignal.Reshape(shape...)
		if err != nil {
			return nil, fmt.Errorf("Preempt(%q): %w", name, err)
		}
	}
	out, err := tensor.Select(codes, candidates)
	if err != nil {
		return nil, fmt.Errorf("Preempt(%q): %w", name, err)
	}
	return out, nil
}

// UndoSplit returns a function that collapses the named antecedent
// axes of an indexed value back to the factual branch.
//
// Algorithm outline:
//  1. Keep only antecedents the value actually varies over
//     (IndicesOf); anything else is a no-op by construction.
//  2. Gather world index 0 along each kept axis — the original,
//     factual content.
//  3. Scatter that factual slice across the full index range of every
//     kept axis, so each world derived from those splits reverts to
//     the factual branch while all other axes' indexing stays intact.
//
// Used to "forget" a prior split once its causal effect has been
// accounted for, preventing it from influencing axes allocated later.
//
// Errors (from the returned function): ErrNilValue; gather/scatter
// errors pass through.
func UndoSplit(reg worlds.Registry, antecedents []string, eventDim int) func(*tensor.Dense) (*tensor.Dense, error) {
	return func(v *tensor.Dense) (*tensor.Dense, error) {
		if v == nil {
			return nil, fmt.Errorf("UndoSplit: %w", ErrNilValue)
		}
		varying := worlds.IndicesOf(reg, v, eventDim)
		plates := reg.Plates()
		factualKey := make(worlds.IndexSet)
		fullKey := make(worlds.IndexSet)
		for _, name := range antecedents {
			if _, ok := varying[name]; !ok {
				continue
			}
			plate := plates[name]
			full := make([]int, plate.Size)
			for i := range full {
				full[i] = i
			}
			factualKey[name] = worlds.NewWorldSet(0)
			fullKey[name] = worlds.NewWorldSet(full...)
		}
		if len(factualKey) == 0 {
			return v, nil // nothing to undo
		}
		factual, err := worlds.Gather(reg, v, factualKey, eventDim)
		if err != nil {
			return nil, fmt.Errorf("UndoSplit: %w", err)
		}
		out, err := worlds.Scatter(reg, []worlds.Branch{{Where: fullKey, Value: factual}}, eventDim)
		if err != nil {
			return nil, fmt.Errorf("UndoSplit: %w", err)
		}
		return out, nil
	}
}

// ConsequentDiffers returns a function mapping a downstream value to a
// per-element log-weight implementing the "but-for" requirement of
// causal explanation: explanations only count when the antecedent
// intervention actually changed the consequent.
//
// Algorithm outline:
//  1. Gather the consequent's factual slice (index 0 along every
//     antecedent axis it varies over).
//  2. Compare elementwise against the full indexed value; the factual
//     slice broadcasts back across the antecedent axes.
//  3. Reduce the trailing eventDim axes with ALL — an element counts
//     as different only when every event component differs.
//  4. Emit 0 (neutral) where the branches differ and
//     EqualWorldsPenalty where the counterfactual branch reproduced
//     the factual outcome.
//
// Errors (from the returned function): ErrNilValue; gather errors pass
// through.
func ConsequentDiffers(reg worlds.Registry, antecedents []string, eventDim int) func(*tensor.Dense) (*tensor.Dense, error) {
	return func(consequent *tensor.Dense) (*tensor.Dense, error) {
		if consequent == nil {
			return nil, fmt.Errorf("ConsequentDiffers: %w", ErrNilValue)
		}
		varying := worlds.IndicesOf(reg, consequent, eventDim)
		factualKey := make(worlds.IndexSet)
		for _, name := range antecedents {
			if _, ok := varying[name]; ok {
				factualKey[name] = worlds.NewWorldSet(0)
			}
		}
		factual := consequent
		if len(factualKey) > 0 {
			var err error
			factual, err = worlds.Gather(reg, consequent, factualKey, eventDim)
			if err != nil {
				return nil, fmt.Errorf("ConsequentDiffers: %w", err)
			}
		}
		neq, err := tensor.Zip(consequent, factual, func(x, y float64) float64 {
			if x != y {
				return 1
			}
			return 0
		})
		if err != nil {
			return nil, fmt.Errorf("ConsequentDiffers: %w", err)
		}
		differs, err := neq.FoldTrailing(eventDim, 1, math.Min)
		if err != nil {
			return nil, fmt.Errorf("ConsequentDiffers: %w", err)
		}
		return differs.Apply(func(a float64) float64 {
			if a != 0 {
				return 0
			}
			return EqualWorldsPenalty
		}), nil
	}
}
