package counterfactual

import "fmt"

// Support describes the domain a value lives in, so that proposal
// machinery can generate alternatives respecting it. The set of
// descriptors is closed (sealed interface): UniformProposal matches on
// the concrete types below.
type Support interface {
	fmt.Stringer
	support() // sealed
}

// Real is the unconstrained domain: any finite float.
type Real struct{}

func (Real) support()       {}
func (Real) String() string { return "real" }

// Boolean is the two-point domain {0, 1}.
type Boolean struct{}

func (Boolean) support()       {}
func (Boolean) String() string { return "boolean" }

// Positive is the open positive half-line (0, +inf).
type Positive struct{}

func (Positive) support()       {}
func (Positive) String() string { return "positive" }

// Interval is the bounded continuous domain [Lower, Upper].
type Interval struct {
	Lower, Upper float64
}

func (Interval) support()         {}
func (i Interval) String() string { return fmt.Sprintf("interval[%g, %g]", i.Lower, i.Upper) }

// IntegerInterval is the bounded integer domain {Lower, ..., Upper}.
type IntegerInterval struct {
	Lower, Upper int
}

func (IntegerInterval) support() {}
func (i IntegerInterval) String() string {
	return fmt.Sprintf("integers[%d, %d]", i.Lower, i.Upper)
}

// Independent reinterprets the trailing Axes axes of a value as
// independent batch axes over the Base domain: proposals drawn over it
// are elementwise independent along those axes, never correlated.
type Independent struct {
	Base Support
	Axes int
}

func (Independent) support() {}
func (i Independent) String() string {
	return fmt.Sprintf("independent(%v, %d)", i.Base, i.Axes)
}
