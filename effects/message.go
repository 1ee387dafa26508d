package effects

import (
	"github.com/katalvlaran/worldline/tensor"
	"github.com/katalvlaran/worldline/worlds"
)

// Kind discriminates the effect a Message carries.
type Kind int

const (
	// KindIntervene is raised at every intervention call site.
	KindIntervene Kind = iota + 1

	// KindSample is raised at every named sampling site.
	KindSample

	// KindIndexPlates queries the current plate registry.
	KindIndexPlates

	// KindAddIndices requests plate allocation for an IndexSet.
	KindAddIndices
)

// String names the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindIntervene:
		return "intervene"
	case KindSample:
		return "sample"
	case KindIndexPlates:
		return "index-plates"
	case KindAddIndices:
		return "add-indices"
	default:
		return "unknown"
	}
}

// Message is one effect traveling down the handler chain. Handlers
// inspect the fields relevant to the Kind, may mutate the result
// fields, and use Done/Stop to steer the fold:
//
//   - Done: a result has been produced; later handlers must not
//     recompute it (they may still observe, e.g. to attach a mask);
//   - Stop: propagation terminates immediately after this handler.
type Message struct {
	Kind     Kind
	Name     string
	EventDim int

	// Intervene: the two inputs of the effect.
	Observed *tensor.Dense
	Proposed *tensor.Dense

	// Sample: the site's distribution; Value doubles as the observed
	// value on the way down and the sampled/produced value afterwards.
	Dist Distribution

	// Sample: conjunctive mask and additive log-weight, attached
	// externally by mask-style handlers. A nil Mask means all worlds
	// pass; a nil LogWeight means zero.
	Mask      *tensor.Dense
	LogWeight *tensor.Dense

	// AddIndices payload.
	Indices worlds.IndexSet

	// IndexPlates reply.
	Plates map[string]worlds.Plate

	// Result and fold control.
	Value *tensor.Dense
	Done  bool
	Stop  bool
}

// Handler is one node of the interpretation stack. Handle inspects and
// possibly mutates msg; returning an error aborts the effect (and the
// enclosing scope, which still runs its full teardown).
type Handler interface {
	Handle(msg *Message) error
}

// Scoped handlers acquire resources when pushed and release them when
// popped. OnExit runs on every exit path and must be idempotent.
type Scoped interface {
	OnEnter() error
	OnExit()
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(msg *Message) error

// Handle implements Handler.
func (f HandlerFunc) Handle(msg *Message) error { return f(msg) }
