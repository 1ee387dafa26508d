package counterfactual

import (
	"fmt"

	"github.com/katalvlaran/worldline/effects"
	"github.com/katalvlaran/worldline/tensor"
	"github.com/katalvlaran/worldline/worlds"
)

// InterventionName is the axis name assigned to unnamed intervention
// sites; TwinWorld uses it for every site regardless of naming.
const InterventionName = "__intervention__"

// Factual discards the intervened value and returns the observed value
// unchanged: single-world semantics, the no-op baseline. It also
// answers the index-plates query with an empty registry so that
// algebra run under it sees no world axes.
type Factual struct{}

var _ effects.Handler = Factual{}

// Handle implements effects.Handler.
func (Factual) Handle(msg *effects.Message) error {
	switch msg.Kind {
	case effects.KindIndexPlates:
		msg.Plates = map[string]worlds.Plate{}
		msg.Done, msg.Stop = true, true
	case effects.KindIntervene:
		if msg.Done {
			return nil
		}
		msg.Value = msg.Observed
		msg.Done, msg.Stop = true, true
	}
	return nil
}

// MultiWorld gives every distinct intervention its own fresh world
// axis: the observed value lands at index 0, the intervened value at
// index 1. Composing k interventions therefore spans a 2^k-world cross
// product — intentional, for queries that must distinguish every
// combination of factual and counterfactual branches.
//
// Unnamed sites are auto-named InterventionName; a site whose name
// collides with an already-allocated axis is disambiguated by
// suffixing the current cursor value.
//
// MultiWorld embeds the dimension allocator: it is a worlds.Registry,
// an effects.Scoped handler (allocator scope opens on push, closes on
// pop) and ledger-aware. While on a stack it answers the index-plates
// and add-indices effects with its own registry and terminates them.
type MultiWorld struct {
	*worlds.Allocator
}

var (
	_ effects.Handler     = (*MultiWorld)(nil)
	_ effects.Scoped      = (*MultiWorld)(nil)
	_ worlds.Registry     = (*MultiWorld)(nil)
	_ worlds.LedgerBinder = (*MultiWorld)(nil)
)

// NewMultiWorld builds the handler; options configure its allocator
// (first free axis, reserved axes, shared ledger).
func NewMultiWorld(opts ...worlds.Option) *MultiWorld {
	return &MultiWorld{Allocator: worlds.NewAllocator(opts...)}
}

// OnEnter implements effects.Scoped.
func (m *MultiWorld) OnEnter() error { return m.Enter() }

// OnExit implements effects.Scoped.
func (m *MultiWorld) OnExit() { m.Exit() }

// Handle implements effects.Handler.
func (m *MultiWorld) Handle(msg *effects.Message) error {
	switch msg.Kind {
	case effects.KindIndexPlates:
		msg.Plates = m.Plates()
		msg.Done, msg.Stop = true, true
	case effects.KindAddIndices:
		if err := m.AddIndices(msg.Indices); err != nil {
			return err
		}
		msg.Done, msg.Stop = true, true
	case effects.KindIntervene:
		if msg.Done {
			return nil
		}
		name := msg.Name
		if name == "" {
			name = InterventionName
		}
		if m.Allocated(name) {
			name = fmt.Sprintf("%s_%d", name, m.NextAxis())
		}
		v, err := scatterPair(m, name, msg.Observed, msg.Proposed, msg.EventDim)
		if err != nil {
			return err
		}
		msg.Name = name // resolved site name, observable by outer handlers
		msg.Value = v
		msg.Done, msg.Stop = true, true
	}
	return nil
}

// TwinWorld is the fixed-cost sibling of MultiWorld: the axis name is
// InterventionName for every intervention, regardless of the site's
// own name, so all interventions share one pair of worlds — 2 total
// no matter how many sites fire. Intended for queries where only
// "some vs. no intervention" matters, at a fraction of the memory and
// compute of the cross-product representation.
type TwinWorld struct {
	*worlds.Allocator
}

var (
	_ effects.Handler     = (*TwinWorld)(nil)
	_ effects.Scoped      = (*TwinWorld)(nil)
	_ worlds.Registry     = (*TwinWorld)(nil)
	_ worlds.LedgerBinder = (*TwinWorld)(nil)
)

// NewTwinWorld builds the handler; options configure its allocator.
func NewTwinWorld(opts ...worlds.Option) *TwinWorld {
	return &TwinWorld{Allocator: worlds.NewAllocator(opts...)}
}

// OnEnter implements effects.Scoped.
func (t *TwinWorld) OnEnter() error { return t.Enter() }

// OnExit implements effects.Scoped.
func (t *TwinWorld) OnExit() { t.Exit() }

// Handle implements effects.Handler.
func (t *TwinWorld) Handle(msg *effects.Message) error {
	switch msg.Kind {
	case effects.KindIndexPlates:
		msg.Plates = t.Plates()
		msg.Done, msg.Stop = true, true
	case effects.KindAddIndices:
		if err := t.AddIndices(msg.Indices); err != nil {
			return err
		}
		msg.Done, msg.Stop = true, true
	case effects.KindIntervene:
		if msg.Done {
			return nil
		}
		v, err := scatterPair(t, InterventionName, msg.Observed, msg.Proposed, msg.EventDim)
		if err != nil {
			return err
		}
		msg.Name = InterventionName
		msg.Value = v
		msg.Done, msg.Stop = true, true
	}
	return nil
}

// scatterPair builds the two-branch indexed value of one intervention:
// observed at world 0, intervened at world 1 of the named axis.
func scatterPair(reg worlds.Registry, name string, observed, proposed *tensor.Dense, eventDim int) (*tensor.Dense, error) {
	return worlds.Scatter(reg, []worlds.Branch{
		{Where: worlds.NewIndexSet(name, 0), Value: observed},
		{Where: worlds.NewIndexSet(name, 1), Value: proposed},
	}, eventDim)
}
