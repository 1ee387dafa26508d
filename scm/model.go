package scm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/worldline/effects"
	"github.com/katalvlaran/worldline/tensor"
)

// Sentinel errors for model construction and execution.
var (
	// ErrEmptyName indicates a variable with an empty name.
	ErrEmptyName = errors.New("scm: variable name is empty")

	// ErrDuplicateVariable indicates a name defined twice.
	ErrDuplicateVariable = errors.New("scm: variable already defined")

	// ErrUnknownVariable indicates a reference to an undefined variable.
	ErrUnknownVariable = errors.New("scm: unknown variable")

	// ErrNilMechanism indicates an endogenous variable without a mechanism.
	ErrNilMechanism = errors.New("scm: nil mechanism")

	// ErrNilDistribution indicates an exogenous variable without a distribution.
	ErrNilDistribution = errors.New("scm: nil distribution")

	// ErrCycle indicates that the parent relation is not a DAG.
	ErrCycle = errors.New("scm: dependency cycle")

	// ErrNilValue indicates a nil tensor where a value is required.
	ErrNilValue = errors.New("scm: nil value")
)

// Mechanism computes an endogenous variable from its parents' values,
// keyed by parent name. Mechanisms must be pure: same parents, same
// result.
type Mechanism func(parents map[string]*tensor.Dense) (*tensor.Dense, error)

// variable is one node of the model; exactly one of dist/mech is set.
type variable struct {
	name    string
	parents []string
	dist    effects.Distribution
	mech    Mechanism
}

// Model is an immutable-once-run structural causal model. Construct
// with NewModel, add variables with Sample/Define, attach data with
// Observe/Intervene, execute with Run. A Model holds no execution
// state: Run may be called repeatedly, under different stacks.
type Model struct {
	vars          map[string]*variable
	observations  map[string]*tensor.Dense
	interventions map[string]*tensor.Dense
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		vars:          make(map[string]*variable),
		observations:  make(map[string]*tensor.Dense),
		interventions: make(map[string]*tensor.Dense),
	}
}

// Sample declares an exogenous variable drawn from d at run time (or
// pinned by Observe).
//
// Errors: ErrEmptyName, ErrDuplicateVariable, ErrNilDistribution.
func (m *Model) Sample(name string, d effects.Distribution) error {
	if name == "" {
		return fmt.Errorf("Model.Sample: %w", ErrEmptyName)
	}
	if d == nil {
		return fmt.Errorf("Model.Sample(%q): %w", name, ErrNilDistribution)
	}
	if _, ok := m.vars[name]; ok {
		return fmt.Errorf("Model.Sample(%q): %w", name, ErrDuplicateVariable)
	}
	m.vars[name] = &variable{name: name, dist: d}
	return nil
}

// Define declares an endogenous variable computed by mech from its
// parents. Parents may be declared in any order relative to this call;
// existence and acyclicity are checked at Run.
//
// Errors: ErrEmptyName, ErrDuplicateVariable, ErrNilMechanism.
func (m *Model) Define(name string, mech Mechanism, parents ...string) error {
	if name == "" {
		return fmt.Errorf("Model.Define: %w", ErrEmptyName)
	}
	if mech == nil {
		return fmt.Errorf("Model.Define(%q): %w", name, ErrNilMechanism)
	}
	if _, ok := m.vars[name]; ok {
		return fmt.Errorf("Model.Define(%q): %w", name, ErrDuplicateVariable)
	}
	m.vars[name] = &variable{
		name:    name,
		parents: append([]string(nil), parents...),
		mech:    mech,
	}
	return nil
}

// Observe conditions an exogenous variable on v: at run time the
// sampling effect carries v as the observed value and no draw happens.
//
// Errors: ErrUnknownVariable, ErrNilValue.
func (m *Model) Observe(name string, v *tensor.Dense) error {
	if v == nil {
		return fmt.Errorf("Model.Observe(%q): %w", name, ErrNilValue)
	}
	if _, ok := m.vars[name]; !ok {
		return fmt.Errorf("Model.Observe(%q): %w", name, ErrUnknownVariable)
	}
	m.observations[name] = v
	return nil
}

// Intervene forces name to v: at run time, after the variable's own
// value is produced, the intervene effect is raised with that value as
// observed and v as proposed — the handler on the stack decides how
// they combine (replacement by default, an indexed split under a
// counterfactual handler).
//
// Errors: ErrUnknownVariable, ErrNilValue.
func (m *Model) Intervene(name string, v *tensor.Dense) error {
	if v == nil {
		return fmt.Errorf("Model.Intervene(%q): %w", name, ErrNilValue)
	}
	if _, ok := m.vars[name]; !ok {
		return fmt.Errorf("Model.Intervene(%q): %w", name, ErrUnknownVariable)
	}
	m.interventions[name] = v
	return nil
}

// Run executes the model under stack in deterministic topological
// order (ties break by ascending name) and returns the value of every
// variable. Exogenous sites flow through effects.Sample, interventions
// through effects.Intervene, so handlers on the stack see every site.
//
// Errors: ErrUnknownVariable (undeclared parent), ErrCycle; mechanism,
// sampling and handler errors pass through wrapped.
//
// Complexity: O(V + E) ordering plus the cost of mechanisms and draws.
func (m *Model) Run(stack *effects.Stack) (map[string]*tensor.Dense, error) {
	order, err := m.topoOrder()
	if err != nil {
		return nil, err
	}
	values := make(map[string]*tensor.Dense, len(order))
	for _, name := range order {
		v := m.vars[name]
		var value *tensor.Dense
		if v.dist != nil {
			opts := []effects.SampleOption(nil)
			if obs, ok := m.observations[name]; ok {
				opts = append(opts, effects.WithObserved(obs))
			}
			site, err := effects.Sample(stack, name, v.dist, opts...)
			if err != nil {
				return nil, fmt.Errorf("Model.Run(%q): %w", name, err)
			}
			value = site.Value
		} else {
			parents := make(map[string]*tensor.Dense, len(v.parents))
			for _, p := range v.parents {
				parents[p] = values[p]
			}
			computed, err := v.mech(parents)
			if err != nil {
				return nil, fmt.Errorf("Model.Run(%q): %w", name, err)
			}
			if computed == nil {
				return nil, fmt.Errorf("Model.Run(%q): mechanism result: %w", name, ErrNilValue)
			}
			value = computed
		}
		if proposed, ok := m.interventions[name]; ok {
			intervened, err := effects.Intervene(stack, value, proposed, effects.WithName(name))
			if err != nil {
				return nil, fmt.Errorf("Model.Run(%q): %w", name, err)
			}
			value = intervened
		}
		values[name] = value
	}
	return values, nil
}

// topoOrder computes a deterministic topological order via Kahn's
// algorithm with a name-sorted ready set.
func (m *Model) topoOrder() ([]string, error) {
	indeg := make(map[string]int, len(m.vars))
	children := make(map[string][]string, len(m.vars))
	for name, v := range m.vars {
		if _, ok := indeg[name]; !ok {
			indeg[name] = 0
		}
		for _, p := range v.parents {
			if _, ok := m.vars[p]; !ok {
				return nil, fmt.Errorf("Model.Run: parent %q of %q: %w", p, name, ErrUnknownVariable)
			}
			indeg[name]++
			children[p] = append(children[p], name)
		}
	}
	ready := make([]string, 0, len(indeg))
	for name, d := range indeg {
		if d == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	order := make([]string, 0, len(m.vars))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		next := children[name]
		sort.Strings(next)
		added := false
		for _, c := range next {
			indeg[c]--
			if indeg[c] == 0 {
				ready = append(ready, c)
				added = true
			}
		}
		if added {
			sort.Strings(ready)
		}
	}
	if len(order) != len(m.vars) {
		return nil, fmt.Errorf("Model.Run: %w", ErrCycle)
	}
	return order, nil
}
