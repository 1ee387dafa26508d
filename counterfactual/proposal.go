package counterfactual

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/worldline/effects"
	"github.com/katalvlaran/worldline/tensor"
)

// DefaultSeed seeds the proposal source when none is supplied, keeping
// runs reproducible by default; pass WithSource for externally managed
// randomness.
const DefaultSeed uint64 = 1

// panic message for option misuse (programmer error).
const panicNilSource = "counterfactual: WithSource: source must be non-nil"

// ProposalOption configures proposal construction.
type ProposalOption func(*proposalOptions)

type proposalOptions struct {
	src rand.Source
}

// WithSource sets the random source behind a proposal's draws.
// Panics with a stable message on a nil source.
func WithSource(src rand.Source) ProposalOption {
	if src == nil {
		panic(panicNilSource)
	}
	return func(o *proposalOptions) { o.src = src }
}

func gatherProposalOptions(user ...ProposalOption) proposalOptions {
	o := proposalOptions{}
	for _, set := range user {
		set(&o)
	}
	if o.src == nil {
		o.src = rand.NewSource(DefaultSeed)
	}
	return o
}

// Proposal draws candidate alternative values over a fixed support.
// Elements are independent draws: a proposal over any batch shape is a
// product distribution, never correlated across positions.
type Proposal struct {
	draw       func() float64
	eventShape []int
}

// EventShape returns a copy of the trailing event shape every sample
// carries.
func (p *Proposal) EventShape() []int {
	return append([]int(nil), p.eventShape...)
}

// Sample draws one tensor of shape batch + eventShape, each element an
// independent draw. No batch axes yields a bare event-shaped (or
// scalar) value.
func (p *Proposal) Sample(batch ...int) (*tensor.Dense, error) {
	shape := append(append([]int(nil), batch...), p.eventShape...)
	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("Proposal.Sample: dimension %d: %w", dim, tensor.ErrBadShape)
		}
		n *= dim
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = p.draw()
	}
	out, err := tensor.New(data, shape...)
	if err != nil {
		return nil, fmt.Errorf("Proposal.Sample: %w", err)
	}
	return out, nil
}

// Dist binds the proposal to a fixed batch shape, giving the
// effect layer's Distribution so proposals can back sampling sites.
func (p *Proposal) Dist(batch ...int) effects.Distribution {
	shape := append([]int(nil), batch...)
	return boundProposal{p: p, batch: shape}
}

type boundProposal struct {
	p     *Proposal
	batch []int
}

func (b boundProposal) Sample() (*tensor.Dense, error) { return b.p.Sample(b.batch...) }

// UniformProposal returns the canonical distribution for proposing an
// alternative value on the given domain:
//
//   - Real            — wide heavy-tailed StudentsT(ν=3, μ=0, σ=10),
//     so no finite region is starved of proposals;
//   - Boolean         — discrete uniform over {0, 1} (Bernoulli ½);
//   - Positive        — Uniform(0,1) pushed through −log, i.e.
//     Exponential(1): a domain transform of a uniform base;
//   - Interval        — continuous uniform over [Lower, Upper];
//   - IntegerInterval — discrete uniform over {Lower..Upper};
//   - Independent     — the same construction applied per component,
//     trailing axes treated as batch, not event, so components are
//     independent draws.
//
// eventShape declares trailing axes every sample carries (elementwise
// independent regardless).
//
// Errors: ErrUnknownSupport on nil or foreign descriptors;
// ErrBadInterval on degenerate or non-finite bounds;
// tensor.ErrBadShape on a bad eventShape.
func UniformProposal(s Support, eventShape []int, opts ...ProposalOption) (*Proposal, error) {
	if s == nil {
		return nil, fmt.Errorf("UniformProposal: %w", ErrUnknownSupport)
	}
	for _, dim := range eventShape {
		if dim <= 0 {
			return nil, fmt.Errorf("UniformProposal(%v): event shape %v: %w", s, eventShape, tensor.ErrBadShape)
		}
	}
	o := gatherProposalOptions(opts...)
	draw, err := drawFunc(s, o.src)
	if err != nil {
		return nil, err
	}
	return &Proposal{
		draw:       draw,
		eventShape: append([]int(nil), eventShape...),
	}, nil
}

// drawFunc resolves a support descriptor to a single-element sampler.
func drawFunc(s Support, src rand.Source) (func() float64, error) {
	switch sup := s.(type) {
	case Real:
		d := distuv.StudentsT{Mu: 0, Sigma: 10, Nu: 3, Src: src}
		return d.Rand, nil
	case Boolean:
		d := distuv.Bernoulli{P: 0.5, Src: src}
		return d.Rand, nil
	case Positive:
		d := distuv.Exponential{Rate: 1, Src: src}
		return d.Rand, nil
	case Interval:
		if !(sup.Lower < sup.Upper) || math.IsInf(sup.Lower, 0) || math.IsInf(sup.Upper, 0) ||
			math.IsNaN(sup.Lower) || math.IsNaN(sup.Upper) {
			return nil, fmt.Errorf("UniformProposal(%v): %w", sup, ErrBadInterval)
		}
		d := distuv.Uniform{Min: sup.Lower, Max: sup.Upper, Src: src}
		return d.Rand, nil
	case IntegerInterval:
		if sup.Lower > sup.Upper {
			return nil, fmt.Errorf("UniformProposal(%v): %w", sup, ErrBadInterval)
		}
		n := sup.Upper - sup.Lower + 1
		weights := make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
		d := distuv.NewCategorical(weights, src)
		lower := float64(sup.Lower)
		return func() float64 { return lower + d.Rand() }, nil
	case Independent:
		// Elementwise draws are independent by construction; the
		// reinterpreted axes only change batch/event bookkeeping.
		return drawFunc(sup.Base, src)
	default:
		return nil, fmt.Errorf("UniformProposal(%v): %w", s, ErrUnknownSupport)
	}
}

// RandomIntervention autogenerates candidate interventions for
// explanation search: given an observed value, it draws one
// shape-matched sample from the uniform proposal over the value's
// domain.
type RandomIntervention struct {
	name string
	prop *Proposal
}

// NewRandomIntervention builds the generator for a site. name is the
// world-axis name the intervention will carry when raised as an
// effect.
//
// Errors: those of UniformProposal.
func NewRandomIntervention(s Support, name string, opts ...ProposalOption) (*RandomIntervention, error) {
	prop, err := UniformProposal(s, nil, opts...)
	if err != nil {
		return nil, err
	}
	return &RandomIntervention{name: name, prop: prop}, nil
}

// Name returns the site name the generator targets.
func (r *RandomIntervention) Name() string { return r.name }

// Propose draws one candidate alternative matching the observed
// value's shape.
//
// Errors: ErrNilValue.
func (r *RandomIntervention) Propose(observed *tensor.Dense) (*tensor.Dense, error) {
	if observed == nil {
		return nil, fmt.Errorf("RandomIntervention(%q): %w", r.name, ErrNilValue)
	}
	return r.prop.Sample(observed.Shape()...)
}

// Intervene draws a candidate and raises the intervene effect at the
// generator's site name, letting whatever counterfactual handler is on
// the stack lift it into the indexed representation.
func (r *RandomIntervention) Intervene(s *effects.Stack, observed *tensor.Dense, opts ...effects.InterveneOption) (*tensor.Dense, error) {
	proposed, err := r.Propose(observed)
	if err != nil {
		return nil, err
	}
	opts = append([]effects.InterveneOption{effects.WithName(r.name)}, opts...)
	return effects.Intervene(s, observed, proposed, opts...)
}
