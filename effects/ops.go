package effects

import (
	"fmt"

	"github.com/katalvlaran/worldline/tensor"
)

// ---------- intervene ----------

// panic message for option misuse (programmer error).
const panicEventDim = "effects: WithEventDim: event dim must be >= 0"

// InterveneOption configures one intervention call site.
type InterveneOption func(*interveneOptions)

type interveneOptions struct {
	name     string
	eventDim int
}

// WithName names the intervention site; counterfactual handlers use it
// as the world-axis name. Unnamed sites are auto-named by the handler.
func WithName(name string) InterveneOption {
	return func(o *interveneOptions) { o.name = name }
}

// WithEventDim declares how many trailing axes of the site's values
// are event axes, never touched by world indexing. Default 0.
// Panics with a stable message on a negative value.
func WithEventDim(n int) InterveneOption {
	if n < 0 {
		panic(panicEventDim)
	}
	return func(o *interveneOptions) { o.eventDim = n }
}

// Intervene raises the intervene effect: the model observed `observed`
// at this site, and `proposed` is the value forced by the "what if"
// question. How the two combine is decided by the innermost handler
// that answers — Factual keeps the observed value, the counterfactual
// handlers scatter both into an indexed tensor. Unhandled, the
// proposed value wins (plain hard intervention).
//
// Errors: ErrNilValue on nil inputs; any handler error.
func Intervene(s *Stack, observed, proposed *tensor.Dense, opts ...InterveneOption) (*tensor.Dense, error) {
	if observed == nil || proposed == nil {
		return nil, fmt.Errorf("Intervene: %w", ErrNilValue)
	}
	var o interveneOptions
	for _, set := range opts {
		set(&o)
	}
	msg := &Message{
		Kind:     KindIntervene,
		Name:     o.name,
		EventDim: o.eventDim,
		Observed: observed,
		Proposed: proposed,
	}
	if err := s.apply(msg); err != nil {
		return nil, err
	}
	if !msg.Done {
		msg.Value = proposed
	}
	return msg.Value, nil
}

// ---------- sample ----------

// Distribution is the minimal surface the effect layer needs from a
// probability distribution; concrete distributions live outside this
// module's core (the counterfactual package's proposals are one
// implementation).
type Distribution interface {
	// Sample draws one value; the distribution knows its own shape.
	Sample() (*tensor.Dense, error)
}

// Site is the outcome of a sampling effect: the produced (or observed)
// value plus the externally attached conjunctive mask and additive
// log-weight. A nil Mask means every world passes; a nil LogWeight
// means zero.
type Site struct {
	Name      string
	Value     *tensor.Dense
	Mask      *tensor.Dense
	LogWeight *tensor.Dense
}

// SampleOption configures one sampling site.
type SampleOption func(*sampleOptions)

type sampleOptions struct {
	observed *tensor.Dense
}

// WithObserved conditions the site on an observed value: handlers see
// it as the site's value and no draw happens.
func WithObserved(v *tensor.Dense) SampleOption {
	return func(o *sampleOptions) { o.observed = v }
}

// Sample raises the sampling effect for site name under distribution
// d. Handlers may attach masks and log-weights or substitute the value
// entirely; when no handler produced a value and none was observed,
// one draw from d decides it.
//
// Errors: ErrNilDistribution; any handler or draw error.
func Sample(s *Stack, name string, d Distribution, opts ...SampleOption) (*Site, error) {
	if d == nil {
		return nil, fmt.Errorf("Sample(%q): %w", name, ErrNilDistribution)
	}
	var o sampleOptions
	for _, set := range opts {
		set(&o)
	}
	msg := &Message{Kind: KindSample, Name: name, Dist: d}
	if o.observed != nil {
		msg.Value = o.observed
		msg.Done = true
	}
	if err := s.apply(msg); err != nil {
		return nil, err
	}
	if msg.Value == nil {
		v, err := d.Sample()
		if err != nil {
			return nil, fmt.Errorf("Sample(%q): %w", name, err)
		}
		msg.Value = v
	}
	return &Site{Name: name, Value: msg.Value, Mask: msg.Mask, LogWeight: msg.LogWeight}, nil
}
