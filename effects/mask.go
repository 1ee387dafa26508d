package effects

import (
	"fmt"

	"github.com/katalvlaran/worldline/tensor"
)

// MaskProvider computes, per sampling site, which worlds the site's
// factor applies to. The value may be nil when the site has not been
// resolved yet (pure prior masking); providers must tolerate that.
// Masks are boolean-valued tensors (0 or 1) or soft weights in [0, 1].
type MaskProvider interface {
	Mask(d Distribution, value *tensor.Dense) (*tensor.Dense, error)
}

// MaskProviderFunc adapts a function to MaskProvider.
type MaskProviderFunc func(d Distribution, value *tensor.Dense) (*tensor.Dense, error)

// Mask implements MaskProvider.
func (f MaskProviderFunc) Mask(d Distribution, value *tensor.Dense) (*tensor.Dense, error) {
	return f(d, value)
}

// DependentMask applies a computed mask to every sampling effect in
// its scope: per-world conditioning expressed as a multiplicative
// factor. The computed mask is combined conjunctively (elementwise
// multiplication, the AND of {0,1} masks) with any mask already
// attached by an outer handler — masks compose across nested scopes,
// they never overwrite.
type DependentMask struct {
	Provider MaskProvider
}

var _ Handler = (*DependentMask)(nil)

// NewDependentMask wraps provider into a handler.
func NewDependentMask(provider MaskProvider) *DependentMask {
	return &DependentMask{Provider: provider}
}

// Handle implements Handler; only sampling effects are touched.
func (m *DependentMask) Handle(msg *Message) error {
	if msg.Kind != KindSample || m.Provider == nil {
		return nil
	}
	mask, err := m.Provider.Mask(msg.Dist, msg.Value)
	if err != nil {
		return fmt.Errorf("DependentMask(%q): %w", msg.Name, err)
	}
	if mask == nil {
		return nil
	}
	if msg.Mask == nil {
		msg.Mask = mask
		return nil
	}
	combined, err := tensor.Zip(msg.Mask, mask, func(a, b float64) float64 { return a * b })
	if err != nil {
		return fmt.Errorf("DependentMask(%q): %w", msg.Name, err)
	}
	msg.Mask = combined
	return nil
}
