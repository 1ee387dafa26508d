package effects_test

import (
	"testing"

	"github.com/katalvlaran/worldline/effects"
	"github.com/katalvlaran/worldline/tensor"
	"github.com/stretchr/testify/require"
)

// fixedDist counts its draws; lets tests assert whether sampling
// actually happened.
type fixedDist struct {
	value *tensor.Dense
	draws int
}

func (d *fixedDist) Sample() (*tensor.Dense, error) {
	d.draws++
	return d.value, nil
}

func TestIntervene_UnhandledKeepsProposed(t *testing.T) {
	s := effects.NewStack()

	out, err := effects.Intervene(s, tensor.Scalar(1), tensor.Scalar(2))
	require.NoError(t, err)
	require.True(t, out.Equal(tensor.Scalar(2)))
}

func TestIntervene_NilInputs(t *testing.T) {
	s := effects.NewStack()

	_, err := effects.Intervene(s, nil, tensor.Scalar(2))
	require.ErrorIs(t, err, effects.ErrNilValue)
	_, err = effects.Intervene(s, tensor.Scalar(1), nil)
	require.ErrorIs(t, err, effects.ErrNilValue)
}

func TestIntervene_OptionsReachHandler(t *testing.T) {
	s := effects.NewStack()
	var seen effects.Message

	spy := effects.HandlerFunc(func(msg *effects.Message) error {
		seen = *msg
		return nil
	})
	err := s.Use(spy, func() error {
		_, err := effects.Intervene(s, tensor.Scalar(1), tensor.Scalar(2),
			effects.WithName("dose"), effects.WithEventDim(1))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, effects.KindIntervene, seen.Kind)
	require.Equal(t, "dose", seen.Name)
	require.Equal(t, 1, seen.EventDim)
}

func TestWithEventDim_PanicsOnNegative(t *testing.T) {
	require.Panics(t, func() { effects.WithEventDim(-1) })
}

func TestSample_DrawsWhenUnhandled(t *testing.T) {
	s := effects.NewStack()
	d := &fixedDist{value: tensor.Scalar(7)}

	site, err := effects.Sample(s, "x", d)
	require.NoError(t, err)
	require.Equal(t, "x", site.Name)
	require.True(t, site.Value.Equal(tensor.Scalar(7)))
	require.Equal(t, 1, d.draws)
	require.Nil(t, site.Mask)
	require.Nil(t, site.LogWeight)
}

func TestSample_ObservedSuppressesDraw(t *testing.T) {
	s := effects.NewStack()
	d := &fixedDist{value: tensor.Scalar(7)}

	site, err := effects.Sample(s, "x", d, effects.WithObserved(tensor.Scalar(3)))
	require.NoError(t, err)
	require.True(t, site.Value.Equal(tensor.Scalar(3)))
	require.Equal(t, 0, d.draws)
}

func TestSample_NilDistribution(t *testing.T) {
	s := effects.NewStack()
	_, err := effects.Sample(s, "x", nil)
	require.ErrorIs(t, err, effects.ErrNilDistribution)
}

func TestDependentMask_AttachesMask(t *testing.T) {
	s := effects.NewStack()
	mask, _ := tensor.New([]float64{1, 0}, 2)
	h := effects.NewDependentMask(effects.MaskProviderFunc(
		func(d effects.Distribution, v *tensor.Dense) (*tensor.Dense, error) {
			return mask, nil
		}))

	err := s.Use(h, func() error {
		site, err := effects.Sample(s, "x", &fixedDist{value: tensor.Scalar(1)},
			effects.WithObserved(tensor.Scalar(1)))
		require.NoError(t, err)
		require.True(t, site.Mask.Equal(mask))
		return nil
	})
	require.NoError(t, err)
}

func TestDependentMask_ConjunctionNeverOverwrites(t *testing.T) {
	s := effects.NewStack()
	maskA, _ := tensor.New([]float64{1, 1, 0, 0}, 4)
	maskB, _ := tensor.New([]float64{1, 0, 1, 0}, 4)
	provider := func(m *tensor.Dense) effects.MaskProvider {
		return effects.MaskProviderFunc(
			func(d effects.Distribution, v *tensor.Dense) (*tensor.Dense, error) {
				return m, nil
			})
	}

	err := s.Use(effects.NewDependentMask(provider(maskA)), func() error {
		return s.Use(effects.NewDependentMask(provider(maskB)), func() error {
			site, err := effects.Sample(s, "x", &fixedDist{value: tensor.Scalar(1)},
				effects.WithObserved(tensor.Scalar(1)))
			require.NoError(t, err)

			want, _ := tensor.New([]float64{1, 0, 0, 0}, 4)
			require.True(t, site.Mask.Equal(want))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestDependentMask_NilMaskIsNoOp(t *testing.T) {
	s := effects.NewStack()
	h := effects.NewDependentMask(effects.MaskProviderFunc(
		func(d effects.Distribution, v *tensor.Dense) (*tensor.Dense, error) {
			return nil, nil
		}))

	err := s.Use(h, func() error {
		site, err := effects.Sample(s, "x", &fixedDist{value: tensor.Scalar(1)})
		require.NoError(t, err)
		require.Nil(t, site.Mask)
		return nil
	})
	require.NoError(t, err)
}

func TestDependentMask_IgnoresNonSampleEffects(t *testing.T) {
	s := effects.NewStack()
	calls := 0
	h := effects.NewDependentMask(effects.MaskProviderFunc(
		func(d effects.Distribution, v *tensor.Dense) (*tensor.Dense, error) {
			calls++
			return nil, nil
		}))

	err := s.Use(h, func() error {
		_, err := effects.Intervene(s, tensor.Scalar(1), tensor.Scalar(2))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 0, calls)
}
