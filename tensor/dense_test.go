package tensor_test

import (
	"testing"

	"github.com/katalvlaran/worldline/tensor"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundTrip(t *testing.T) {
	d, err := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, d.Shape())
	require.Equal(t, 2, d.Rank())
	require.Equal(t, 6, d.Len())

	v, err := d.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 6.0, v)
}

func TestNew_CountMismatch(t *testing.T) {
	_, err := tensor.New([]float64{1, 2, 3}, 2, 2)
	require.ErrorIs(t, err, tensor.ErrBadShape)
}

func TestZeros_RejectsNonPositiveDim(t *testing.T) {
	_, err := tensor.Zeros(2, 0)
	require.ErrorIs(t, err, tensor.ErrBadShape)
	_, err = tensor.Zeros(-1)
	require.ErrorIs(t, err, tensor.ErrBadShape)
}

func TestScalar_RankZero(t *testing.T) {
	s := tensor.Scalar(3.5)
	require.Equal(t, 0, s.Rank())
	require.Equal(t, 1, s.Len())

	v, err := s.At()
	require.NoError(t, err)
	require.Equal(t, 3.5, v)
}

func TestFull_FillsEveryElement(t *testing.T) {
	d, err := tensor.Full(7, 2, 2)
	require.NoError(t, err)
	for _, x := range d.Data() {
		require.Equal(t, 7.0, x)
	}
}

func TestSetAt_Bounds(t *testing.T) {
	d, err := tensor.Zeros(2, 3)
	require.NoError(t, err)

	require.NoError(t, d.Set(9, 1, 1))
	v, err := d.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)

	_, err = d.At(2, 0)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	err = d.Set(1, 0, 3)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = d.At(0) // wrong arity
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestClone_Isolated(t *testing.T) {
	d, err := tensor.New([]float64{1, 2}, 2)
	require.NoError(t, err)
	c := d.Clone()
	require.NoError(t, c.Set(99, 0))

	v, err := d.At(0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestEqual_ShapeSensitive(t *testing.T) {
	a, _ := tensor.New([]float64{1, 2, 3, 4}, 2, 2)
	b, _ := tensor.New([]float64{1, 2, 3, 4}, 2, 2)
	c, _ := tensor.New([]float64{1, 2, 3, 4}, 4)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c)) // same data, different shape
	require.False(t, a.Equal(nil))
}

func TestAllClose_Tolerance(t *testing.T) {
	a, _ := tensor.New([]float64{1.0, 2.0}, 2)
	b, _ := tensor.New([]float64{1.0 + 1e-12, 2.0 - 1e-12}, 2)

	require.True(t, a.AllClose(b, 1e-9))
	require.False(t, a.AllClose(b, 1e-15))
}

func TestReshape_PreservesData(t *testing.T) {
	d, _ := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	r, err := d.Reshape(3, 2)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, r.Shape())
	require.Equal(t, d.Data(), r.Data())

	_, err = d.Reshape(4)
	require.ErrorIs(t, err, tensor.ErrBadShape)
}
