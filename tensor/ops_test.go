package tensor_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/worldline/tensor"
	"github.com/stretchr/testify/require"
)

func TestZip_Broadcasting(t *testing.T) {
	// column [2,1] against row [3] → [2,3]
	col, _ := tensor.New([]float64{10, 20}, 2, 1)
	row, _ := tensor.New([]float64{1, 2, 3}, 3)

	sum, err := tensor.Zip(col, row, func(x, y float64) float64 { return x + y })
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, sum.Shape())
	require.Equal(t, []float64{11, 12, 13, 21, 22, 23}, sum.Data())
}

func TestZip_ScalarOperand(t *testing.T) {
	a, _ := tensor.New([]float64{1, 2, 3}, 3)
	s := tensor.Scalar(10)

	prod, err := tensor.Zip(a, s, func(x, y float64) float64 { return x * y })
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30}, prod.Data())
}

func TestZip_IncompatibleShapes(t *testing.T) {
	a, _ := tensor.Zeros(2)
	b, _ := tensor.Zeros(3)
	_, err := tensor.Zip(a, b, func(x, y float64) float64 { return x })
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	d, _ := tensor.New([]float64{1, 4, 9}, 3)
	r := d.Apply(math.Sqrt)
	require.Equal(t, []float64{1, 2, 3}, r.Data())
	require.Equal(t, []float64{1, 4, 9}, d.Data())
}

func TestFoldTrailing_ReducesLastAxes(t *testing.T) {
	d, _ := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	sums, err := d.FoldTrailing(1, 0, func(acc, x float64) float64 { return acc + x })
	require.NoError(t, err)
	require.Equal(t, []int{2}, sums.Shape())
	require.Equal(t, []float64{6, 15}, sums.Data())

	// n == 0 leaves the value untouched
	same, err := d.FoldTrailing(0, 0, func(acc, x float64) float64 { return acc + x })
	require.NoError(t, err)
	require.True(t, d.Equal(same))

	_, err = d.FoldTrailing(3, 0, func(acc, x float64) float64 { return acc })
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestIndexSelectFromRight_Basic(t *testing.T) {
	d, _ := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	// pick columns 2 and 0, in that order
	sub, err := d.IndexSelectFromRight(1, []int{2, 0})
	require.NoError(t, err)
	require.Equal(t, []int{2, 2}, sub.Shape())
	require.Equal(t, []float64{3, 1, 6, 4}, sub.Data())

	// pick row 1
	row, err := d.IndexSelectFromRight(2, []int{1})
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, row.Shape())
	require.Equal(t, []float64{4, 5, 6}, row.Data())
}

func TestIndexSelectFromRight_BroadcastNoOp(t *testing.T) {
	d, _ := tensor.New([]float64{1, 2, 3}, 1, 3)

	// size-1 axis: constant, any selection returns the receiver
	same, err := d.IndexSelectFromRight(2, []int{0})
	require.NoError(t, err)
	require.True(t, same == d)

	// implicit axis beyond the rank behaves the same
	same, err = d.IndexSelectFromRight(5, []int{3})
	require.NoError(t, err)
	require.True(t, same == d)
}

func TestIndexSelectFromRight_Errors(t *testing.T) {
	d, _ := tensor.New([]float64{1, 2, 3}, 3)

	_, err := d.IndexSelectFromRight(1, []int{3})
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = d.IndexSelectFromRight(1, nil)
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
	_, err = d.IndexSelectFromRight(0, []int{0})
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
}

func TestSetIndexed_BroadcastSource(t *testing.T) {
	dst, _ := tensor.Zeros(3, 2)
	src := tensor.Scalar(7)

	// write 7 into rows 0 and 2, every column
	require.NoError(t, dst.SetIndexed(src, map[int][]int{2: {0, 2}}))
	require.Equal(t, []float64{7, 7, 0, 0, 7, 7}, dst.Data())
}

func TestSetIndexed_PositionalSource(t *testing.T) {
	dst, _ := tensor.Zeros(3, 2)
	src, _ := tensor.New([]float64{1, 2, 3, 4}, 2, 2)

	// src slice i goes to destination row lists[i]
	require.NoError(t, dst.SetIndexed(src, map[int][]int{2: {2, 0}}))
	require.Equal(t, []float64{3, 4, 0, 0, 1, 2}, dst.Data())
}

func TestSetIndexed_AlignedSource(t *testing.T) {
	dst, _ := tensor.Zeros(3, 2)
	src, _ := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 3, 2)

	// src spans the axis: selected rows copy index-aligned
	require.NoError(t, dst.SetIndexed(src, map[int][]int{2: {1}}))
	require.Equal(t, []float64{0, 0, 3, 4, 0, 0}, dst.Data())
}

func TestSetIndexed_Errors(t *testing.T) {
	dst, _ := tensor.Zeros(3, 2)
	src, _ := tensor.Zeros(2, 2)

	require.ErrorIs(t, dst.SetIndexed(src, map[int][]int{3: {0}}), tensor.ErrOutOfRange)
	require.ErrorIs(t, dst.SetIndexed(src, map[int][]int{2: {3}}), tensor.ErrOutOfRange)
	require.ErrorIs(t, dst.SetIndexed(src, map[int][]int{2: {}}), tensor.ErrOutOfRange)
	// 2 source slices cannot serve 3 selected rows
	require.ErrorIs(t, dst.SetIndexed(src, map[int][]int{2: {0, 1, 2}}), tensor.ErrShapeMismatch)
	require.ErrorIs(t, dst.SetIndexed(nil, map[int][]int{2: {0}}), tensor.ErrNilTensor)
}

func TestSelect_PerElementPick(t *testing.T) {
	codes, _ := tensor.New([]float64{0, 1, 1, 0}, 4)
	a, _ := tensor.New([]float64{10, 20, 30, 40}, 4)
	b, _ := tensor.New([]float64{-1, -2, -3, -4}, 4)

	out, err := tensor.Select(codes, []*tensor.Dense{a, b})
	require.NoError(t, err)
	require.Equal(t, []float64{10, -2, -3, 40}, out.Data())
}

func TestSelect_BroadcastsCandidates(t *testing.T) {
	codes, _ := tensor.New([]float64{0, 1}, 2, 1)
	factual, _ := tensor.New([]float64{1, 2, 3}, 3)
	forced := tensor.Scalar(9)

	out, err := tensor.Select(codes, []*tensor.Dense{factual, forced})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, out.Shape())
	require.Equal(t, []float64{1, 2, 3, 9, 9, 9}, out.Data())
}

func TestSelect_RejectsNonIntegerOrRange(t *testing.T) {
	a, _ := tensor.Zeros(2)

	codes, _ := tensor.New([]float64{0.5, 0}, 2)
	_, err := tensor.Select(codes, []*tensor.Dense{a})
	require.ErrorIs(t, err, tensor.ErrOutOfRange)

	codes, _ = tensor.New([]float64{1, 0}, 2)
	_, err = tensor.Select(codes, []*tensor.Dense{a})
	require.ErrorIs(t, err, tensor.ErrOutOfRange)
}
