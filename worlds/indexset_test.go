// SPDX-License-Identifier: MIT

package worlds_test

import (
	"testing"

	"github.com/katalvlaran/worldline/worlds"
	"github.com/stretchr/testify/require"
)

func TestWorldSet_SortedAndContains(t *testing.T) {
	w := worlds.NewWorldSet(2, 0, 2, 1)

	require.Equal(t, []int{0, 1, 2}, w.Sorted())
	require.True(t, w.Contains(1))
	require.False(t, w.Contains(3))
}

func TestIndexSet_WithClonesReceiver(t *testing.T) {
	base := worlds.NewIndexSet("x", 0)
	extended := base.With("y", 1)

	require.Equal(t, []string{"x"}, base.Names())
	require.Equal(t, []string{"x", "y"}, extended.Names())

	// adding to a shared name merges, still without touching the base
	wider := base.With("x", 1)
	require.Equal(t, []int{0, 1}, wider["x"].Sorted())
	require.Equal(t, []int{0}, base["x"].Sorted())
}

func TestIndexSet_Equal(t *testing.T) {
	a := worlds.NewIndexSet("x", 0, 1).With("y", 2)
	b := worlds.NewIndexSet("y", 2).With("x", 1, 0)
	c := worlds.NewIndexSet("x", 0, 1)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, c.Equal(a))
}

func TestUnion_MergesSharedNames(t *testing.T) {
	a := worlds.NewIndexSet("x", 0).With("y", 1)
	b := worlds.NewIndexSet("x", 1).With("z", 0)

	u := worlds.Union(a, b)
	require.Equal(t, []string{"x", "y", "z"}, u.Names())
	require.Equal(t, []int{0, 1}, u["x"].Sorted())

	// inputs untouched
	require.Equal(t, []int{0}, a["x"].Sorted())
	require.Equal(t, []int{1}, b["x"].Sorted())
}

func TestIndexSet_Validate(t *testing.T) {
	require.NoError(t, worlds.NewIndexSet("x", 0, 3).Validate())

	empty := worlds.IndexSet{"x": worlds.WorldSet{}}
	require.ErrorIs(t, empty.Validate(), worlds.ErrEmptyIndexSet)

	negative := worlds.NewIndexSet("x", -1)
	require.ErrorIs(t, negative.Validate(), worlds.ErrIndexRange)
}

func TestIndexSet_StringDeterministic(t *testing.T) {
	s := worlds.NewIndexSet("b", 1).With("a", 2, 0)
	require.Equal(t, "{a: [0 2], b: [1]}", s.String())
}
