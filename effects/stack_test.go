package effects_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/worldline/effects"
	"github.com/katalvlaran/worldline/tensor"
	"github.com/katalvlaran/worldline/worlds"
	"github.com/stretchr/testify/require"
)

// recorder is a Scoped handler logging its lifecycle and every effect
// it sees; shared harness for the stack tests.
type recorder struct {
	name     string
	log      *[]string
	enterErr error
	stop     bool
}

func (r *recorder) Handle(msg *effects.Message) error {
	*r.log = append(*r.log, r.name+":"+msg.Kind.String())
	if r.stop {
		msg.Stop = true
	}
	return nil
}

func (r *recorder) OnEnter() error {
	*r.log = append(*r.log, r.name+":enter")
	return r.enterErr
}

func (r *recorder) OnExit() {
	*r.log = append(*r.log, r.name+":exit")
}

func TestStack_InnermostHandlesFirst(t *testing.T) {
	s := effects.NewStack()
	var log []string
	outer := &recorder{name: "outer", log: &log}
	inner := &recorder{name: "inner", log: &log}

	err := s.Use(outer, func() error {
		return s.Use(inner, func() error {
			_, err := effects.Intervene(s, tensor.Scalar(1), tensor.Scalar(2))
			return err
		})
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"outer:enter", "inner:enter",
		"inner:intervene", "outer:intervene",
		"inner:exit", "outer:exit",
	}, log)
}

func TestStack_StopEndsPropagation(t *testing.T) {
	s := effects.NewStack()
	var log []string
	outer := &recorder{name: "outer", log: &log}
	inner := &recorder{name: "inner", log: &log, stop: true}

	err := s.Use(outer, func() error {
		return s.Use(inner, func() error {
			_, err := effects.Intervene(s, tensor.Scalar(1), tensor.Scalar(2))
			return err
		})
	})
	require.NoError(t, err)
	require.NotContains(t, log, "outer:intervene")
}

func TestStack_UseRejectsNilHandler(t *testing.T) {
	s := effects.NewStack()
	err := s.Use(nil, func() error { return nil })
	require.ErrorIs(t, err, effects.ErrNilHandler)
}

func TestStack_EnterFailureNeverPushes(t *testing.T) {
	s := effects.NewStack()
	var log []string
	boom := errors.New("no scope for you")
	h := &recorder{name: "h", log: &log, enterErr: boom}

	err := s.Use(h, func() error { return nil })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, s.Depth())
	require.NotContains(t, log, "h:exit") // never entered, never exited
}

func TestStack_TearsDownOnPanic(t *testing.T) {
	s := effects.NewStack()
	var log []string
	h := &recorder{name: "h", log: &log}

	require.Panics(t, func() {
		_ = s.Use(h, func() error { panic("boom") })
	})
	require.Equal(t, 0, s.Depth())
	require.Contains(t, log, "h:exit")
}

func TestStack_RegistryWithoutAllocator(t *testing.T) {
	s := effects.NewStack()

	require.Empty(t, s.Plates())
	err := s.AddIndices(worlds.NewIndexSet("x", 0))
	require.ErrorIs(t, err, effects.ErrNoAllocator)
}

func TestStack_BindsLedgerIntoAllocators(t *testing.T) {
	s := effects.NewStack()
	a := worlds.NewAllocator()

	err := s.Use(allocatorHandler{a}, func() error {
		require.NoError(t, a.Enter())
		defer a.Exit()
		require.NoError(t, s.AddIndices(worlds.NewIndexSet("x", 0, 1)))

		owner, held := s.Ledger().Owner(worlds.DefaultFirstFreeAxis)
		require.True(t, held)
		require.Equal(t, "x", owner)
		require.Equal(t, 2, s.Plates()["x"].Size)
		return nil
	})
	require.NoError(t, err)
}

// allocatorHandler exposes a bare allocator as a registry-answering
// handler, without any counterfactual semantics.
type allocatorHandler struct {
	*worlds.Allocator
}

func (h allocatorHandler) Handle(msg *effects.Message) error {
	switch msg.Kind {
	case effects.KindIndexPlates:
		msg.Plates = h.Plates()
		msg.Done, msg.Stop = true, true
	case effects.KindAddIndices:
		if err := h.AddIndices(msg.Indices); err != nil {
			return err
		}
		msg.Done, msg.Stop = true, true
	}
	return nil
}
