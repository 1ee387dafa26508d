package effects

import (
	"fmt"

	"github.com/katalvlaran/worldline/worlds"
)

// Stack is the active handler chain. Handlers are invoked in stack
// order (innermost-pushed first) on the way down and released in
// strictly reverse order on the way up, panics included. A Stack is
// single-threaded by contract: one logical call stack at a time.
//
// The zero value is not usable; construct with NewStack.
type Stack struct {
	frames []Handler
	ledger *worlds.AxisLedger
}

// Stack satisfies the algebra's registry surface, routing plate
// queries through the handler chain.
var _ worlds.Registry = (*Stack)(nil)

// NewStack creates an empty stack with a fresh axis ledger.
func NewStack() *Stack {
	return &Stack{ledger: worlds.NewAxisLedger()}
}

// Ledger exposes the stack-wide collision ledger (e.g. to reserve
// model batch axes up front via worlds.AxisLedger.Acquire).
func (s *Stack) Ledger() *worlds.AxisLedger { return s.ledger }

// Depth reports the number of live handlers.
func (s *Stack) Depth() int { return len(s.frames) }

// Use pushes h for the duration of fn and pops it afterwards on every
// exit path (error, panic, clean return) — handlers exit in reverse
// push order even when a panic unwinds through nested scopes.
// Ledger-aware handlers are bound to the stack's axis ledger before
// entry; Scoped handlers get OnEnter before the push and OnExit after
// the pop, so a handler never observes effects while mid-teardown.
//
// Errors: ErrNilHandler; any OnEnter error (h is then never pushed);
// otherwise fn's error.
func (s *Stack) Use(h Handler, fn func() error) error {
	if h == nil {
		return fmt.Errorf("Stack.Use: %w", ErrNilHandler)
	}
	if lb, ok := h.(worlds.LedgerBinder); ok {
		lb.BindLedger(s.ledger)
	}
	if sc, ok := h.(Scoped); ok {
		if err := sc.OnEnter(); err != nil {
			return err
		}
	}
	s.frames = append(s.frames, h)
	defer func() {
		s.frames = s.frames[:len(s.frames)-1]
		if sc, ok := h.(Scoped); ok {
			sc.OnExit()
		}
	}()
	return fn()
}

// apply folds msg over the active chain, innermost first, honoring
// Stop.
func (s *Stack) apply(msg *Message) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if err := s.frames[i].Handle(msg); err != nil {
			return err
		}
		if msg.Stop {
			break
		}
	}
	return nil
}

// Plates implements worlds.PlateSource: the index-plates query is
// answered by the innermost allocator-bearing handler, which marks it
// fully handled and terminates propagation. With no such handler the
// mapping is empty.
func (s *Stack) Plates() map[string]worlds.Plate {
	msg := &Message{Kind: KindIndexPlates}
	// Handlers cannot fail a read-only registry query.
	_ = s.apply(msg)
	if msg.Plates == nil {
		return map[string]worlds.Plate{}
	}
	return msg.Plates
}

// AddIndices implements worlds.Registry by routing allocation to the
// innermost allocator-bearing handler.
//
// Errors: ErrNoAllocator when nothing on the stack allocates; any
// allocation error (collision, range, scope) from the allocator.
func (s *Stack) AddIndices(set worlds.IndexSet) error {
	msg := &Message{Kind: KindAddIndices, Indices: set}
	if err := s.apply(msg); err != nil {
		return err
	}
	if !msg.Done {
		return fmt.Errorf("Stack.AddIndices: %w", ErrNoAllocator)
	}
	return nil
}
