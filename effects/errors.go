// Package effects: sentinel error set. Messages are prefixed with
// "effects: ..."; match via errors.Is.

package effects

import "errors"

var (
	// ErrNilHandler indicates a nil handler pushed onto the stack.
	ErrNilHandler = errors.New("effects: nil handler")

	// ErrNilValue indicates a nil tensor where a value is required.
	ErrNilValue = errors.New("effects: nil value")

	// ErrNilDistribution indicates a sampling effect without a
	// distribution.
	ErrNilDistribution = errors.New("effects: nil distribution")

	// ErrNoAllocator indicates an add-indices effect that reached the
	// bottom of the stack without finding an allocator-bearing handler.
	ErrNoAllocator = errors.New("effects: no index allocator on the stack")
)
