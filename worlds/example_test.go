// SPDX-License-Identifier: MIT

package worlds_test

import (
	"fmt"

	"github.com/katalvlaran/worldline/tensor"
	"github.com/katalvlaran/worldline/worlds"
)

// ExampleScatter builds a two-world value out of a factual and a
// counterfactual branch, then reads each world back.
func ExampleScatter() {
	a := worlds.NewAllocator(worlds.WithFirstFreeAxis(-1))
	_ = a.Within(func() error {
		joint, err := worlds.Scatter(a, []worlds.Branch{
			{Where: worlds.NewIndexSet("n", 0), Value: tensor.Scalar(1.0)},
			{Where: worlds.NewIndexSet("n", 1), Value: tensor.Scalar(0.5)},
		}, 0)
		if err != nil {
			return err
		}
		fmt.Println(joint.Data())

		factual, err := worlds.Gather(a, joint, worlds.NewIndexSet("n", 0), 0)
		if err != nil {
			return err
		}
		fmt.Println(factual.Data())
		return nil
	})
	// Output:
	// [1 0.5]
	// [1]
}

// ExampleAllocator_Within shows scoped plate ownership: axes are held
// only while the scope is live.
func ExampleAllocator_Within() {
	a := worlds.NewAllocator()
	_ = a.Within(func() error {
		_ = a.AddIndices(worlds.NewIndexSet("world", 0, 1))
		fmt.Println(a.Plates()["world"].Axis, a.Plates()["world"].Size)
		return nil
	})
	fmt.Println(len(a.Plates()))
	// Output:
	// -5 2
	// 0
}
