// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"
	"slices"
)

// Selector names a built-in problem.
type Selector int

const (
	// SelectBowl selects Bowl.
	SelectBowl Selector = iota + 1
	// SelectValley selects Valley.
	SelectValley
	// SelectChain selects Chain with ChainDim variables.
	SelectChain
)

// Factory builds a built-in problem for a given penalty weight.
type Factory struct {
	Selector Selector
	Name     string
	Dim      int
	// Fill is the value of every coordinate of the default start point.
	Fill  float64
	Build func(mu float64) (Penalized, error)
}

// Start returns a fresh default start point.
func (f Factory) Start() []float64 {
	return slices.Repeat([]float64{f.Fill}, f.Dim)
}

var registry = []Factory{
	{
		Selector: SelectBowl, Name: "bowl", Dim: 2,
		Build: func(mu float64) (Penalized, error) {
			p, err := NewBowl(mu)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		Selector: SelectValley, Name: "valley", Dim: 2,
		Build: func(mu float64) (Penalized, error) {
			p, err := NewValley(mu)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		Selector: SelectChain, Name: "chain", Dim: ChainDim, Fill: 1,
		Build: func(mu float64) (Penalized, error) {
			p, err := NewChain(ChainDim, mu)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	},
}

// Lookup returns the factory for s.
func Lookup(s Selector) (Factory, error) {
	for _, f := range registry {
		if f.Selector == s {
			return f, nil
		}
	}
	return Factory{}, fmt.Errorf("%w: %d", ErrUnknownSelector, s)
}

// Selectors lists every built-in problem in selector order.
func Selectors() []Factory {
	return slices.Clone(registry)
}
