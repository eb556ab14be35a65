// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"fmt"

	"github.com/curioloop/descent/problem"
)

// Build looks up the selected built-in problem, builds it with weight mu and
// returns it with the start point, which defaults to the problem's own when
// x0 is nil. Every configuration error surfaces here, before any iteration.
func Build(sel problem.Selector, mu float64, x0 []float64) (problem.Penalized, []float64, error) {
	f, err := problem.Lookup(sel)
	if err != nil {
		return nil, nil, err
	}
	if x0 == nil {
		x0 = f.Start()
	}
	if len(x0) != f.Dim {
		return nil, nil, fmt.Errorf("%w: initial x has %d elements, %s has %d", ErrDimension, len(x0), f.Name, f.Dim)
	}
	p, err := f.Build(mu)
	if err != nil {
		return nil, nil, err
	}
	return p, x0, nil
}

// OptimizeNesterov runs Nesterov on the selected built-in problem.
func OptimizeNesterov(sel problem.Selector, x0 []float64, mu, step, momentum float64, n int, logger *Logger) (*Result, error) {
	p, x0, err := Build(sel, mu, x0)
	if err != nil {
		return nil, err
	}
	fg, ok := p.(problem.FullGradient)
	if !ok {
		return nil, fmt.Errorf("%w: problem %d has no full gradient", ErrCapability, sel)
	}
	spec := NesterovSpec{Problem: fg, Step: step, Momentum: momentum, Iterations: n}
	o, err := spec.New(logger)
	if err != nil {
		return nil, err
	}
	return o.Fit(x0)
}

// OptimizeSGD runs SGD on the selected built-in problem.
func OptimizeSGD(sel problem.Selector, x0 []float64, mu, step float64, n int, rng Source, logger *Logger) (*Result, error) {
	p, x0, err := Build(sel, mu, x0)
	if err != nil {
		return nil, err
	}
	sg, ok := p.(problem.SparseGradient)
	if !ok {
		return nil, fmt.Errorf("%w: problem %d has no sparse gradient", ErrCapability, sel)
	}
	spec := SGDSpec{Problem: sg, Step: step, Iterations: n, Rand: rng}
	o, err := spec.New(logger)
	if err != nil {
		return nil, err
	}
	return o.Fit(x0)
}
