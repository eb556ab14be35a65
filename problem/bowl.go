// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"gonum.org/v1/gonum/floats"
)

var bowlRows = mustLinear(2,
	[]float64{1, 1}, []float64{-100}, // x₀ + x₁ ≤ -100
	nil, nil,
)

// Bowl is the quadratic 𝒃(𝐱) = x₀² + x₁² with the soft row x₀ + x₁ + 100 ≤ 0.
type Bowl struct {
	weighted
}

// NewBowl creates a Bowl with penalty weight mu.
func NewBowl(mu float64) (*Bowl, error) {
	w, err := newWeighted(bowlRows, mu)
	if err != nil {
		return nil, err
	}
	return &Bowl{w}, nil
}

func (p *Bowl) Dim() int { return 2 }

func (p *Bowl) Base(x []float64) float64 {
	return floats.Dot(x, x)
}

func (p *Bowl) Evaluate(x []float64) float64 {
	return p.Base(x) + p.PenaltyAt(x)
}

func (p *Bowl) Gradient(x, g []float64) {
	if len(x) != 2 || len(g) != 2 {
		panic("bound check error")
	}
	for i, v := range x {
		g[i] = 2 * v
	}
	p.addPenaltyGrad(x, g)
}
