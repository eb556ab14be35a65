// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import "math"

var valleyRows = mustLinear(2,
	[]float64{1, 1}, []float64{5}, // x₀ + x₁ ≤ 5
	[]float64{1, -5}, []float64{2}, // x₀ - 5x₁ = 2
)

// Valley is the non-convex 𝒃(𝐱) = (1-x₀)^{3/2} + 100(x₁-x₀²)² with the
// soft row x₀ + x₁ ≤ 5 and the hard row x₀ - 5x₁ = 2.
//
// 𝒃 is only real for x₀ ≤ 1; beyond that both value and gradient are NaN.
type Valley struct {
	weighted
}

// NewValley creates a Valley with penalty weight mu.
func NewValley(mu float64) (*Valley, error) {
	w, err := newWeighted(valleyRows, mu)
	if err != nil {
		return nil, err
	}
	return &Valley{w}, nil
}

func (p *Valley) Dim() int { return 2 }

func (p *Valley) Base(x []float64) float64 {
	d := x[1] - x[0]*x[0]
	return math.Pow(1-x[0], 1.5) + 100*d*d
}

func (p *Valley) Evaluate(x []float64) float64 {
	return p.Base(x) + p.PenaltyAt(x)
}

func (p *Valley) Gradient(x, g []float64) {
	if len(x) != 2 || len(g) != 2 {
		panic("bound check error")
	}
	d := x[1] - x[0]*x[0]
	g[0] = -1.5*math.Sqrt(1-x[0]) - 400*d*x[0]
	g[1] = 200 * d
	p.addPenaltyGrad(x, g)
}
