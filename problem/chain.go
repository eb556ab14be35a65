// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"
	"slices"

	"github.com/curioloop/descent/penalty"
)

// ChainDim is the dimension of the built-in Chain problem.
const ChainDim = 1000

// Chain is the valley chain
//
//	𝒃(𝐱) = Σᵢ₌₀ⁿ⁻² 50(xᵢ₊₁-xᵢ²)² + (1-xᵢ)²
//
// with the single hard row Σxᵢ = n + 1.
//
// Sampling index i touches only the i-th term, so a sparse sample carries
// three components: ∂/∂xᵢ₊₁ and ∂/∂xᵢ of the term, and the penalty partial
// at xᵢ. Valid indices are [0, n-1) because the term reads xᵢ₊₁.
type Chain struct {
	weighted
}

// NewChain creates an n-dimensional Chain with penalty weight mu.
func NewChain(n int, mu float64) (*Chain, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: chain needs n ≥ 2, got %d", ErrConstraintShape, n)
	}
	l, err := NewLinear(n, nil, nil, slices.Repeat([]float64{1}, n), []float64{float64(n + 1)})
	if err != nil {
		return nil, err
	}
	w, err := newWeighted(l, mu)
	if err != nil {
		return nil, err
	}
	return &Chain{w}, nil
}

func (p *Chain) Dim() int { return p.n }

func (p *Chain) Base(x []float64) (f float64) {
	for i := 0; i+1 < len(x); i++ {
		d, r := x[i+1]-x[i]*x[i], 1-x[i]
		f += 50*d*d + r*r
	}
	return
}

func (p *Chain) Evaluate(x []float64) float64 {
	return p.Base(x) + p.PenaltyAt(x)
}

func (p *Chain) Gradient(x, g []float64) {
	if len(x) != p.n || len(g) != p.n {
		panic("bound check error")
	}
	clear(g)
	for i := 0; i+1 < len(x); i++ {
		d := x[i+1] - x[i]*x[i]
		g[i+1] += 100 * d
		g[i] += -200*d*x[i] - 2*(1-x[i])
	}
	p.addPenaltyGrad(x, g)
}

func (p *Chain) Arity() int { return 3 }

func (p *Chain) Span() int { return p.n - 1 }

func (p *Chain) SparseGradient(x []float64, index int, dst []Component) []Component {
	if index < 0 || index >= p.n-1 {
		panic(fmt.Sprintf("sample index %d outside [0, %d)", index, p.n-1))
	}
	pen := penalty.PartialAt(p.SoftResiduals(x), p.HardResiduals(x), p.softCoeff, p.hardCoeff, index)
	d := x[index+1] - x[index]*x[index]
	return append(dst,
		Component{100 * d, index + 1},
		Component{-200*d*x[index] - 2*(1-x[index]), index},
		Component{p.mu * pen, index},
	)
}
