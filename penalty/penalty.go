// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package penalty turns linear constraint violation into a smooth quadratic
// penalty and supplies its gradient.
//
// Inequality rows 𝐀𝐱 ≤ 𝐛 are soft: they are penalized by 𝜑(r) = 𝚖𝚊𝚡(r,0)²
// of the residual r = 𝐀𝐱 - 𝐛. Equality rows 𝐄𝐱 = 𝐞 are hard: any residual
// r = 𝐄𝐱 - 𝐞 is penalized by 𝜓(r) = r².
//
//	𝛼(𝐱) = Σⱼ 𝜑((𝐀𝐱-𝐛)ⱼ) + Σₖ 𝜓((𝐄𝐱-𝐞)ₖ)
//
// The built-in problems differentiate 𝛼 with PartialGrad, which aggregates
// each kind of row into one coefficient vector. JacobianGrad is the exact
// contraction for any number of rows; it is opt-in library API for callers
// holding the constraint matrices, e.g. from problem.Linear.Matrices.
package penalty

import (
	"gonum.org/v1/gonum/mat"
)

// SquaredRelu returns 𝚖𝚊𝚡(x,0)².
func SquaredRelu(x float64) float64 {
	if x > 0 {
		return x * x
	}
	return 0
}

// SquaredReluGrad returns the derivative of SquaredRelu.
// The value at the kink x = 0 is taken as 0.
func SquaredReluGrad(x float64) float64 {
	if x > 0 {
		return 2 * x
	}
	return 0
}

// Squared returns x².
func Squared(x float64) float64 {
	return x * x
}

// SquaredGrad returns 2x.
func SquaredGrad(x float64) float64 {
	return 2 * x
}

// Alpha returns the total penalty of the soft and hard residuals.
func Alpha(soft, hard []float64) float64 {
	var a, e float64
	for _, r := range soft {
		a += SquaredRelu(r)
	}
	for _, r := range hard {
		e += Squared(r)
	}
	return a + e
}

// PartialGrad returns the gradient of Alpha with respect to 𝐱, given the
// aggregated coefficient vectors of the soft and hard rows:
//
//	∂𝛼/∂xᵢ = Σⱼ 𝜑′(softⱼ)·softCoeffᵢ + Σₖ 𝜓′(hardₖ)·hardCoeffᵢ
//
// This is exact only when every row of a kind shares the same coefficients,
// i.e. a single soft row and a single hard row. Use JacobianGrad when a
// problem carries several independent rows of one kind.
func PartialGrad(soft, hard, softCoeff, hardCoeff []float64) []float64 {
	if len(softCoeff) != len(hardCoeff) {
		panic("coefficient vector dimension mismatch")
	}
	ds, dh := scale(soft, hard)
	g := make([]float64, len(softCoeff))
	for i := range g {
		g[i] = ds*softCoeff[i] + dh*hardCoeff[i]
	}
	return g
}

// PartialAt returns coordinate i of PartialGrad without building the vector.
func PartialAt(soft, hard, softCoeff, hardCoeff []float64, i int) float64 {
	ds, dh := scale(soft, hard)
	var g float64
	if len(softCoeff) > 0 {
		g += ds * softCoeff[i]
	}
	if len(hardCoeff) > 0 {
		g += dh * hardCoeff[i]
	}
	return g
}

func scale(soft, hard []float64) (ds, dh float64) {
	for _, r := range soft {
		ds += SquaredReluGrad(r)
	}
	for _, r := range hard {
		dh += SquaredGrad(r)
	}
	return
}

// JacobianGrad returns the exact gradient of Alpha for linear rows:
//
//	∇𝛼 = 𝐀ᵀ·𝜑′(soft) + 𝐄ᵀ·𝜓′(hard)
//
// where a is the len(soft)×n soft matrix and e the len(hard)×n hard matrix.
// Either matrix may be nil when the problem has no rows of that kind.
func JacobianGrad(soft, hard []float64, a, e mat.Matrix, n int) []float64 {
	g := mat.NewVecDense(n, nil)
	contract := func(m mat.Matrix, res []float64, d func(float64) float64) {
		if m == nil || len(res) == 0 {
			return
		}
		r, c := m.Dims()
		if r != len(res) || c != n {
			panic("jacobian dimension mismatch")
		}
		dr := make([]float64, r)
		for j, v := range res {
			dr[j] = d(v)
		}
		var t mat.VecDense
		t.MulVec(m.T(), mat.NewVecDense(r, dr))
		g.AddVec(g, &t)
	}
	contract(a, soft, SquaredReluGrad)
	contract(e, hard, SquaredGrad)
	return g.RawVector().Data
}
