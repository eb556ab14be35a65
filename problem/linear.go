// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/descent/penalty"
)

// Linear holds the constraint rows 𝐀𝐱 ≤ 𝐛 and 𝐄𝐱 = 𝐞 of an n-dimensional problem.
// It is immutable once built.
type Linear struct {
	n     int
	a, e  *mat.Dense // nil when there are no rows of that kind
	b, ev []float64
	// aggregated coefficient vectors: the rows of 𝐀 and 𝐄 summed
	softCoeff, hardCoeff []float64
}

// NewLinear builds the constraint rows from row-major matrices.
// A has len(b) rows and E has len(e) rows, each of length n.
func NewLinear(n int, A, b, E, e []float64) (*Linear, error) {
	switch {
	case n <= 0:
		return nil, fmt.Errorf("%w: n=%d", ErrConstraintShape, n)
	case len(A) != len(b)*n:
		return nil, fmt.Errorf("%w: soft rows have %d coefficients, want %d", ErrConstraintShape, len(A), len(b)*n)
	case len(E) != len(e)*n:
		return nil, fmt.Errorf("%w: hard rows have %d coefficients, want %d", ErrConstraintShape, len(E), len(e)*n)
	}
	l := &Linear{
		n:         n,
		b:         slices.Clone(b),
		ev:        slices.Clone(e),
		softCoeff: make([]float64, n),
		hardCoeff: make([]float64, n),
	}
	if len(b) > 0 {
		l.a = mat.NewDense(len(b), n, slices.Clone(A))
		for i := range b {
			floats.Add(l.softCoeff, l.a.RawRowView(i))
		}
	}
	if len(e) > 0 {
		l.e = mat.NewDense(len(e), n, slices.Clone(E))
		for i := range e {
			floats.Add(l.hardCoeff, l.e.RawRowView(i))
		}
	}
	return l, nil
}

func mustLinear(n int, A, b, E, e []float64) *Linear {
	l, err := NewLinear(n, A, b, E, e)
	if err != nil {
		panic(err)
	}
	return l
}

// NumSoft returns the number of inequality rows.
func (l *Linear) NumSoft() int { return len(l.b) }

// NumHard returns the number of equality rows.
func (l *Linear) NumHard() int { return len(l.ev) }

// SoftCoeff returns a copy of the aggregated inequality coefficients.
func (l *Linear) SoftCoeff() []float64 { return slices.Clone(l.softCoeff) }

// HardCoeff returns a copy of the aggregated equality coefficients.
func (l *Linear) HardCoeff() []float64 { return slices.Clone(l.hardCoeff) }

// SoftResiduals returns 𝐀𝐱 - 𝐛.
func (l *Linear) SoftResiduals(x []float64) []float64 {
	return residual(l.a, l.b, x)
}

// HardResiduals returns 𝐄𝐱 - 𝐞.
func (l *Linear) HardResiduals(x []float64) []float64 {
	return residual(l.e, l.ev, x)
}

// Matrices returns the soft and hard rows for an exact Jacobian contraction.
// Either may be nil.
func (l *Linear) Matrices() (A, E mat.Matrix) {
	if l.a != nil {
		A = l.a
	}
	if l.e != nil {
		E = l.e
	}
	return
}

func residual(m *mat.Dense, rhs, x []float64) []float64 {
	r := make([]float64, len(rhs))
	if m == nil {
		return r
	}
	_, n := m.Dims()
	if len(x) != n {
		panic("bound check error")
	}
	mat.NewVecDense(len(r), r).MulVec(m, mat.NewVecDense(n, x))
	floats.Sub(r, rhs)
	return r
}

// weighted pairs constraint rows with a penalty weight 𝜇.
type weighted struct {
	*Linear
	mu float64
}

func newWeighted(l *Linear, mu float64) (weighted, error) {
	if math.IsNaN(mu) || math.IsInf(mu, 0) || mu < 0 {
		return weighted{}, fmt.Errorf("%w: %v", ErrPenaltyWeight, mu)
	}
	return weighted{Linear: l, mu: mu}, nil
}

// Mu returns the penalty weight.
func (w weighted) Mu() float64 { return w.mu }

// PenaltyAt returns 𝜇·𝛼(𝐀𝐱-𝐛, 𝐄𝐱-𝐞).
func (w weighted) PenaltyAt(x []float64) float64 {
	// the conversion forbids fusing the product into the caller's sum
	return float64(w.mu * penalty.Alpha(w.SoftResiduals(x), w.HardResiduals(x)))
}

// addPenaltyGrad accumulates 𝜇·∇𝛼 into g.
func (w weighted) addPenaltyGrad(x, g []float64) {
	pg := penalty.PartialGrad(w.SoftResiduals(x), w.HardResiduals(x), w.softCoeff, w.hardCoeff)
	floats.AddScaled(g, w.mu, pg)
}
