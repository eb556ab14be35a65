// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package penalty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var samples = []float64{-1e3, -7.5, -1, -1e-3, 0, 1e-3, 0.5, 1, 3.25, 1e3}

func centralDiff(f func(float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

func TestSquaredRelu(t *testing.T) {
	for _, x := range samples {
		v := SquaredRelu(x)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, x <= 0, v == 0, "x=%v", x)
		if x != 0 {
			assert.InDelta(t, centralDiff(SquaredRelu, x), SquaredReluGrad(x), 1e-4*math.Max(1, math.Abs(x)), "x=%v", x)
		}
	}
	assert.Equal(t, 0.0, SquaredReluGrad(0))
}

func TestSquared(t *testing.T) {
	for _, x := range samples {
		v := Squared(x)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Equal(t, x == 0, v == 0, "x=%v", x)
		assert.Equal(t, 2*x, SquaredGrad(x))
	}
}

func TestAlpha(t *testing.T) {
	cases := []struct {
		name       string
		soft, hard []float64
		zero       bool
	}{
		{"empty", nil, nil, true},
		{"satisfied", []float64{-1, 0}, []float64{0}, true},
		{"soft violated", []float64{-1, 0.5}, []float64{0}, false},
		{"hard violated below", []float64{-1}, []float64{-0.5}, false},
		{"hard violated above", nil, []float64{2}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := Alpha(c.soft, c.hard)
			assert.GreaterOrEqual(t, a, 0.0)
			assert.Equal(t, c.zero, a == 0)
		})
	}
	assert.Equal(t, 0.25+4.0, Alpha([]float64{0.5, -3}, []float64{-2}))
}

func TestPartialGrad(t *testing.T) {
	soft, hard := []float64{3}, []float64{-2}
	a, e := []float64{1, 1}, []float64{1, -5}

	g := PartialGrad(soft, hard, a, e)
	require.Len(t, g, 2)
	assert.Equal(t, []float64{6 - 4, 6 + 20}, g)

	for i := range g {
		assert.Equal(t, g[i], PartialAt(soft, hard, a, e, i))
	}

	// An inactive soft row contributes nothing.
	assert.Equal(t, []float64{-4, 20}, PartialGrad([]float64{-3}, hard, a, e))
	assert.Equal(t, 1.5, PartialAt(nil, []float64{0.75}, nil, []float64{1, 1, 1}, 2))
	assert.Panics(t, func() { PartialGrad(soft, hard, a, []float64{1}) })
}

func TestJacobianGradSingleRow(t *testing.T) {
	x := []float64{0.3, -1.2}
	A := mat.NewDense(1, 2, []float64{1, 1})
	E := mat.NewDense(1, 2, []float64{1, -5})
	soft := []float64{x[0] + x[1] - 5}
	hard := []float64{x[0] - 5*x[1] - 2}

	got := JacobianGrad(soft, hard, A, E, 2)
	want := PartialGrad(soft, hard, []float64{1, 1}, []float64{1, -5})
	assert.InDeltaSlice(t, want, got, 1e-12)

	assert.Equal(t, []float64{0, 0}, JacobianGrad(nil, nil, nil, nil, 2))
}

func TestJacobianGradMultiRow(t *testing.T) {
	// Two violated soft rows with differing coefficients: the aggregated
	// shortcut disagrees with the exact contraction.
	A := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 2,
	})
	soft := []float64{1, 3}

	exact := JacobianGrad(soft, nil, A, nil, 2)
	assert.InDeltaSlice(t, []float64{2, 12}, exact, 1e-12)

	shortcut := PartialGrad(soft, nil, []float64{1, 2}, []float64{0, 0})
	assert.NotEqual(t, exact, shortcut)

	assert.Panics(t, func() { JacobianGrad([]float64{1}, nil, A, nil, 2) })
}
