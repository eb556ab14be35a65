// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"math"
	"slices"

	"github.com/curioloop/descent/problem"
)

type approx struct {
	problem.Objective
	spec Gradient
	x    []float64
}

func (a *approx) Gradient(x, g []float64) {
	if len(x) != a.Dim() {
		panic("bound check error")
	}
	a.x = append(a.x[:0], x...)
	if err := a.spec.Diff(a.Evaluate, a.x, g); err != nil {
		panic(err)
	}
}

type approxPenalized struct {
	problem.Penalized
	approx
}

// Approx wraps obj with a finite difference gradient.
// When obj is a problem.Penalized, so is the result.
// The returned value is not safe for concurrent use.
func Approx(obj problem.Objective, method Method) problem.FullGradient {
	spec := Gradient{Method: method}
	if p, ok := obj.(problem.Penalized); ok {
		return &approxPenalized{Penalized: p, approx: approx{Objective: p, spec: spec}}
	}
	return &approx{Objective: obj, spec: spec}
}

// Check returns the largest relative error between the analytic gradient of
// p at x and its central difference estimate.
func Check(p problem.FullGradient, x []float64) float64 {
	n := p.Dim()
	want, got := make([]float64, n), make([]float64, n)
	p.Gradient(x, got)
	spec := Gradient{Method: Central}
	if err := spec.Diff(p.Evaluate, slices.Clone(x), want); err != nil {
		panic(err)
	}
	var maxErr float64
	for i := range want {
		e := math.Abs(want[i]-got[i]) / math.Max(1, math.Abs(want[i]))
		maxErr = max(maxErr, e)
	}
	return maxErr
}
