// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff estimates gradients of scalar objectives by finite differences.
package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

func (m Method) String() string {
	switch m {
	case Forward:
		return "forward"
	case Central:
		return "central"
	default:
		return "unknown"
	}
}

// Gradient estimates ∇𝒇(𝐱) of a scalar function 𝒇 : ℝⁿ → ℝ.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// A Gradient keeps a step buffer and is not safe for concurrent use.
type Gradient struct {
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = RelStep * sign(x0) * max(1, abs(x0)) with RelStep being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x0) * abs(x0) when RelStep is provided.
	RelStep float64
	// Absolute step size to use.
	// The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
	absStep []float64
}

// Check the parameters and size the step buffer.
func (gs *Gradient) Check(fun func([]float64) float64, x0, grad []float64) error {
	switch {
	case len(x0) == 0:
		return errors.New("empty x0")
	case gs.Method != Forward && gs.Method != Central:
		return errors.New("unknown method")
	case fun == nil:
		return errors.New("object function is required")
	case len(grad) != len(x0):
		return errors.New("invalid grad dimensions")
	}
	if len(gs.absStep) != len(x0) {
		gs.absStep = make([]float64, len(x0))
	}
	return nil
}

// Diff stores the finite difference estimate of ∇fun(x0) into grad.
// x0 is perturbed in place during the evaluation and restored afterwards.
func (gs *Gradient) Diff(fun func([]float64) float64, x0, grad []float64) error {
	if err := gs.Check(fun, x0, grad); err != nil {
		return err
	}

	gs.absoluteStep(x0)

	if gs.Method == Central {
		for i, v := range gs.absStep {
			gs.absStep[i] = math.Abs(v)
		}
		gs.approxCentral(fun, x0, grad)
	} else {
		gs.approxForward(fun, x0, grad)
	}
	return nil
}

func (gs *Gradient) absoluteStep(x0 []float64) {
	h := gs.absStep
	if len(h) != len(x0) {
		panic("bound check error")
	}

	var eps float64
	switch gs.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	default:
		panic("unknown method")
	}

	abs, rel := gs.AbsStep, gs.RelStep
	if abs == 0 && rel == 0 {
		for i, v := range x0 {
			h[i] = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		return
	}
	for i, v := range x0 {
		s := abs
		if s == 0 {
			s = math.Copysign(rel, v) * math.Abs(v)
		}
		// fall back when the step vanishes in x0 + s
		if (v+s)-v == 0 {
			s = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		h[i] = s
	}
}

func (gs *Gradient) approxForward(fun func([]float64) float64, x0, df []float64) {
	f0 := fun(x0)
	for i, s := range gs.absStep {
		t := x0[i]
		x0[i] = t + s
		df[i] = (fun(x0) - f0) / s
		x0[i] = t
	}
}

func (gs *Gradient) approxCentral(fun func([]float64) float64, x0, df []float64) {
	for i, s := range gs.absStep {
		t := x0[i]
		x0[i] = t - s
		f1 := fun(x0)
		x0[i] = t + s
		f2 := fun(x0)
		df[i] = (f2 - f1) / (2 * s)
		x0[i] = t
	}
}
