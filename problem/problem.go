// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problem defines the capabilities an optimizer asks of a problem
// and the built-in penalized problems.
//
// A problem is any value that satisfies the capability an optimizer needs:
//   - Objective : 𝒇(𝐱) : ℝⁿ → ℝ
//   - FullGradient : 𝒇′(𝐱) : ℝⁿ → ℝⁿ
//   - SparseGradient : the few partials touched by one sampled index
//
// Constrained problems also expose ConstraintInfo, and evaluate as
//
//	𝒇(𝐱) = 𝒃(𝐱) + 𝜇·𝛼(𝐀𝐱-𝐛, 𝐄𝐱-𝐞)
//
// with 𝒃 the base objective and 𝛼 the penalty of package penalty.
package problem

import (
	"errors"
)

var (
	// ErrPenaltyWeight reports a penalty weight that is negative or not finite.
	ErrPenaltyWeight = errors.New("penalty weight must be finite and not less than 0")
	// ErrUnknownSelector reports a selector that names no built-in problem.
	ErrUnknownSelector = errors.New("unknown problem selector")
	// ErrConstraintShape reports constraint rows that do not fit the dimension.
	ErrConstraintShape = errors.New("constraint shape does not match dimension")
)

// Objective evaluates a function of a fixed-dimension point.
// Evaluate must be a pure function of x and the receiver.
type Objective interface {
	Dim() int
	Evaluate(x []float64) float64
}

// FullGradient is an Objective with an exact dense gradient.
type FullGradient interface {
	Objective
	// Gradient stores 𝒇′(x) into g, which has length Dim().
	Gradient(x, g []float64)
}

// Component is one partial derivative of a sparse gradient.
type Component struct {
	Value float64
	Index int
}

// SparseGradient is an Objective whose gradient can be sampled a few
// coordinates at a time.
type SparseGradient interface {
	Objective
	// Arity is the number of components returned per sample.
	Arity() int
	// Span is the exclusive upper bound of valid sample indices.
	Span() int
	// SparseGradient appends the Arity() components touched by index to dst.
	SparseGradient(x []float64, index int, dst []Component) []Component
}

// ConstraintInfo describes the linear rows folded into a penalized objective.
type ConstraintInfo interface {
	// SoftCoeff is the column sum of the inequality rows.
	SoftCoeff() []float64
	// HardCoeff is the column sum of the equality rows.
	HardCoeff() []float64
	// SoftResiduals returns 𝐀𝐱 - 𝐛.
	SoftResiduals(x []float64) []float64
	// HardResiduals returns 𝐄𝐱 - 𝐞.
	HardResiduals(x []float64) []float64
	// PenaltyAt returns 𝜇·𝛼(𝐀𝐱-𝐛, 𝐄𝐱-𝐞).
	PenaltyAt(x []float64) float64
}

// Penalized is an objective built as a base function plus a constraint penalty.
type Penalized interface {
	Objective
	ConstraintInfo
	// Base evaluates the objective without the penalty term.
	Base(x []float64) float64
	// Mu returns the penalty weight.
	Mu() float64
}
