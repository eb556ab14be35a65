// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"errors"
	"fmt"
	"slices"

	"github.com/curioloop/descent/problem"
)

// NesterovSpec specifies a run of momentum accelerated gradient descent:
//
//	𝐯ₖ = 𝐱ₖ + 𝛽(𝐱ₖ - 𝐱ₖ₋₁)
//	𝐱ₖ₊₁ = 𝐯ₖ - 𝛼∇𝒇(𝐯ₖ)
//
// starting from 𝐱₀ = 𝐱₋₁. Step and Momentum are not tuned or checked for
// stability; choosing them is left to the caller.
type NesterovSpec struct {
	Problem    problem.FullGradient
	Step       float64 // 𝛼
	Momentum   float64 // 𝛽
	Iterations int
	// Guard stops the run at the first non-finite point.
	Guard bool
}

// New validates s and creates a Nesterov optimizer.
func (s *NesterovSpec) New(logger *Logger) (optimizer *NesterovOptimizer, err error) {
	switch {
	case s.Problem == nil:
		err = errors.New("problem is required")
	case s.Problem.Dim() <= 0:
		err = errors.New("problem dimension must greater than 0")
	case s.Iterations < 0:
		err = errors.New("iterations must not less than 0")
	default:
		err = errors.Join(checkReal("step", s.Step), checkReal("momentum", s.Momentum))
	}
	if err != nil {
		if !errors.Is(err, ErrArgument) {
			err = fmt.Errorf("%w: %w", ErrArgument, err)
		}
		return
	}
	optimizer = &NesterovOptimizer{
		spec:   *s,
		n:      s.Problem.Dim(),
		logger: newLogger(logger),
	}
	return
}

// NesterovOptimizer runs a validated NesterovSpec.
// Fit holds no state between calls, so one optimizer may serve concurrent
// fits as long as its problem is safe for concurrent use.
type NesterovOptimizer struct {
	spec   NesterovSpec
	n      int
	logger Logger
}

// Fit runs exactly Iterations steps from x0. x0 is not modified.
//
// With Guard set, a non-finite point ends the run early and Fit returns the
// partial result together with ErrNonFinite.
func (o *NesterovOptimizer) Fit(x0 []float64) (*Result, error) {
	if len(x0) != o.n {
		return nil, fmt.Errorf("%w: initial x has %d elements, problem has %d", ErrDimension, len(x0), o.n)
	}

	p, log := o.spec.Problem, &o.logger
	alpha, beta := o.spec.Step, o.spec.Momentum

	cur, prev := slices.Clone(x0), slices.Clone(x0)
	v, g := make([]float64, o.n), make([]float64, o.n)

	if o.spec.Guard && !finite(cur...) {
		return &Result{X: cur, F: p.Evaluate(cur), Summary: Summary{Status: NonFinite}},
			fmt.Errorf("%w: initial x", ErrNonFinite)
	}

	sum := Summary{Status: Completed}
	for k := 1; k <= o.spec.Iterations; k++ {
		for i := range v {
			v[i] = cur[i] + beta*(cur[i]-prev[i])
		}
		p.Gradient(v, g)
		sum.NumGrad++

		// the old previous buffer is overwritten with the new point
		prev, cur = cur, prev
		for i := range cur {
			cur[i] = v[i] - alpha*g[i]
		}
		sum.NumIter = k

		if log.every(k) {
			log.log("nesterov iter %d f %v\n", k, p.Evaluate(cur))
			if log.enable(LogVerbose) {
				log.out("x = %v\n", cur)
			}
		}

		if o.spec.Guard && !finite(cur...) {
			sum.Status = NonFinite
			break
		}
	}

	res := finish(p.Evaluate, cur, sum)
	if log.enable(LogLast) {
		log.log("nesterov %s after %d iterations f %v\n", res.Status, res.NumIter, res.F)
	}
	if o.spec.Guard && !res.OK {
		return res, fmt.Errorf("%w: nesterov iteration %d", ErrNonFinite, res.NumIter)
	}
	return res, nil
}

// Nesterov minimizes p from x0 with the given step and momentum for n
// iterations and returns the final point and objective value there.
func Nesterov(p problem.FullGradient, x0 []float64, step, momentum float64, n int) ([]float64, float64, error) {
	spec := NesterovSpec{Problem: p, Step: step, Momentum: momentum, Iterations: n}
	o, err := spec.New(nil)
	if err != nil {
		return nil, 0, err
	}
	r, err := o.Fit(x0)
	if err != nil {
		return nil, 0, err
	}
	return r.X, r.F, nil
}
