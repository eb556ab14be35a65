// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package descent

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/curioloop/descent/problem"
)

// Source draws uniform indices. *rand.Rand satisfies it.
// Drawing mutates the source, so concurrent runs must not share one.
type Source interface {
	IntN(n int) int
}

// SGDSpec specifies a run of randomized sparse gradient descent.
// Each iteration draws i uniformly from [0, Problem.Span()) and applies
//
//	xⱼ ← xⱼ - 𝛼·gⱼ for every component (gⱼ, j) of Problem.SparseGradient(𝐱, i)
//
// so only the touched coordinates move.
type SGDSpec struct {
	Problem    problem.SparseGradient
	Step       float64 // 𝛼
	Iterations int
	// Rand is the index source. A nil Rand gets a fresh randomly seeded
	// generator on every Fit.
	Rand Source
	// Guard stops the run at the first non-finite coordinate.
	Guard bool
}

// New validates s and creates an SGD optimizer.
func (s *SGDSpec) New(logger *Logger) (optimizer *SGDOptimizer, err error) {
	switch {
	case s.Problem == nil:
		err = errors.New("problem is required")
	case s.Problem.Dim() <= 0:
		err = errors.New("problem dimension must greater than 0")
	case s.Problem.Span() <= 0 || s.Problem.Span() > s.Problem.Dim():
		err = fmt.Errorf("sample span %d outside (0, %d]", s.Problem.Span(), s.Problem.Dim())
	case s.Problem.Arity() <= 0:
		err = errors.New("sparse gradient arity must greater than 0")
	case s.Iterations < 0:
		err = errors.New("iterations must not less than 0")
	default:
		err = checkReal("step", s.Step)
	}
	if err != nil {
		if !errors.Is(err, ErrArgument) {
			err = fmt.Errorf("%w: %w", ErrArgument, err)
		}
		return
	}
	optimizer = &SGDOptimizer{
		spec:   *s,
		n:      s.Problem.Dim(),
		logger: newLogger(logger),
	}
	return
}

// SGDOptimizer runs a validated SGDSpec.
type SGDOptimizer struct {
	spec   SGDSpec
	n      int
	logger Logger
}

// Fit runs exactly Iterations sampled steps from x0. x0 is not modified.
// Runs are reproducible when Rand yields the same index sequence.
//
// With Guard set, a non-finite coordinate ends the run early and Fit returns
// the partial result together with ErrNonFinite.
func (o *SGDOptimizer) Fit(x0 []float64) (*Result, error) {
	if len(x0) != o.n {
		return nil, fmt.Errorf("%w: initial x has %d elements, problem has %d", ErrDimension, len(x0), o.n)
	}

	p, log := o.spec.Problem, &o.logger
	rng := o.spec.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	alpha, span := o.spec.Step, p.Span()

	cur := slices.Clone(x0)
	if o.spec.Guard && !finite(cur...) {
		return &Result{X: cur, F: p.Evaluate(cur), Summary: Summary{Status: NonFinite}},
			fmt.Errorf("%w: initial x", ErrNonFinite)
	}

	sum := Summary{Status: Completed}
	buf := make([]problem.Component, 0, p.Arity())
	for k := 1; k <= o.spec.Iterations; k++ {
		buf = p.SparseGradient(cur, rng.IntN(span), buf[:0])
		sum.NumGrad++
		for _, c := range buf {
			cur[c.Index] -= alpha * c.Value
		}
		sum.NumIter = k

		if log.every(k) {
			log.log("sgd iter %d f %v\n", k, p.Evaluate(cur))
			if log.enable(LogVerbose) {
				log.out("touched = %v\n", buf)
			}
		}

		if o.spec.Guard {
			if !touchedFinite(cur, buf) {
				sum.Status = NonFinite
				break
			}
		}
	}

	res := finish(p.Evaluate, cur, sum)
	if log.enable(LogLast) {
		log.log("sgd %s after %d iterations f %v\n", res.Status, res.NumIter, res.F)
	}
	if o.spec.Guard && !res.OK {
		return res, fmt.Errorf("%w: sgd iteration %d", ErrNonFinite, res.NumIter)
	}
	return res, nil
}

func touchedFinite(x []float64, comps []problem.Component) bool {
	for _, c := range comps {
		if !finite(x[c.Index]) {
			return false
		}
	}
	return true
}

// SGD minimizes p from x0 with the given step for n sampled iterations
// drawing indices from rng, and returns the final point and objective value.
func SGD(p problem.SparseGradient, x0 []float64, step float64, n int, rng Source) ([]float64, float64, error) {
	spec := SGDSpec{Problem: p, Step: step, Iterations: n, Rand: rng}
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
