// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package continuation drives a penalized problem towards feasibility by
// solving it repeatedly with a growing penalty weight.
//
// Each round solves 𝒃(𝐱) + 𝜇ₖ𝛼(𝐱) from the previous solution with step 𝛼ₖ,
// then sets 𝜇ₖ₊₁ = 𝛾𝜇ₖ and 𝛼ₖ₊₁ = 𝛼ₖ/𝛾. Rounds continue while 𝜇ₖ𝛼(𝐱ₖ) ≥ 𝜀.
package continuation

import (
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

// DefaultMaxRounds bounds the number of rounds when Config.MaxRounds is 0.
const DefaultMaxRounds = 64

// ErrConfig reports an invalid continuation setting.
var ErrConfig = errors.New("invalid continuation config")

// Builder creates the penalized problem for a penalty weight.
type Builder func(mu float64) (problem.Penalized, error)

// Solver runs one inner minimization.
type Solver interface {
	Solve(p problem.Penalized, x0 []float64, step float64) (*descent.Result, error)
}

// Config controls the outer loop.
type Config struct {
	Mu0       float64 // initial penalty weight 𝜇₀ > 0
	Growth    float64 // weight growth factor 𝛾 > 1
	Eps       float64 // feasibility tolerance 𝜀 > 0 on 𝜇𝛼(𝐱)
	Step      float64 // initial inner step 𝛼₀ > 0
	MaxRounds int     // 0 selects DefaultMaxRounds
}

// Path records the iterates of the outer loop, starting with the initial point.
type Path struct {
	X       [][]float64
	Base    []float64 // base objective 𝒃(𝐱) of each iterate
	Penalty []float64 // 𝜇𝛼(𝐱) of each iterate at the weight of the next round
	Mu      []float64 // weight that Penalty was measured with
	Rounds  int
	// Converged reports whether the last penalty fell below Eps.
	Converged bool
}

func (c *Config) check() error {
	switch {
	case !(c.Mu0 > 0) || math.IsInf(c.Mu0, 0):
		return errors.Wrapf(ErrConfig, "mu0 must be positive and finite, got %v", c.Mu0)
	case !(c.Growth > 1) || math.IsInf(c.Growth, 0):
		return errors.Wrapf(ErrConfig, "growth must be greater than 1, got %v", c.Growth)
	case !(c.Eps > 0):
		return errors.Wrapf(ErrConfig, "eps must be positive, got %v", c.Eps)
	case !(c.Step > 0) || math.IsInf(c.Step, 0):
		return errors.Wrapf(ErrConfig, "step must be positive and finite, got %v", c.Step)
	case c.MaxRounds < 0:
		return errors.Wrapf(ErrConfig, "max rounds must not be negative, got %d", c.MaxRounds)
	}
	return nil
}

// Solve runs the continuation loop from x0.
// On an inner failure the path so far is returned with the error.
func Solve(build Builder, x0 []float64, cfg Config, solver Solver) (*Path, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if build == nil || solver == nil {
		return nil, errors.Wrap(ErrConfig, "builder and solver are required")
	}
	rounds := cfg.MaxRounds
	if rounds == 0 {
		rounds = DefaultMaxRounds
	}

	mu, step := cfg.Mu0, cfg.Step
	p, err := build(mu)
	if err != nil {
		return nil, errors.Wrapf(err, "build problem with mu %v", mu)
	}
	if len(x0) != p.Dim() {
		return nil, errors.Wrapf(descent.ErrDimension, "initial x has %d elements, problem has %d", len(x0), p.Dim())
	}
	x := slices.Clone(x0)

	path := new(Path)
	record := func() float64 {
		pen := p.PenaltyAt(x)
		path.X = append(path.X, x)
		path.Base = append(path.Base, p.Base(x))
		path.Penalty = append(path.Penalty, pen)
		path.Mu = append(path.Mu, mu)
		return pen
	}

	pen := record()
	for pen >= cfg.Eps && path.Rounds < rounds {
		res, err := solver.Solve(p, x, step)
		if err != nil {
			return path, errors.Wrapf(err, "round %d with mu %v", path.Rounds+1, mu)
		}
		x = res.X
		path.Rounds++

		mu *= cfg.Growth
		step /= cfg.Growth
		if p, err = build(mu); err != nil {
			return path, errors.Wrapf(err, "build problem with mu %v", mu)
		}
		pen = record()
	}
	path.Converged = pen < cfg.Eps
	return path, nil
}

// NesterovSolver solves each round with descent.NesterovSpec.
type NesterovSolver struct {
	Momentum   float64
	Iterations int
	Guard      bool
	Logger     *descent.Logger
}

func (s NesterovSolver) Solve(p problem.Penalized, x0 []float64, step float64) (*descent.Result, error) {
	fg, ok := p.(problem.FullGradient)
	if !ok {
		return nil, errors.Wrap(descent.ErrCapability, "nesterov needs a full gradient")
	}
	spec := descent.NesterovSpec{Problem: fg, Step: step, Momentum: s.Momentum, Iterations: s.Iterations, Guard: s.Guard}
	o, err := spec.New(s.Logger)
	if err != nil {
		return nil, err
	}
	return o.Fit(x0)
}

// SGDSolver solves each round with descent.SGDSpec, drawing from one
// shared source across rounds.
type SGDSolver struct {
	Iterations int
	Rand       descent.Source
	Guard      bool
	Logger     *descent.Logger
}

func (s SGDSolver) Solve(p problem.Penalized, x0 []float64, step float64) (*descent.Result, error) {
	sg, ok := p.(problem.SparseGradient)
	if !ok {
		return nil, errors.Wrap(descent.ErrCapability, "sgd needs a sparse gradient")
	}
	spec := descent.SGDSpec{Problem: sg, Step: step, Iterations: s.Iterations, Rand: s.Rand, Guard: s.Guard}
	o, err := spec.New(s.Logger)
	if err != nil {
		return nil, err
	}
	return o.Fit(x0)
}
