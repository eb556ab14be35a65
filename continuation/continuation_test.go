// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package continuation

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

func bowl(mu float64) (problem.Penalized, error) {
	p, err := problem.NewBowl(mu)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func chain(n int) Builder {
	return func(mu float64) (problem.Penalized, error) {
		p, err := problem.NewChain(n, mu)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func TestBowlReachesFeasibility(t *testing.T) {
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-3, Step: 0.1}
	path, err := Solve(bowl, []float64{0, 0}, cfg, NesterovSolver{Momentum: 0.1, Iterations: 100, Guard: true})
	require.NoError(t, err)

	assert.True(t, path.Converged)
	assert.Greater(t, path.Rounds, 1)
	assert.Less(t, path.Rounds, DefaultMaxRounds)
	require.Len(t, path.X, path.Rounds+1)
	require.Len(t, path.Base, path.Rounds+1)
	require.Len(t, path.Penalty, path.Rounds+1)
	assert.Equal(t, []float64{0, 0}, path.X[0])
	assert.Zero(t, path.Base[0])
	assert.Equal(t, 1.0, path.Mu[0])
	assert.Equal(t, math.Pow(2, float64(path.Rounds)), path.Mu[path.Rounds])

	last := path.X[path.Rounds]
	assert.InDeltaSlice(t, []float64{-50, -50}, last, 1e-2)
	assert.InDelta(t, 5000, path.Base[path.Rounds], 1)
	assert.Less(t, path.Penalty[path.Rounds], cfg.Eps)
}

func TestFeasibleStartSkipsRounds(t *testing.T) {
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-3, Step: 0.1}
	path, err := Solve(bowl, []float64{-60, -60}, cfg, NesterovSolver{Iterations: 10})
	require.NoError(t, err)
	assert.True(t, path.Converged)
	assert.Zero(t, path.Rounds)
	assert.Len(t, path.X, 1)
}

func TestMaxRounds(t *testing.T) {
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-9, Step: 0.1, MaxRounds: 3}
	path, err := Solve(bowl, []float64{0, 0}, cfg, NesterovSolver{Iterations: 50})
	require.NoError(t, err)
	assert.False(t, path.Converged)
	assert.Equal(t, 3, path.Rounds)
	assert.Equal(t, []float64{1, 2, 4, 8}, path.Mu)
}

func TestSGDContinuation(t *testing.T) {
	const n = 10
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-3, Step: 1e-3, MaxRounds: 12}
	solver := SGDSolver{Iterations: 5000, Rand: rand.New(rand.NewPCG(5, 8)), Guard: true}
	path, err := Solve(chain(n), slices.Repeat([]float64{1}, n), cfg, solver)
	require.NoError(t, err)

	assert.Positive(t, path.Rounds)
	for _, x := range path.X {
		assert.False(t, math.IsNaN(floats.Sum(x)))
	}
	assert.Less(t, path.Penalty[path.Rounds], path.Penalty[0])
}

func TestSolverCapability(t *testing.T) {
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-3, Step: 0.1}
	path, err := Solve(bowl, []float64{0, 0}, cfg, SGDSolver{Iterations: 10})
	require.ErrorIs(t, err, descent.ErrCapability)
	require.NotNil(t, path)
	assert.Len(t, path.X, 1)
}

func TestInnerFailure(t *testing.T) {
	valley := func(mu float64) (problem.Penalized, error) {
		p, err := problem.NewValley(mu)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	cfg := Config{Mu0: 1, Growth: 2, Eps: 1e-3, Step: 0.1}
	_, err := Solve(valley, []float64{2, 1}, cfg, NesterovSolver{Iterations: 10, Guard: true})
	assert.ErrorIs(t, err, descent.ErrNonFinite)
}

func TestConfigErrors(t *testing.T) {
	solver := NesterovSolver{Iterations: 1}
	for name, cfg := range map[string]Config{
		"mu0":    {Mu0: 0, Growth: 2, Eps: 1, Step: 1},
		"growth": {Mu0: 1, Growth: 1, Eps: 1, Step: 1},
		"eps":    {Mu0: 1, Growth: 2, Eps: math.NaN(), Step: 1},
		"step":   {Mu0: 1, Growth: 2, Eps: 1, Step: -1},
		"rounds": {Mu0: 1, Growth: 2, Eps: 1, Step: 1, MaxRounds: -1},
	} {
		_, err := Solve(bowl, []float64{0, 0}, cfg, solver)
		assert.ErrorIs(t, err, ErrConfig, name)
	}

	cfg := Config{Mu0: 1, Growth: 2, Eps: 1, Step: 1}
	_, err := Solve(nil, []float64{0, 0}, cfg, solver)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = Solve(bowl, []float64{0, 0}, cfg, nil)
	assert.ErrorIs(t, err, ErrConfig)

	assert.NotPanics(t, func() {
		path, err := Solve(bowl, []float64{0, 0, 0}, cfg, solver)
		assert.ErrorIs(t, err, descent.ErrDimension)
		assert.Nil(t, path)
	})
}
