// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/descent/continuation"
	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := RootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProblems(t *testing.T) {
	out, err := execute(t, "problems")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^1\s+bowl\s+2\s+full$`, lines[1])
	assert.Regexp(t, `^2\s+valley\s+2\s+full$`, lines[2])
	assert.Regexp(t, `^3\s+chain\s+1000\s+full,sparse$`, lines[3])
}

func TestNesterov(t *testing.T) {
	tests := map[string][]string{
		"analytic": {"nesterov", "--x0", "3,5", "--iterations", "200"},
		"numeric":  {"nesterov", "--x0", "3,5", "--iterations", "200", "--numeric-grad"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, "status: completed\n")
			assert.Contains(t, out, "iterations: 200\n")
			assert.Contains(t, out, "x: [-33.33")
		})
	}
}

func TestErrors(t *testing.T) {
	tests := map[string]struct {
		args []string
		want error
	}{
		"unknown problem": {[]string{"nesterov", "--problem", "9"}, problem.ErrUnknownSelector},
		"no sparse":       {[]string{"sgd", "--problem", "1"}, descent.ErrCapability},
		"dimension":       {[]string{"nesterov", "--x0", "1,2,3"}, descent.ErrDimension},
		"weight":          {[]string{"nesterov", "--mu", "-1"}, problem.ErrPenaltyWeight},
		"step":            {[]string{"nesterov", "--step", "NaN"}, descent.ErrArgument},
		"growth":          {[]string{"penalty", "--growth", "1"}, continuation.ErrConfig},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, test.args...)
			assert.ErrorIs(t, err, test.want)
		})
	}

	_, err := execute(t, "penalty", "--solver", "newton")
	assert.ErrorContains(t, err, "unknown solver")
	_, err = execute(t, "sweep", "--parallel", "0")
	assert.Error(t, err)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("DESCENT_MU", "-1")
	_, err := execute(t, "nesterov")
	assert.ErrorIs(t, err, problem.ErrPenaltyWeight)

	// flags win over the environment
	out, err := execute(t, "nesterov", "--mu", "0", "--iterations", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "iterations: 1\n")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("iterations: 0\nmu: 2\n"), 0o600))

	out, err := execute(t, "nesterov", "--config", path, "--x0", "1,1")
	require.NoError(t, err)
	assert.Contains(t, out, "iterations: 0\n")
	assert.Contains(t, out, "x: [1 1]\n")
	// 2 + 2·(2+100)²
	assert.Contains(t, out, "f: 20810\n")

	_, err = execute(t, "nesterov", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

var finalValue = regexp.MustCompile(`(?m)^f: (\S+)$`)

func TestSGDMatchesSweep(t *testing.T) {
	args := []string{"sgd", "--iterations", "2000", "--seed", "1"}
	out1, err := execute(t, args...)
	require.NoError(t, err)
	out2, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
	assert.Contains(t, out1, "x: dim 1000 sum ")

	m := finalValue.FindStringSubmatch(out1)
	require.Len(t, m, 2)

	out, err := execute(t, "sweep", "--iterations", "2000", "--seeds", "3,1", "--parallel", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "seed 3 status completed f "))
	assert.True(t, strings.HasPrefix(lines[1], "seed 1 status completed f "+m[1]+" "))
	assert.True(t, strings.HasPrefix(lines[2], "f mean "))
}

func TestPenalty(t *testing.T) {
	out, err := execute(t, "penalty", "--x0", "0,0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "round 0 mu 1 base 0 penalty 10000\n"))
	assert.Contains(t, out, "converged: true\n")
	assert.Contains(t, out, "x: [-49.99")

	out, err = execute(t, "penalty", "--max-rounds", "2", "--eps", "1e-12")
	require.NoError(t, err)
	assert.Contains(t, out, "round 2 mu 4 ")
	assert.Contains(t, out, "converged: false\n")

	out, err = execute(t, "penalty", "--problem", "3", "--solver", "sgd", "--seed", "9",
		"--step", "0.001", "--iterations", "2000", "--max-rounds", "2", "--eps", "1e-12")
	require.NoError(t, err)
	assert.Contains(t, out, "round 2 mu 4 ")
}

func TestSweepSeedSources(t *testing.T) {
	t.Setenv("DESCENT_SEEDS", "5,6")
	out, err := execute(t, "sweep", "--iterations", "100")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "seed 5 "))
	assert.True(t, strings.HasPrefix(lines[1], "seed 6 "))

	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seeds: [7]\n"), 0o600))
	t.Setenv("DESCENT_SEEDS", "")
	out, err = execute(t, "sweep", "--iterations", "100", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "seed 7 status completed f "))

	_, err = execute(t, "sweep", "--iterations", "100", "--seeds", "x")
	assert.ErrorContains(t, err, "parse seeds")
}
