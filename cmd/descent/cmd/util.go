// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

// maxPrinted is the largest point printed coordinate by coordinate.
const maxPrinted = 10

func (a *app) selector() problem.Selector {
	return problem.Selector(a.v.GetInt("problem"))
}

// start returns the --x0 flag, or nil when it was not given.
func start(cmd *cobra.Command) ([]float64, error) {
	x0, err := cmd.Flags().GetFloat64Slice("x0")
	if err != nil || len(x0) == 0 {
		return nil, err
	}
	return x0, nil
}

// build resolves the selected problem at weight mu and its start point.
func (a *app) build(cmd *cobra.Command, mu float64) (problem.Penalized, []float64, error) {
	x0, err := start(cmd)
	if err != nil {
		return nil, nil, err
	}
	return descent.Build(a.selector(), mu, x0)
}

func (a *app) entry(cmd *cobra.Command) *logrus.Entry {
	return a.log.WithFields(logrus.Fields{
		"run": uuid.NewString(),
		"cmd": cmd.Name(),
	})
}

func (a *app) logLevel() descent.LogLevel {
	return descent.LogLevel(a.v.GetInt("log-level"))
}

// coreLogger routes optimizer progress into entry. The returned func
// releases the writers and must be called once the run is over.
func coreLogger(entry *logrus.Entry, level descent.LogLevel) (*descent.Logger, func()) {
	if level < descent.LogLast {
		return nil, func() {}
	}
	msg := entry.WriterLevel(logrus.InfoLevel)
	out := entry.WriterLevel(logrus.DebugLevel)
	return &descent.Logger{Level: level, Msg: msg, Out: out}, func() {
		_ = msg.Close()
		_ = out.Close()
	}
}

// source returns a PCG generator for seed. Seed 0 draws a random seed,
// which is returned so the run can be repeated.
func source(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed)), seed
}

func report(w io.Writer, res *descent.Result) {
	_, _ = fmt.Fprintf(w, "status: %s\n", res.Status)
	_, _ = fmt.Fprintf(w, "iterations: %d\n", res.NumIter)
	_, _ = fmt.Fprintf(w, "gradients: %d\n", res.NumGrad)
	_, _ = fmt.Fprintf(w, "f: %v\n", res.F)
	writePoint(w, "x", res.X)
}

func writePoint(w io.Writer, name string, x []float64) {
	if len(x) <= maxPrinted {
		_, _ = fmt.Fprintf(w, "%s: %v\n", name, x)
		return
	}
	_, _ = fmt.Fprintf(w, "%s: dim %d sum %v min %v max %v\n",
		name, len(x), floats.Sum(x), floats.Min(x), floats.Max(x))
}
