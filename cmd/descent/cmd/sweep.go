// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

// Run SGD once per seed, concurrently, and summarize the spread of outcomes.
func sweepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run randomized sparse gradient descent for several seeds concurrently.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := a.seeds()
			if err != nil {
				return errors.Wrap(err, "parse seeds")
			}
			if len(seeds) == 0 {
				return errors.New("at least one seed is required")
			}
			p, x0, err := a.build(cmd, a.v.GetFloat64("mu"))
			if err != nil {
				return errors.Wrap(err, "build problem")
			}
			sg, ok := p.(problem.SparseGradient)
			if !ok {
				return errors.Wrapf(descent.ErrCapability, "problem %d has no sparse gradient", a.selector())
			}

			spec := descent.SGDSpec{
				Problem:    sg,
				Step:       a.v.GetFloat64("step"),
				Iterations: a.v.GetInt("iterations"),
				Guard:      a.v.GetBool("guard"),
			}
			parallel := a.v.GetInt("parallel")
			if parallel < 1 {
				return errors.Errorf("parallel must be at least 1, got %d", parallel)
			}
			entry, level := a.entry(cmd), a.logLevel()

			results := make([]*descent.Result, len(seeds))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(parallel)
			for i, seed := range seeds {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					rng, _ := source(seed)
					run := spec
					run.Rand = rng
					logger, done := coreLogger(entry.WithField("seed", seed), level)
					defer done()
					o, err := run.New(logger)
					if err != nil {
						return errors.Wrap(err, "configure sgd")
					}
					res, err := o.Fit(x0)
					results[i] = res
					return errors.Wrapf(err, "seed %d", seed)
				})
			}
			err = g.Wait()

			w := cmd.OutOrStdout()
			var fs []float64
			for i, res := range results {
				if res == nil {
					continue
				}
				_, _ = fmt.Fprintf(w, "seed %d status %s f %v sum %v\n", seeds[i], res.Status, res.F, floats.Sum(res.X))
				if res.OK {
					fs = append(fs, res.F)
				}
			}
			if len(fs) > 0 {
				mean, std := stat.MeanStdDev(fs, nil)
				_, _ = fmt.Fprintf(w, "f mean %v std %v min %v max %v\n", mean, std, floats.Min(fs), floats.Max(fs))
			}
			return errors.Wrap(err, "sweep")
		},
	}

	addSGDFlags(cmd)
	cmd.Flags().StringSlice("seeds", []string{"1", "2", "3", "4"}, "random seeds, one run each")
	cmd.Flags().Int("parallel", runtime.GOMAXPROCS(0), "maximum concurrent runs")

	return cmd
}

// seeds reads the seed list from a flag, config list, or comma separated
// environment value.
func (a *app) seeds() ([]uint64, error) {
	raw := a.v.Get("seeds")
	if s, ok := raw.(string); ok {
		raw = strings.ReplaceAll(strings.Trim(s, "[]"), ",", " ")
	}
	items, err := cast.ToStringSliceE(raw)
	if err != nil {
		return nil, err
	}
	seeds := make([]uint64, 0, len(items))
	for _, item := range items {
		seed, err := cast.ToUint64E(strings.TrimSpace(item))
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
