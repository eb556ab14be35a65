// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/problem"
)

// Minimize one problem with randomized sparse gradient descent.
func sgdCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sgd",
		Short: "Minimize a problem with randomized sparse gradient descent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, x0, err := a.build(cmd, a.v.GetFloat64("mu"))
			if err != nil {
				return errors.Wrap(err, "build problem")
			}
			sg, ok := p.(problem.SparseGradient)
			if !ok {
				return errors.Wrapf(descent.ErrCapability, "problem %d has no sparse gradient", a.selector())
			}

			rng, seed := source(a.v.GetUint64("seed"))
			entry := a.entry(cmd).WithField("seed", seed)
			logger, done := coreLogger(entry, a.logLevel())
			defer done()

			spec := descent.SGDSpec{
				Problem:    sg,
				Step:       a.v.GetFloat64("step"),
				Iterations: a.v.GetInt("iterations"),
				Rand:       rng,
				Guard:      a.v.GetBool("guard"),
			}
			o, err := spec.New(logger)
			if err != nil {
				return errors.Wrap(err, "configure sgd")
			}
			res, err := o.Fit(x0)
			if res != nil {
				report(cmd.OutOrStdout(), res)
				entry.WithField("status", res.Status).Debugf("finished after %d iterations", res.NumIter)
			}
			return errors.Wrap(err, "sgd")
		},
	}

	addSGDFlags(cmd)
	cmd.Flags().Uint64("seed", 0, "random seed, 0 draws one")

	return cmd
}

func addSGDFlags(cmd *cobra.Command) {
	cmd.Flags().Int("problem", int(problem.SelectChain), "problem selector")
	cmd.Flags().Float64("mu", 1, "penalty weight")
	cmd.Flags().Float64("step", 0.001, "step size")
	cmd.Flags().Int("iterations", 100_000, "number of sampled iterations")
}
