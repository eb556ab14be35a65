// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/curioloop/descent/descent"
	"github.com/curioloop/descent/numdiff"
	"github.com/curioloop/descent/problem"
)

// Minimize one problem with Nesterov momentum descent.
func nesterovCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nesterov",
		Short: "Minimize a problem with Nesterov momentum descent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, x0, err := a.build(cmd, a.v.GetFloat64("mu"))
			if err != nil {
				return errors.Wrap(err, "build problem")
			}

			var fg problem.FullGradient
			if a.v.GetBool("numeric-grad") {
				fg = numdiff.Approx(p, numdiff.Central)
			} else if g, ok := p.(problem.FullGradient); ok {
				fg = g
			} else {
				return errors.Wrapf(descent.ErrCapability, "problem %d has no full gradient, try --numeric-grad", a.selector())
			}

			entry := a.entry(cmd)
			logger, done := coreLogger(entry, a.logLevel())
			defer done()

			spec := descent.NesterovSpec{
				Problem:    fg,
				Step:       a.v.GetFloat64("step"),
				Momentum:   a.v.GetFloat64("momentum"),
				Iterations: a.v.GetInt("iterations"),
				Guard:      a.v.GetBool("guard"),
			}
			o, err := spec.New(logger)
			if err != nil {
				return errors.Wrap(err, "configure nesterov")
			}
			res, err := o.Fit(x0)
			if res != nil {
				report(cmd.OutOrStdout(), res)
				entry.WithField("status", res.Status).Debugf("finished after %d iterations", res.NumIter)
			}
			return errors.Wrap(err, "nesterov")
		},
	}

	cmd.Flags().Int("problem", int(problem.SelectBowl), "problem selector")
	cmd.Flags().Float64("mu", 1, "penalty weight")
	cmd.Flags().Float64("step", 0.1, "step size")
	cmd.Flags().Float64("momentum", 0.1, "momentum coefficient")
	cmd.Flags().Int("iterations", 100, "number of iterations")
	cmd.Flags().Bool("numeric-grad", false, "use a central finite difference gradient")

	return cmd
}
