// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/curioloop/descent/continuation"
	"github.com/curioloop/descent/problem"
)

// Drive a problem towards feasibility with a growing penalty weight.
func penaltyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "penalty",
		Short: "Solve a problem repeatedly while growing its penalty weight.",
		Long: `Solve a problem repeatedly while growing its penalty weight.

Each round starts from the previous solution, multiplies the weight by
--growth and divides the step by the same factor. Rounds stop once the
weighted penalty drops below --eps or after --max-rounds rounds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := continuation.Config{
				Mu0:       a.v.GetFloat64("mu0"),
				Growth:    a.v.GetFloat64("growth"),
				Eps:       a.v.GetFloat64("eps"),
				Step:      a.v.GetFloat64("step"),
				MaxRounds: a.v.GetInt("max-rounds"),
			}
			_, x0, err := a.build(cmd, cfg.Mu0)
			if err != nil {
				return errors.Wrap(err, "build problem")
			}
			f, err := problem.Lookup(a.selector())
			if err != nil {
				return err
			}

			name := a.v.GetString("solver")
			rng, seed := source(a.v.GetUint64("seed"))
			entry := a.entry(cmd)
			if name == "sgd" {
				entry = entry.WithField("seed", seed)
			}
			logger, done := coreLogger(entry, a.logLevel())
			defer done()

			var solver continuation.Solver
			switch name {
			case "nesterov":
				solver = continuation.NesterovSolver{
					Momentum:   a.v.GetFloat64("momentum"),
					Iterations: a.v.GetInt("iterations"),
					Guard:      a.v.GetBool("guard"),
					Logger:     logger,
				}
			case "sgd":
				solver = continuation.SGDSolver{
					Iterations: a.v.GetInt("iterations"),
					Rand:       rng,
					Guard:      a.v.GetBool("guard"),
					Logger:     logger,
				}
			default:
				return errors.Errorf("unknown solver %q, expected nesterov or sgd", name)
			}

			path, err := continuation.Solve(f.Build, x0, cfg, solver)
			if path != nil {
				writePath(cmd, path)
				entry.WithField("rounds", path.Rounds).Debugf("converged %v", path.Converged)
			}
			return errors.Wrap(err, "penalty continuation")
		},
	}

	cmd.Flags().Int("problem", int(problem.SelectBowl), "problem selector")
	cmd.Flags().String("solver", "nesterov", "inner solver: nesterov or sgd")
	cmd.Flags().Float64("mu0", 1, "initial penalty weight")
	cmd.Flags().Float64("growth", 2, "penalty weight growth factor per round")
	cmd.Flags().Float64("eps", 1e-3, "stop once the weighted penalty is below eps")
	cmd.Flags().Int("max-rounds", 0, fmt.Sprintf("round limit, 0 means %d", continuation.DefaultMaxRounds))
	cmd.Flags().Float64("step", 0.1, "initial step size")
	cmd.Flags().Float64("momentum", 0.1, "momentum coefficient of the nesterov solver")
	cmd.Flags().Int("iterations", 100, "iterations per round")
	cmd.Flags().Uint64("seed", 0, "random seed of the sgd solver, 0 draws one")

	return cmd
}

func writePath(cmd *cobra.Command, path *continuation.Path) {
	w := cmd.OutOrStdout()
	for k := range path.X {
		_, _ = fmt.Fprintf(w, "round %d mu %v base %v penalty %v\n", k, path.Mu[k], path.Base[k], path.Penalty[k])
	}
	_, _ = fmt.Fprintf(w, "converged: %v\n", path.Converged)
	writePoint(w, "x", path.X[len(path.X)-1])
}
