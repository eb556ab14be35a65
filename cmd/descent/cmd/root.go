// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	a := newApp()
	cmd := &cobra.Command{
		Use:   "descent",
		Short: "descent minimizes penalized test problems with first-order methods.",
		Long: `descent minimizes penalized test problems with first-order methods.

Built-in problems are selected by number (see "descent problems").
Every flag can also be set in a config file passed with --config, or through
an environment variable prefixed with DESCENT_, e.g. DESCENT_STEP=0.01.

Example config:
problem: 2
mu: 10
step: 0.001
iterations: 5000`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	cmd.PersistentFlags().Float64Slice("x0", nil, "initial point, defaults to the problem's own start")
	cmd.PersistentFlags().Int("log-level", -1, "optimizer log level: -1 quiet, 0 summary, k every k iterations, 100 verbose")
	cmd.PersistentFlags().Bool("guard", false, "stop at the first non-finite value")

	cmd.AddCommand(
		nesterovCmd(a),
		sgdCmd(a),
		penaltyCmd(a),
		sweepCmd(a),
		problemsCmd(a),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the state shared by the sub-commands of one invocation.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newApp() *app {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &app{v: viper.New(), log: log}
}

func (a *app) init(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	a.v.SetEnvPrefix("DESCENT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
		a.log.Debugf("using config file %s", a.v.ConfigFileUsed())
	}

	if a.v.GetInt("log-level") >= 100 {
		a.log.SetLevel(logrus.DebugLevel)
	}
	return nil
}
