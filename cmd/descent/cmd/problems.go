// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curioloop/descent/problem"
)

// List the built-in problems and the gradients they provide.
func problemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problems",
		Short: "List the built-in problems.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "SELECTOR\tNAME\tDIM\tGRADIENTS")
			for _, f := range problem.Selectors() {
				p, err := f.Build(0)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", f.Selector, f.Name, f.Dim, capabilities(p))
			}
			return w.Flush()
		},
	}
	return cmd
}

func capabilities(p problem.Objective) string {
	_, full := p.(problem.FullGradient)
	_, sparse := p.(problem.SparseGradient)
	switch {
	case full && sparse:
		return "full,sparse"
	case full:
		return "full"
	case sparse:
		return "sparse"
	default:
		return "none"
	}
}
