// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/lkgv/kcfa2/asyncfacts"
	"github.com/lkgv/kcfa2/engine"
	"github.com/spf13/cobra"
)

func newFactsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "facts",
		Short: "Classify and query async-runtime facts (coroutines, tasks, queues, sync primitives)",
	}
	root.AddCommand(newFactsExportCmd())
	return root
}

func newFactsExportCmd() *cobra.Command {
	cf := &commonFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export classified async facts as JSONL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, src, _, err := runAnalysis(cf)
			if err != nil {
				return err
			}
			h := asyncfacts.New()
			h.IndexSource(src, engine.EmptyContextResolver{A: a})

			w := os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				return h.WriteJSONL(f)
			}
			return h.WriteJSONL(w)
		},
	}
	addCommonFlags(cmd, cf)
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, \"-\" for stdout")
	return cmd
}
