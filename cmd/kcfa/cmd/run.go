// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/aquasecurity/table"
	"github.com/lkgv/kcfa2/engine"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cf := &commonFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the points-to analysis and report the resulting environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, res, err := runAnalysis(cf)
			if err != nil {
				return err
			}

			if res.Partial {
				fmt.Fprintln(os.Stderr, "warning: analysis stopped before reaching a fixpoint (partial results)")
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, "soundness:", w.String())
			}

			switch format {
			case "json":
				return printRunJSON(res)
			default:
				printRunTable(res)
				return nil
			}
		},
	}
	addCommonFlags(cmd, cf)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json")
	return cmd
}

func printRunTable(res engine.Results) {
	type row struct{ ctx, v, objs string }
	rows := make([]row, 0, res.Env.Len())
	for _, e := range res.Env.All() {
		objStrs := make([]string, 0, e.Pts.Len())
		for _, o := range e.Pts.Objects() {
			objStrs = append(objStrs, o.String())
		}
		sort.Strings(objStrs)
		rows = append(rows, row{ctx: e.Ctx.String(), v: e.Var, objs: fmt.Sprintf("%v", objStrs)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ctx != rows[j].ctx {
			return rows[i].ctx < rows[j].ctx
		}
		return rows[i].v < rows[j].v
	})

	t := table.New(os.Stdout)
	t.SetHeaders("Context", "Variable", "Objects")
	for _, r := range rows {
		t.AddRow(r.ctx, r.v, r.objs)
	}
	t.Render()

	fmt.Printf("objects=%d constraints=%d calls=%d contexts=%d iterations=%d skipped=%d partial=%v\n",
		res.Stats.ObjectsCreated, res.Stats.ConstraintsProcessed, res.Stats.CallsProcessed,
		res.Stats.DistinctContexts, res.Stats.Iterations, res.Stats.SkippedEvents, res.Partial)
}

type runJSONEntry struct {
	Context string   `json:"context"`
	Var     string   `json:"var"`
	Objects []string `json:"objects"`
}

type runJSONOutput struct {
	Env      []runJSONEntry    `json:"env"`
	Stats    engine.Statistics `json:"stats"`
	Partial  bool              `json:"partial"`
	Warnings []string          `json:"warnings"`
}

func printRunJSON(res engine.Results) error {
	out := runJSONOutput{Stats: res.Stats, Partial: res.Partial}
	for _, e := range res.Env.All() {
		objStrs := make([]string, 0, e.Pts.Len())
		for _, o := range e.Pts.Objects() {
			objStrs = append(objStrs, o.String())
		}
		sort.Strings(objStrs)
		out.Env = append(out.Env, runJSONEntry{Context: e.Ctx.String(), Var: e.Var, Objects: objStrs})
	}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
