// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCallgraphCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "callgraph",
		Short: "Inspect the call graph built during analysis",
	}
	root.AddCommand(newCallgraphDumpCmd())
	return root
}

func newCallgraphDumpCmd() *cobra.Command {
	cf := &commonFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the resolved call graph as text, DOT, or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, res, err := runAnalysis(cf)
			if err != nil {
				return err
			}
			switch format {
			case "dot":
				fmt.Print(res.CallGraph.DumpDOT())
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res.CallGraph.DumpJSON()); err != nil {
					return err
				}
			default:
				fmt.Println(res.CallGraph.DumpText())
			}
			return nil
		},
	}
	addCommonFlags(cmd, cf)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|dot|json")
	return cmd
}
