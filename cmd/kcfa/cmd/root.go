// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmd implements the kcfa command tree (spec §6.5): run,
// callgraph dump, and facts export.
package cmd

import "github.com/spf13/cobra"

// NewRootCmd builds the kcfa root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kcfa",
		Short:         "Context-sensitive points-to analysis over a semantic event stream",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newCallgraphCmd())
	root.AddCommand(newFactsCmd())
	return root
}
