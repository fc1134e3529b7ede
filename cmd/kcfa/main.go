// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command kcfa runs the context-sensitive points-to analysis engine
// over a JSONL event stream and reports points-to sets, the call graph,
// or async facts (spec §6.5).
package main

import (
	"fmt"
	"os"

	"github.com/lkgv/kcfa2/cmd/kcfa/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
