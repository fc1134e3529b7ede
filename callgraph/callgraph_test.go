// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package callgraph_test

import (
	"testing"

	"github.com/lkgv/kcfa2/callgraph"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeDedups(t *testing.T) {
	g := callgraph.New()
	empty := domain.EmptyContext(domain.FamilyCallString, 0, 0)
	cs := site.Call{SiteID: "s1", Fn: "main", Idx: 1}

	require.True(t, g.AddEdge(empty, cs, "callee", empty))
	require.False(t, g.AddEdge(empty, cs, "callee", empty), "identical edge must not be re-added")
	require.Equal(t, 1, g.Stats().Edges)
}

func TestByCalleeAndBySite(t *testing.T) {
	g := callgraph.New()
	empty := domain.EmptyContext(domain.FamilyCallString, 0, 0)
	cs1 := site.Call{SiteID: "s1", Fn: "main", Idx: 1}
	cs2 := site.Call{SiteID: "s2", Fn: "main", Idx: 2}

	g.AddEdge(empty, cs1, "f", empty)
	g.AddEdge(empty, cs2, "f", empty)
	g.AddEdge(empty, cs1, "g", empty)

	require.Len(t, g.ByCallee("f"), 2)
	require.Len(t, g.BySite(cs1), 2)
}

func TestDumpTextIsDeterministic(t *testing.T) {
	g := callgraph.New()
	empty := domain.EmptyContext(domain.FamilyCallString, 0, 0)
	g.AddEdge(empty, site.Call{SiteID: "s2", Fn: "main", Idx: 2}, "g", empty)
	g.AddEdge(empty, site.Call{SiteID: "s1", Fn: "main", Idx: 1}, "f", empty)

	require.Equal(t, g.DumpText(), g.DumpText())
}
