// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package callgraph holds the context-sensitive call graph the engine
// builds as it resolves calls: one Edge per (caller context, call site,
// callee, callee context), queryable by call site and by callee
// (spec §4.7, C9).
package callgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
)

// Edge is one resolved call.
type Edge struct {
	CallerCtx *domain.Context
	Site      site.Call
	Callee    string
	CalleeCtx *domain.Context
}

func (e Edge) key() string {
	return e.CallerCtx.Key() + "|" + e.Site.Key() + "|" + e.Callee + "|" + e.CalleeCtx.Key()
}

// Graph indexes edges two ways: by call site (site.Call.Key, i.e. the
// enclosing function, site id, block and index together) and by callee
// name. There is no index by caller context, and none by site id alone.
type Graph struct {
	edges     map[string]Edge
	order     []string
	bySite    map[string][]string
	byCallee  map[string][]string
}

// New returns an empty call graph.
func New() *Graph {
	return &Graph{
		edges:    make(map[string]Edge),
		bySite:   make(map[string][]string),
		byCallee: make(map[string][]string),
	}
}

// AddEdge records a resolved call, deduplicating on (callerCtx, site,
// callee, calleeCtx). Returns whether this was a new edge.
func (g *Graph) AddEdge(callerCtx *domain.Context, cs site.Call, callee string, calleeCtx *domain.Context) bool {
	e := Edge{CallerCtx: callerCtx, Site: cs, Callee: callee, CalleeCtx: calleeCtx}
	k := e.key()
	if _, ok := g.edges[k]; ok {
		return false
	}
	g.edges[k] = e
	g.order = append(g.order, k)
	g.bySite[cs.Key()] = append(g.bySite[cs.Key()], k)
	g.byCallee[callee] = append(g.byCallee[callee], k)
	return true
}

// Edges returns every edge, insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.edges[k])
	}
	return out
}

// BySite returns the edges recorded at call site cs.
func (g *Graph) BySite(cs site.Call) []Edge {
	keys := g.bySite[cs.Key()]
	out := make([]Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edges[k])
	}
	return out
}

// ByCallee returns every edge targeting callee.
func (g *Graph) ByCallee(callee string) []Edge {
	keys := g.byCallee[callee]
	out := make([]Edge, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.edges[k])
	}
	return out
}

// Stats summarizes the graph for the results bundle (spec §6.4).
type Stats struct {
	Edges     int
	Sites     int
	Callees   int
}

func (g *Graph) Stats() Stats {
	return Stats{Edges: len(g.order), Sites: len(g.bySite), Callees: len(g.byCallee)}
}

func nodeID(callee string, ctx *domain.Context) string {
	return callee + " " + ctx.String()
}

// DumpText renders the graph as one "caller -> callee" line per edge,
// sorted for determinism.
func (g *Graph) DumpText() string {
	lines := make([]string, 0, len(g.order))
	for _, e := range g.Edges() {
		lines = append(lines, fmt.Sprintf("%s --%s--> %s", nodeID(e.Site.Fn, e.CallerCtx), e.Site.SiteID, nodeID(e.Callee, e.CalleeCtx)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// DumpDOT renders the graph as Graphviz DOT.
func (g *Graph) DumpDOT() string {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	seen := make(map[string]bool)
	for _, e := range g.Edges() {
		from := nodeID(e.Site.Fn, e.CallerCtx)
		to := nodeID(e.Callee, e.CalleeCtx)
		for _, n := range []string{from, to} {
			if !seen[n] {
				seen[n] = true
				fmt.Fprintf(&b, "  %q;\n", n)
			}
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", from, to, e.Site.SiteID)
	}
	b.WriteString("}\n")
	return b.String()
}

// DumpJSON renders the graph as a JSON-friendly slice of edge records;
// callers marshal it with encoding/json (the "callgraph dump --format
// json" command goes through this shape).
type EdgeRecord struct {
	Caller    string `json:"caller"`
	CallerCtx string `json:"caller_ctx"`
	Site      string `json:"site"`
	Callee    string `json:"callee"`
	CalleeCtx string `json:"callee_ctx"`
}

func (g *Graph) DumpJSON() []EdgeRecord {
	out := make([]EdgeRecord, 0, len(g.order))
	for _, e := range g.Edges() {
		out = append(out, EdgeRecord{
			Caller:    e.Site.Fn,
			CallerCtx: e.CallerCtx.String(),
			Site:      e.Site.SiteID,
			Callee:    e.Callee,
			CalleeCtx: e.CalleeCtx.String(),
		})
	}
	return out
}
