// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builtin implements library-level transfer functions for calls
// the engine can't resolve to an analyzable function body: container
// constructors, len, iter, getattr, and a conservative default for
// everything else (spec §4.5, C7).
package builtin

import "github.com/lkgv/kcfa2/domain"

// Handle is the restricted view of the engine a Summary may use. It can
// allocate fresh objects (tagged with the calling context, as if the
// builtin itself were an allocation site) and join into the environment
// and heap — never anything broader, so summaries stay monotone by
// construction.
type Handle interface {
	Context() *domain.Context
	AllocateFresh(allocID string) *domain.AbstractObject
	GetEnv(v string) domain.PointsToSet
	JoinEnv(v string, delta domain.PointsToSet) bool
	GetHeap(obj *domain.AbstractObject, f domain.FieldKey) domain.PointsToSet
	JoinHeap(obj *domain.AbstractObject, f domain.FieldKey, delta domain.PointsToSet) bool
}

// Summary is a closed-form transfer function for a builtin call. It must
// be monotone: called repeatedly with the same (target, args, h) it may
// only ever add to the environment/heap, never remove.
type Summary func(h Handle, target string, args []string)

// Registry holds the builtin summaries addressed by qualified name
// (spec §4.5). It is engine-owned, built by engine.New from the
// configuration's extra builtins, so tests can install fakes (spec §9,
// "Global state" design note) instead of relying on package-level state.
type Registry struct {
	summaries map[string]Summary
}

// NewRegistry returns a registry pre-populated with the standard builtin
// set (len, iter, list, tuple, dict, set, getattr).
func NewRegistry() *Registry {
	r := &Registry{summaries: make(map[string]Summary)}
	r.Register("len", lenSummary)
	r.Register("iter", iterSummary)
	r.Register("list", containerCtorSummary("list"))
	r.Register("tuple", containerCtorSummary("tuple"))
	r.Register("set", containerCtorSummary("set"))
	r.Register("dict", dictCtorSummary)
	r.Register("getattr", getattrSummary)
	return r
}

// Register installs (or overrides) the summary for name.
func (r *Registry) Register(name string, s Summary) {
	r.summaries[name] = s
}

// Lookup returns the summary registered for name, if any.
func (r *Registry) Lookup(name string) (Summary, bool) {
	s, ok := r.summaries[name]
	return s, ok
}

// Default is used when a call target is unresolved: it conservatively
// allocates a fresh return object and leaves arguments untouched (spec
// §4.5, §7 "Unresolved call target").
func Default(h Handle, target string, _ []string) {
	if target == "" {
		return
	}
	obj := h.AllocateFresh("builtin:unresolved:" + target)
	h.JoinEnv(target, domain.Singleton(obj))
}

// lenSummary models len(x): analytically uninteresting (returns a number,
// not a pointer), so it is a no-op — matching the teacher's treatment of
// "close len cap real imag complex println delete" as intrinsics with no
// constraints of their own.
func lenSummary(_ Handle, _ string, _ []string) {}

// iterSummary models iter(x): the result aliases its argument's element
// field is left for the caller's subsequent elem_load; iter() itself
// just forwards the container's identity so later loads still work.
func iterSummary(h Handle, target string, args []string) {
	if target == "" || len(args) == 0 {
		return
	}
	h.JoinEnv(target, h.GetEnv(args[0]))
}

// containerCtorSummary models list(x), tuple(x), set(x): a fresh
// container object whose elem field copies the points-to set of every
// argument container's elem field, so conversions never drop points-to
// information (spec §4.5).
func containerCtorSummary(kind string) Summary {
	return func(h Handle, target string, args []string) {
		if target == "" {
			return
		}
		obj := h.AllocateFresh("builtin:" + kind + ":" + target)
		h.JoinEnv(target, domain.Singleton(obj))
		for _, a := range args {
			for _, src := range h.GetEnv(a).Objects() {
				h.JoinHeap(obj, domain.Elem(), h.GetHeap(src, domain.Elem()))
			}
		}
	}
}

// dictCtorSummary models dict(x): like containerCtorSummary but copies
// into the value field.
func dictCtorSummary(h Handle, target string, args []string) {
	if target == "" {
		return
	}
	obj := h.AllocateFresh("builtin:dict:" + target)
	h.JoinEnv(target, domain.Singleton(obj))
	for _, a := range args {
		for _, src := range h.GetEnv(a).Objects() {
			h.JoinHeap(obj, domain.Value(), h.GetHeap(src, domain.Value()))
			h.JoinHeap(obj, domain.Value(), h.GetHeap(src, domain.Elem()))
		}
	}
}

// getattrSummary models getattr(obj, name): joins the unknown field of
// every object in obj's points-to set into the target. The name argument
// is not read, so an attribute stored under its own name (attr(name)) is
// not returned by this summary.
func getattrSummary(h Handle, target string, args []string) {
	if target == "" || len(args) == 0 {
		return
	}
	for _, o := range h.GetEnv(args[0]).Objects() {
		h.JoinEnv(target, h.GetHeap(o, domain.Unknown()))
	}
}
