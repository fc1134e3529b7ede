// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/lkgv/kcfa2/builtin"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/worklist"
)

// builtinHandle is the restricted view of the engine a builtin.Summary
// runs against (spec §4.5): it can read/join the environment and heap
// in the call's own context, and allocate fresh objects tagged as if
// the call site were an allocation site.
type builtinHandle struct {
	a       *Analysis
	ctx     *domain.Context
	callID  string
	call    worklist.Call
	changed bool
}

func (h *builtinHandle) Context() *domain.Context { return h.ctx }

func (h *builtinHandle) AllocateFresh(allocID string) *domain.AbstractObject {
	return h.a.allocFresh(h.ctx, allocID+"@"+h.callID)
}

func (h *builtinHandle) GetEnv(v string) domain.PointsToSet {
	h.a.registerCallVarDep(h.ctx, v, h.call)
	return h.a.env.Get(h.ctx, v)
}

func (h *builtinHandle) JoinEnv(v string, delta domain.PointsToSet) bool {
	if h.a.updateEnv(h.ctx, v, delta) {
		h.changed = true
		return true
	}
	return false
}

func (h *builtinHandle) GetHeap(obj *domain.AbstractObject, f domain.FieldKey) domain.PointsToSet {
	h.a.registerCallHeapDep(obj, f, h.call)
	return h.a.heap.Get(obj, f)
}

func (h *builtinHandle) JoinHeap(obj *domain.AbstractObject, f domain.FieldKey, delta domain.PointsToSet) bool {
	if h.a.updateHeap(obj, f, delta) {
		h.changed = true
		return true
	}
	return false
}

// applyBuiltin runs s (or the conservative default if s is nil) against
// call c. Used both for recognized builtin names and as the fallback
// for any call the engine could not resolve at all.
func (a *Analysis) applyBuiltin(s builtin.Summary, c worklist.Call) bool {
	h := &builtinHandle{a: a, ctx: c.CallerCtx, callID: c.CallID, call: c}
	if s == nil {
		s = builtin.Default
	}
	s(h, c.Target, c.Args)
	return h.changed
}
