// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/worklist"
)

// A constraint or call item is never "done" once processed: it stays
// live against every (context, variable) and (object, field) slot it
// read, and gets pushed back onto its worklist the moment one of those
// slots grows. Queue.Pop discards an item's pending-ness, not its
// identity, so re-pushing a key already popped this run is exactly the
// re-visit the fixpoint needs (worklist.Queue's doc comment on Push/Pop).
// Without this, a callee's "return" variable or a method attached to a
// receiver after the call first resolved would be read once, found
// empty, and never looked at again.

func depKeyVar(ctx *domain.Context, v string) string {
	return ctx.Key() + "#" + v
}

func depKeyHeap(obj *domain.AbstractObject, f domain.FieldKey) string {
	return obj.Key() + "#" + f.Key()
}

func (a *Analysis) registerConstraintVarDep(ctx *domain.Context, v string, c worklist.Constraint) {
	key := depKeyVar(ctx, v)
	m := a.varConstraintDeps[key]
	if m == nil {
		m = make(map[string]worklist.Constraint)
		a.varConstraintDeps[key] = m
	}
	m[c.Key()] = c
}

func (a *Analysis) registerConstraintHeapDep(obj *domain.AbstractObject, f domain.FieldKey, c worklist.Constraint) {
	key := depKeyHeap(obj, f)
	m := a.heapConstraintDeps[key]
	if m == nil {
		m = make(map[string]worklist.Constraint)
		a.heapConstraintDeps[key] = m
	}
	m[c.Key()] = c
}

func (a *Analysis) registerCallVarDep(ctx *domain.Context, v string, c worklist.Call) {
	key := depKeyVar(ctx, v)
	m := a.varCallDeps[key]
	if m == nil {
		m = make(map[string]worklist.Call)
		a.varCallDeps[key] = m
	}
	m[c.Key()] = c
}

func (a *Analysis) registerCallHeapDep(obj *domain.AbstractObject, f domain.FieldKey, c worklist.Call) {
	key := depKeyHeap(obj, f)
	m := a.heapCallDeps[key]
	if m == nil {
		m = make(map[string]worklist.Call)
		a.heapCallDeps[key] = m
	}
	m[c.Key()] = c
}

// updateEnv joins delta into (ctx, v) and, if the set actually grew,
// re-enqueues every constraint and call registered against that slot.
func (a *Analysis) updateEnv(ctx *domain.Context, v string, delta domain.PointsToSet) bool {
	changed := a.env.Update(ctx, v, delta)
	if changed {
		key := depKeyVar(ctx, v)
		for _, c := range a.varConstraintDeps[key] {
			a.constraintWL.Push(c.Key(), c)
		}
		for _, c := range a.varCallDeps[key] {
			a.callWL.Push(c.Key(), c)
		}
	}
	return changed
}

// updateHeap joins delta into (obj, f) and, if the set actually grew,
// re-enqueues every constraint and call registered against that slot.
func (a *Analysis) updateHeap(obj *domain.AbstractObject, f domain.FieldKey, delta domain.PointsToSet) bool {
	changed := a.heap.Update(obj, f, delta)
	if changed {
		key := depKeyHeap(obj, f)
		for _, c := range a.heapConstraintDeps[key] {
			a.constraintWL.Push(c.Key(), c)
		}
		for _, c := range a.heapCallDeps[key] {
			a.callWL.Push(c.Key(), c)
		}
	}
	return changed
}
