// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

// Env maps (context, variable) pairs to points-to sets (spec §3). Keys are
// the context's canonical Key() concatenated with the variable name, so
// two structurally-equal contexts always collide on the same entry
// (testable property 2) without needing the context itself to be a
// comparable Go type.
type Env struct {
	m map[string]entry
}

type entry struct {
	ctx *Context
	pts PointsToSet
}

func envKey(ctx *Context, v string) string {
	return ctx.Key() + "#" + v
}

// NewEnv returns an empty environment.
func NewEnv() *Env { return &Env{m: make(map[string]entry)} }

// Get returns the points-to set bound to (ctx, v), or Empty.
func (e *Env) Get(ctx *Context, v string) PointsToSet {
	if ent, ok := e.m[envKey(ctx, v)]; ok {
		return ent.pts
	}
	return Empty
}

// Update computes e[ctx,v] := e[ctx,v] ∪ delta and reports whether the
// mapping changed (spec §4.1's update(m,k,Δ)).
func (e *Env) Update(ctx *Context, v string, delta PointsToSet) bool {
	k := envKey(ctx, v)
	old := e.m[k].pts
	joined := old.Join(delta)
	if joined.Equal(old) {
		return false
	}
	e.m[k] = entry{ctx: ctx, pts: joined}
	return true
}

// Len is the number of distinct (context, variable) entries.
func (e *Env) Len() int { return len(e.m) }

// EnvEntry is one (context, variable, points-to) triple, used for results
// export and iteration.
type EnvEntry struct {
	Ctx *Context
	Var string
	Pts PointsToSet
}

// All returns a snapshot of every entry.
func (e *Env) All() []EnvEntry {
	out := make([]EnvEntry, 0, len(e.m))
	for k, ent := range e.m {
		v := k[len(ent.ctx.Key())+1:]
		out = append(out, EnvEntry{Ctx: ent.ctx, Var: v, Pts: ent.pts})
	}
	return out
}

// Heap maps (abstract object, field key) pairs to points-to sets.
type Heap struct {
	m map[string]heapEntry
}

type heapEntry struct {
	obj   *AbstractObject
	field FieldKey
	pts   PointsToSet
}

func heapKey(obj *AbstractObject, f FieldKey) string {
	return obj.Key() + "#" + f.Key()
}

// NewHeap returns an empty heap.
func NewHeap() *Heap { return &Heap{m: make(map[string]heapEntry)} }

// Get returns the points-to set bound to (obj, field), or Empty.
func (h *Heap) Get(obj *AbstractObject, f FieldKey) PointsToSet {
	if ent, ok := h.m[heapKey(obj, f)]; ok {
		return ent.pts
	}
	return Empty
}

// Update computes h[obj,field] := h[obj,field] ∪ delta and reports whether
// the mapping changed.
func (h *Heap) Update(obj *AbstractObject, f FieldKey, delta PointsToSet) bool {
	k := heapKey(obj, f)
	old := h.m[k].pts
	joined := old.Join(delta)
	if joined.Equal(old) {
		return false
	}
	h.m[k] = heapEntry{obj: obj, field: f, pts: joined}
	return true
}

// Len is the number of distinct (object, field) entries.
func (h *Heap) Len() int { return len(h.m) }

// HeapEntry is one (object, field, points-to) triple.
type HeapEntry struct {
	Obj   *AbstractObject
	Field FieldKey
	Pts   PointsToSet
}

// All returns a snapshot of every entry.
func (h *Heap) All() []HeapEntry {
	out := make([]HeapEntry, 0, len(h.m))
	for _, ent := range h.m {
		out = append(out, HeapEntry{Obj: ent.obj, Field: ent.field, Pts: ent.pts})
	}
	return out
}
