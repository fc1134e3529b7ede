// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin_test

import (
	"testing"

	"github.com/lkgv/kcfa2/builtin"
	"github.com/lkgv/kcfa2/domain"
	"github.com/stretchr/testify/require"
)

// fakeHandle is a minimal in-memory builtin.Handle for exercising
// summaries without an engine.
type fakeHandle struct {
	ctx     *domain.Context
	nextID  int
	env     map[string]domain.PointsToSet
	heap    map[string]domain.PointsToSet
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		ctx:  domain.EmptyContext(domain.FamilyObject, 0, 2),
		env:  make(map[string]domain.PointsToSet),
		heap: make(map[string]domain.PointsToSet),
	}
}

func (h *fakeHandle) Context() *domain.Context { return h.ctx }

func (h *fakeHandle) AllocateFresh(allocID string) *domain.AbstractObject {
	h.nextID++
	return &domain.AbstractObject{AllocID: allocID, Ctx: h.ctx}
}

func (h *fakeHandle) GetEnv(v string) domain.PointsToSet { return h.env[v] }

func (h *fakeHandle) JoinEnv(v string, delta domain.PointsToSet) bool {
	before := h.env[v]
	joined := before.Join(delta)
	changed := !joined.Equal(before)
	h.env[v] = joined
	return changed
}

func (h *fakeHandle) GetHeap(obj *domain.AbstractObject, f domain.FieldKey) domain.PointsToSet {
	return h.heap[obj.Key()+"."+f.String()]
}

func (h *fakeHandle) JoinHeap(obj *domain.AbstractObject, f domain.FieldKey, delta domain.PointsToSet) bool {
	key := obj.Key() + "." + f.String()
	before := h.heap[key]
	joined := before.Join(delta)
	changed := !joined.Equal(before)
	h.heap[key] = joined
	return changed
}

func TestDefaultAllocatesFreshUnresolvedObject(t *testing.T) {
	h := newFakeHandle()
	builtin.Default(h, "t", nil)
	pts := h.GetEnv("t")
	require.Equal(t, 1, pts.Len())
}

func TestDefaultNoTargetIsNoop(t *testing.T) {
	h := newFakeHandle()
	builtin.Default(h, "", nil)
	require.Empty(t, h.env)
}

func TestLenSummaryIsNoop(t *testing.T) {
	r := builtin.NewRegistry()
	s, ok := r.Lookup("len")
	require.True(t, ok)

	h := newFakeHandle()
	s(h, "n", []string{"x"})
	require.Empty(t, h.env)
}

func TestIterSummaryAliasesArgument(t *testing.T) {
	r := builtin.NewRegistry()
	s, ok := r.Lookup("iter")
	require.True(t, ok)

	h := newFakeHandle()
	src := &domain.AbstractObject{AllocID: "o1", Ctx: h.ctx}
	h.env["x"] = domain.Singleton(src)

	s(h, "it", []string{"x"})
	require.True(t, h.GetEnv("it").Has(src))
}

func TestListCtorSummaryCopiesElementField(t *testing.T) {
	r := builtin.NewRegistry()
	s, ok := r.Lookup("list")
	require.True(t, ok)

	h := newFakeHandle()
	elem := &domain.AbstractObject{AllocID: "o_elem", Ctx: h.ctx}
	srcList := &domain.AbstractObject{AllocID: "o_src", Ctx: h.ctx}
	h.heap[srcList.Key()+"."+domain.Elem().String()] = domain.Singleton(elem)
	h.env["c"] = domain.Singleton(srcList)

	s(h, "lst", []string{"c"})

	lstPts := h.GetEnv("lst")
	require.Equal(t, 1, lstPts.Len())
	newList := lstPts.Objects()[0]
	require.True(t, h.GetHeap(newList, domain.Elem()).Has(elem))
}

func TestDictCtorSummaryCopiesValueAndElemFields(t *testing.T) {
	s := func() builtin.Summary {
		r := builtin.NewRegistry()
		sm, _ := r.Lookup("dict")
		return sm
	}()

	h := newFakeHandle()
	val := &domain.AbstractObject{AllocID: "o_val", Ctx: h.ctx}
	elem := &domain.AbstractObject{AllocID: "o_elem", Ctx: h.ctx}
	srcDict := &domain.AbstractObject{AllocID: "o_src", Ctx: h.ctx}
	h.heap[srcDict.Key()+"."+domain.Value().String()] = domain.Singleton(val)
	h.heap[srcDict.Key()+"."+domain.Elem().String()] = domain.Singleton(elem)
	h.env["d"] = domain.Singleton(srcDict)

	s(h, "nd", []string{"d"})

	newDict := h.GetEnv("nd").Objects()[0]
	require.True(t, h.GetHeap(newDict, domain.Value()).Has(val))
	require.True(t, h.GetHeap(newDict, domain.Value()).Has(elem))
}

func TestGetattrSummaryLoadsUnknownField(t *testing.T) {
	r := builtin.NewRegistry()
	s, ok := r.Lookup("getattr")
	require.True(t, ok)

	h := newFakeHandle()
	recv := &domain.AbstractObject{AllocID: "o_recv", Ctx: h.ctx}
	field := &domain.AbstractObject{AllocID: "o_field", Ctx: h.ctx}
	h.heap[recv.Key()+"."+domain.Unknown().String()] = domain.Singleton(field)
	h.env["obj"] = domain.Singleton(recv)

	s(h, "y", []string{"obj", "name"})
	require.True(t, h.GetEnv("y").Has(field))
}

func TestRegistryLookupMissReportsFalse(t *testing.T) {
	r := builtin.NewRegistry()
	_, ok := r.Lookup("not_a_builtin")
	require.False(t, ok)
}

func TestRegistryRegisterOverridesExisting(t *testing.T) {
	r := builtin.NewRegistry()
	called := false
	r.Register("len", func(builtin.Handle, string, []string) { called = true })

	s, ok := r.Lookup("len")
	require.True(t, ok)
	s(newFakeHandle(), "n", nil)
	require.True(t, called)
}
