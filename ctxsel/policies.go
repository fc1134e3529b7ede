// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctxsel

import (
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
)

// callStringSelector implements 0-cfa/k-cfa (spec §4.2 table, row 1-2).
type callStringSelector struct{ callK int }

func (s callStringSelector) Empty() *domain.Context {
	return domain.EmptyContext(domain.FamilyCallString, s.callK, 0)
}

func (s callStringSelector) OnCall(caller *domain.Context, cs site.Call, _ string, _ *domain.AbstractObject, _ string) *domain.Context {
	caller = coerceCallString(caller, s.callK)
	if s.callK == 0 {
		return caller // 0-cfa: return caller unchanged
	}
	return caller.WithCallSite(cs)
}

func (s callStringSelector) OnAlloc(current *domain.Context, _ string, _ string) *domain.Context {
	return coerceCallString(current, s.callK)
}

// objectSelector implements k-obj (row 3): the callee context is built
// from the receiver's allocation chain, not the call site.
type objectSelector struct{ depth int }

func (s objectSelector) Empty() *domain.Context {
	return domain.EmptyContext(domain.FamilyObject, 0, s.depth)
}

func (s objectSelector) OnCall(caller *domain.Context, cs site.Call, _ string, receiverAlloc *domain.AbstractObject, _ string) *domain.Context {
	caller = coerceObject(caller, s.depth)
	if receiverAlloc != nil {
		return caller.WithAllocSite(receiverAlloc.AllocID)
	}
	return caller.WithAllocSite("call:" + cs.SiteID) // proxy, spec §4.2
}

func (s objectSelector) OnAlloc(current *domain.Context, allocSite string, _ string) *domain.Context {
	return coerceObject(current, s.depth).WithAllocSite(allocSite)
}

// typeSelector implements k-type (row 4).
type typeSelector struct{ depth int }

func (s typeSelector) Empty() *domain.Context {
	return domain.EmptyContext(domain.FamilyType, 0, s.depth)
}

func (s typeSelector) OnCall(caller *domain.Context, _ site.Call, calleeName string, _ *domain.AbstractObject, receiverType string) *domain.Context {
	caller = coerceType(caller, s.depth)
	if receiverType != "" {
		return caller.WithType(receiverType)
	}
	return caller.WithType(calleeName) // proxy, spec §4.2
}

func (s typeSelector) OnAlloc(current *domain.Context, _ string, _ string) *domain.Context {
	return coerceType(current, s.depth)
}

// receiverSelector implements k-rcv (row 5).
type receiverSelector struct{ depth int }

func (s receiverSelector) Empty() *domain.Context {
	return domain.EmptyContext(domain.FamilyReceiver, 0, s.depth)
}

func (s receiverSelector) OnCall(caller *domain.Context, _ site.Call, _ string, receiverAlloc *domain.AbstractObject, _ string) *domain.Context {
	caller = coerceReceiver(caller, s.depth)
	if receiverAlloc != nil {
		return caller.WithReceiver(receiverAlloc.AllocID)
	}
	return caller // unchanged, spec §4.2
}

func (s receiverSelector) OnAlloc(current *domain.Context, _ string, _ string) *domain.Context {
	return coerceReceiver(current, s.depth)
}

// hybridSelector implements the hybrid call×obj policy (row 6).
type hybridSelector struct{ callK, objDepth int }

func (s hybridSelector) Empty() *domain.Context {
	return domain.EmptyContext(domain.FamilyHybrid, s.callK, s.objDepth)
}

func (s hybridSelector) OnCall(caller *domain.Context, cs site.Call, _ string, receiverAlloc *domain.AbstractObject, _ string) *domain.Context {
	next := coerceHybrid(caller, s.callK, s.objDepth).WithCallSite(cs)
	if receiverAlloc != nil {
		next = next.WithAllocSite(receiverAlloc.AllocID)
	}
	return next
}

func (s hybridSelector) OnAlloc(current *domain.Context, allocSite string, _ string) *domain.Context {
	return coerceHybrid(current, s.callK, s.objDepth).WithAllocSite(allocSite)
}
