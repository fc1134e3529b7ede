// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctxsel implements the pluggable context-selection abstraction
// (spec §4.2, C3): one Selector per context-sensitivity policy, each
// total over its own family so the fixpoint engine never has to special
// case a policy.
package ctxsel

import (
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
)

// Selector produces the empty context of a policy and the two context
// transitions the engine needs during constraint generation.
type Selector interface {
	// Empty returns the policy's initial context.
	Empty() *domain.Context

	// OnCall computes the callee context for a call from caller at cs,
	// to calleeName, optionally through receiverAlloc/receiverType.
	OnCall(caller *domain.Context, cs site.Call, calleeName string, receiverAlloc *domain.AbstractObject, receiverType string) *domain.Context

	// OnAlloc computes the allocation context for a new object created
	// while executing in current, at allocSite (optionally typed).
	OnAlloc(current *domain.Context, allocSite string, allocType string) *domain.Context
}

// New constructs the Selector for policy.
func New(policy domain.Policy) (Selector, error) {
	family, err := policy.Family()
	if err != nil {
		return nil, err
	}
	callK, objDepth, err := policy.Bounds()
	if err != nil {
		return nil, err
	}
	switch family {
	case domain.FamilyCallString:
		return callStringSelector{callK: callK}, nil
	case domain.FamilyObject:
		return objectSelector{depth: objDepth}, nil
	case domain.FamilyType:
		return typeSelector{depth: objDepth}, nil
	case domain.FamilyReceiver:
		return receiverSelector{depth: objDepth}, nil
	case domain.FamilyHybrid:
		return hybridSelector{callK: callK, objDepth: objDepth}, nil
	default:
		panic("ctxsel: unreachable family")
	}
}

// coerce returns ctx if it already belongs to family with matching bounds,
// otherwise the family's own empty context — the "coerce to policy's
// empty" edge case from spec §4.2.
func coerceCallString(ctx *domain.Context, k int) *domain.Context {
	if ctx != nil && ctx.Family == domain.FamilyCallString && ctx.CallK == k {
		return ctx
	}
	return domain.EmptyContext(domain.FamilyCallString, k, 0)
}

func coerceObject(ctx *domain.Context, depth int) *domain.Context {
	if ctx != nil && ctx.Family == domain.FamilyObject && ctx.ObjDepth == depth {
		return ctx
	}
	return domain.EmptyContext(domain.FamilyObject, 0, depth)
}

func coerceType(ctx *domain.Context, depth int) *domain.Context {
	if ctx != nil && ctx.Family == domain.FamilyType && ctx.ObjDepth == depth {
		return ctx
	}
	return domain.EmptyContext(domain.FamilyType, 0, depth)
}

func coerceReceiver(ctx *domain.Context, depth int) *domain.Context {
	if ctx != nil && ctx.Family == domain.FamilyReceiver && ctx.ObjDepth == depth {
		return ctx
	}
	return domain.EmptyContext(domain.FamilyReceiver, 0, depth)
}

func coerceHybrid(ctx *domain.Context, callK, objDepth int) *domain.Context {
	if ctx != nil && ctx.Family == domain.FamilyHybrid && ctx.CallK == callK && ctx.ObjDepth == objDepth {
		return ctx
	}
	return domain.EmptyContext(domain.FamilyHybrid, callK, objDepth)
}
