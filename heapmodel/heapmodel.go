// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heapmodel constructs abstract objects from allocation sites,
// allocation contexts, and an optional receiver chain (spec §4.3, C4).
package heapmodel

import "github.com/lkgv/kcfa2/domain"

// MakeObject builds the abstract object for an allocation at allocID,
// executing in alloc context ctx, with optional receivers (the chain of
// abstract receiver objects leading to this allocation, most recent
// last). depth truncates the fingerprint, per spec §4.3:
//
//  1. If receivers is empty or depth == 0, the fingerprint is empty.
//  2. Otherwise take the last depth receivers and map each to
//     (AllocID, string-of(Ctx)).
func MakeObject(allocID string, ctx *domain.Context, receivers []*domain.AbstractObject, depth int) *domain.AbstractObject {
	var fp []domain.RecvEntry
	if len(receivers) > 0 && depth > 0 {
		start := 0
		if len(receivers) > depth {
			start = len(receivers) - depth
		}
		fp = make([]domain.RecvEntry, 0, len(receivers)-start)
		for _, r := range receivers[start:] {
			fp = append(fp, domain.RecvEntry{AllocID: r.AllocID, CtxKey: r.Ctx.Key()})
		}
	}
	return &domain.AbstractObject{AllocID: allocID, Ctx: ctx, Recv: fp}
}
