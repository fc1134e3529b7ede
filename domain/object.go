// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import "strings"

// RecvEntry is one link of a receiver fingerprint: the allocation id and
// canonical context string of a receiver object in the chain (spec §4.3 —
// derived from abstract receiver objects, never from concrete call
// sites).
type RecvEntry struct {
	AllocID string
	CtxKey  string
}

// AbstractObject is (alloc_id, alloc_ctx, recv_fingerprint?): the identity
// triple that defines the heap address space (spec §3).
type AbstractObject struct {
	AllocID string
	Ctx     *Context
	Recv    []RecvEntry
}

// Key is the canonical string identity used as a map key; equal objects
// produce equal keys (testable property 2).
func (o *AbstractObject) Key() string {
	var b strings.Builder
	b.WriteString(o.AllocID)
	b.WriteByte('@')
	b.WriteString(o.Ctx.Key())
	if len(o.Recv) > 0 {
		b.WriteByte('/')
		for i, r := range o.Recv {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(r.AllocID)
			b.WriteByte(':')
			b.WriteString(r.CtxKey)
		}
	}
	return b.String()
}

func (o *AbstractObject) String() string {
	var b strings.Builder
	b.WriteString(o.AllocID)
	b.WriteByte('@')
	b.WriteString(o.Ctx.String())
	if len(o.Recv) > 0 {
		b.WriteByte('/')
		for i, r := range o.Recv {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(r.AllocID)
		}
	}
	return b.String()
}
