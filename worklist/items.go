// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package worklist

import (
	"github.com/lkgv/kcfa2/domain"
)

// ConstraintKind discriminates a Constraint's shape (spec §4.4).
type ConstraintKind int

const (
	ConstraintCopy ConstraintKind = iota
	ConstraintLoad
	ConstraintStore
)

// Constraint is one of copy(src→tgt) | load(src.field→tgt) |
// store(tgt.field←src), tagged with the context it executes in.
type Constraint struct {
	Kind   ConstraintKind
	Ctx    *domain.Context
	Source string
	Target string
	Field  domain.FieldKey // meaningful for Load/Store only
}

// Key identifies this constraint for worklist dedup: same kind, context,
// vars and field never need to be processed twice concurrently.
func (c Constraint) Key() string {
	return string(rune('0'+c.Kind)) + "|" + c.Ctx.Key() + "|" + c.Source + "|" + c.Target + "|" + c.Field.Key()
}

// CallKind discriminates how a call's callee is resolved (spec §4.6).
type CallKind int

const (
	CallDirect CallKind = iota
	CallIndirect
	CallMethod
)

// Call is a pending call-graph expansion: direct | indirect | method,
// with the caller context, the callee symbol/variable, optional receiver
// variable, the actual-argument variables, and an optional return-target
// variable.
type Call struct {
	Kind       CallKind
	CallID     string
	CallerCtx  *domain.Context
	Callee     string // symbol name (direct) or variable name (indirect/method's method name)
	Receiver   string // variable name; "" if none
	Args       []string
	Target     string // "" if the call result is discarded
	SiteFn     string // enclosing function, for call-site identity
	SiteIdx    int    // index within the block, for call-site identity
}

// Key identifies this call item for worklist dedup.
func (c Call) Key() string {
	return c.CallID + "|" + c.CallerCtx.Key()
}
