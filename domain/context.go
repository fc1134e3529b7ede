// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package domain defines the abstract domain of the pointer analysis:
// contexts, abstract objects, field keys, points-to sets, and the
// environment/heap mappings the fixpoint engine reads and joins into.
//
// Every value type here has structural equality and a stable hash so it
// can be used as (part of) a map key. Rather than hash-consing true
// immutable sets as design note §9 of the spec suggests, each type exposes
// a canonical Key() string; two structurally equal values always produce
// the same key (testable property 2), and the engine's maps (Env, Heap,
// its context table) are keyed by these strings rather than by pointer.
package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lkgv/kcfa2/site"
)

// Policy names a context-sensitivity strategy. The string form doubles as
// the configuration surface's policy token (spec §6.2).
type Policy string

const (
	Policy0CFA    Policy = "0-cfa"
	Policy1CFA    Policy = "1-cfa"
	Policy2CFA    Policy = "2-cfa"
	Policy3CFA    Policy = "3-cfa"
	Policy1Obj    Policy = "1-obj"
	Policy2Obj    Policy = "2-obj"
	Policy3Obj    Policy = "3-obj"
	Policy1Type   Policy = "1-type"
	Policy2Type   Policy = "2-type"
	Policy3Type   Policy = "3-type"
	Policy1Rcv    Policy = "1-rcv"
	Policy2Rcv    Policy = "2-rcv"
	Policy3Rcv    Policy = "3-rcv"
	Policy1C1O    Policy = "1c1o"
	Policy2C1O    Policy = "2c1o"
	Policy1C2O    Policy = "1c2o"
)

// Family is the underlying context variant a Policy selects.
type Family int

const (
	FamilyCallString Family = iota
	FamilyObject
	FamilyType
	FamilyReceiver
	FamilyHybrid
)

// Family and bounds implied by a policy token. Returns an error for any
// unrecognized string (spec §7: configuration errors fail fast).
func (p Policy) Family() (Family, error) {
	switch p {
	case Policy0CFA, Policy1CFA, Policy2CFA, Policy3CFA:
		return FamilyCallString, nil
	case Policy1Obj, Policy2Obj, Policy3Obj:
		return FamilyObject, nil
	case Policy1Type, Policy2Type, Policy3Type:
		return FamilyType, nil
	case Policy1Rcv, Policy2Rcv, Policy3Rcv:
		return FamilyReceiver, nil
	case Policy1C1O, Policy2C1O, Policy1C2O:
		return FamilyHybrid, nil
	default:
		return 0, fmt.Errorf("domain: unknown context policy %q", string(p))
	}
}

// Bounds returns (callK, objDepth) for the policy; the dimension a family
// doesn't use is zero.
func (p Policy) Bounds() (callK, objDepth int, err error) {
	switch p {
	case Policy0CFA:
		return 0, 0, nil
	case Policy1CFA:
		return 1, 0, nil
	case Policy2CFA:
		return 2, 0, nil
	case Policy3CFA:
		return 3, 0, nil
	case Policy1Obj:
		return 0, 1, nil
	case Policy2Obj:
		return 0, 2, nil
	case Policy3Obj:
		return 0, 3, nil
	case Policy1Type:
		return 0, 1, nil
	case Policy2Type:
		return 0, 2, nil
	case Policy3Type:
		return 0, 3, nil
	case Policy1Rcv:
		return 0, 1, nil
	case Policy2Rcv:
		return 0, 2, nil
	case Policy3Rcv:
		return 0, 3, nil
	case Policy1C1O:
		return 1, 1, nil
	case Policy2C1O:
		return 2, 1, nil
	case Policy1C2O:
		return 1, 2, nil
	default:
		return 0, 0, fmt.Errorf("domain: unknown context policy %q", string(p))
	}
}

// Context is a tagged variant covering all five context-sensitivity
// policies (spec §3). Only the fields relevant to Family are meaningful;
// the zero Context of a family is its policy's empty() context.
type Context struct {
	Family Family

	CallSites  []site.Call // CallString, Hybrid
	AllocSites []string    // Object, Hybrid
	Types      []string    // Type
	Receivers  []string    // Receiver

	CallK    int // CallString, Hybrid
	ObjDepth int // Object, Type, Receiver, Hybrid
}

// EmptyContext returns the empty context for family with the given bounds.
func EmptyContext(f Family, callK, objDepth int) *Context {
	return &Context{Family: f, CallK: callK, ObjDepth: objDepth}
}

// Len reports the number of elements in the context's active dimension(s)
// (for Hybrid, the call-site and allocation-site counts added together).
func (c *Context) Len() int {
	switch c.Family {
	case FamilyCallString:
		return len(c.CallSites)
	case FamilyObject:
		return len(c.AllocSites)
	case FamilyType:
		return len(c.Types)
	case FamilyReceiver:
		return len(c.Receivers)
	case FamilyHybrid:
		return len(c.CallSites) + len(c.AllocSites)
	default:
		return 0
	}
}

// Key returns a canonical string uniquely identifying this context's
// structural value; equal contexts always produce equal keys.
func (c *Context) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(c.Family)))
	b.WriteByte('|')
	switch c.Family {
	case FamilyCallString:
		writeCallSites(&b, c.CallSites)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.CallK))
	case FamilyObject:
		writeStrings(&b, c.AllocSites)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.ObjDepth))
	case FamilyType:
		writeStrings(&b, c.Types)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.ObjDepth))
	case FamilyReceiver:
		writeStrings(&b, c.Receivers)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.ObjDepth))
	case FamilyHybrid:
		writeCallSites(&b, c.CallSites)
		b.WriteByte(';')
		writeStrings(&b, c.AllocSites)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.CallK))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.ObjDepth))
	}
	return b.String()
}

func (c *Context) String() string {
	switch c.Family {
	case FamilyCallString:
		if len(c.CallSites) == 0 {
			return "[]"
		}
		parts := make([]string, len(c.CallSites))
		for i, cs := range c.CallSites {
			parts[i] = cs.String()
		}
		return "[" + strings.Join(parts, "→") + "]"
	case FamilyObject:
		return angle(c.AllocSites)
	case FamilyType:
		return angle(c.Types)
	case FamilyReceiver:
		return "rcv:" + angle(c.Receivers)
	case FamilyHybrid:
		parts := make([]string, len(c.CallSites))
		for i, cs := range c.CallSites {
			parts[i] = cs.String()
		}
		return "[" + strings.Join(parts, ",") + "]" + angle(c.AllocSites)
	default:
		return "<?>"
	}
}

func angle(xs []string) string {
	if len(xs) == 0 {
		return "<>"
	}
	return "<" + strings.Join(xs, ",") + ">"
}

func writeStrings(b *strings.Builder, xs []string) {
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(x)
	}
}

func writeCallSites(b *strings.Builder, xs []site.Call) {
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(x.Key())
	}
}

// truncate drops the oldest elements, keeping at most bound trailing ones.
func truncate[T any](xs []T, bound int) []T {
	if bound <= 0 {
		return nil
	}
	if len(xs) < bound {
		return xs
	}
	return append([]T(nil), xs[len(xs)-bound:]...)
}

// WithCallSite returns a CallString context with cs appended and truncated
// to c.CallK ("truncation always drops the oldest element", spec §3).
func (c *Context) WithCallSite(cs site.Call) *Context {
	next := *c
	next.CallSites = truncate(append(append([]site.Call(nil), c.CallSites...), cs), c.CallK)
	return &next
}

// WithAllocSite returns an Object/Hybrid context with s appended to the
// allocation-site dimension and truncated to c.ObjDepth.
func (c *Context) WithAllocSite(s string) *Context {
	next := *c
	next.AllocSites = truncate(append(append([]string(nil), c.AllocSites...), s), c.ObjDepth)
	return &next
}

// WithType returns a Type context with t appended and truncated to
// c.ObjDepth.
func (c *Context) WithType(t string) *Context {
	next := *c
	next.Types = truncate(append(append([]string(nil), c.Types...), t), c.ObjDepth)
	return &next
}

// WithReceiver returns a Receiver context with r appended and truncated to
// c.ObjDepth.
func (c *Context) WithReceiver(r string) *Context {
	next := *c
	next.Receivers = truncate(append(append([]string(nil), c.Receivers...), r), c.ObjDepth)
	return &next
}
