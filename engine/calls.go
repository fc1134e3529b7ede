// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
	"github.com/lkgv/kcfa2/worklist"
)

// processCall resolves one pending call item: direct, indirect (through
// a variable holding function objects), or method (through a receiver's
// attribute), then wires parameter passing and return value (spec
// §4.6 steps 1-3, §4.6.1, §4.6.2).
func (a *Analysis) processCall(c worklist.Call) bool {
	cs := site.Call{SiteID: c.CallID, Fn: c.SiteFn, Idx: c.SiteIdx}
	a.registerCallArgDeps(c)
	switch c.Kind {
	case worklist.CallDirect:
		return a.resolveDirect(c, cs)
	case worklist.CallIndirect:
		return a.resolveIndirect(c, cs)
	case worklist.CallMethod:
		return a.resolveMethod(c, cs)
	}
	return false
}

// registerCallArgDeps makes c live against every actual-argument and
// receiver variable it reads, so binding one of them after c was first
// visited still re-wires the call (spec §4.6's worklist liveness).
func (a *Analysis) registerCallArgDeps(c worklist.Call) {
	for _, arg := range c.Args {
		a.registerCallVarDep(c.CallerCtx, arg, c)
	}
	if c.Receiver != "" {
		a.registerCallVarDep(c.CallerCtx, c.Receiver, c)
	}
}

func (a *Analysis) resolveDirect(c worklist.Call, cs site.Call) bool {
	name := c.Callee
	if !a.functions[name] {
		if resolved, ok := a.resolveBySuffix(name); ok {
			name = resolved
		}
	}
	if !a.functions[name] {
		if s, ok := a.builtins.Lookup(name); ok {
			return a.applyBuiltin(s, c)
		}
		a.recordSoundness(c.CallID, "unresolved call target "+c.Callee)
		return a.applyBuiltin(nil, c)
	}
	calleeCtx := a.selector.OnCall(c.CallerCtx, cs, name, nil, "")
	changed := a.cg.AddEdge(c.CallerCtx, cs, name, calleeCtx)
	if a.ensureGenerated(name, calleeCtx) {
		changed = true
	}
	if a.wireParams(c, calleeCtx, name, nil) {
		changed = true
	}
	if a.wireReturn(c, calleeCtx) {
		changed = true
	}
	return changed
}

func (a *Analysis) resolveBySuffix(name string) (string, bool) {
	for fn := range a.functions {
		if fn == name || hasDotSuffix(fn, name) {
			return fn, true
		}
	}
	return "", false
}

func hasDotSuffix(fn, name string) bool {
	suffix := "." + name
	return len(fn) > len(suffix) && fn[len(fn)-len(suffix):] == suffix
}

func (a *Analysis) resolveIndirect(c worklist.Call, cs site.Call) bool {
	a.registerCallVarDep(c.CallerCtx, c.Callee, c)
	changed := false
	found := false
	for _, obj := range a.env.Get(c.CallerCtx, c.Callee).Objects() {
		fnName, ok := a.isFunctionObject(obj)
		if !ok {
			continue
		}
		found = true
		calleeCtx := a.selector.OnCall(c.CallerCtx, cs, fnName, nil, "")
		if a.cg.AddEdge(c.CallerCtx, cs, fnName, calleeCtx) {
			changed = true
		}
		if a.ensureGenerated(fnName, calleeCtx) {
			changed = true
		}
		if a.wireParams(c, calleeCtx, fnName, nil) {
			changed = true
		}
		if a.wireReturn(c, calleeCtx) {
			changed = true
		}
	}
	if !found {
		a.recordSoundness(c.CallID, "indirect call target not yet resolved to a known function")
		if a.applyBuiltin(nil, c) {
			changed = true
		}
	}
	return changed
}

func (a *Analysis) resolveMethod(c worklist.Call, cs site.Call) bool {
	changed := false
	found := false
	for _, recvObj := range a.env.Get(c.CallerCtx, c.Receiver).Objects() {
		a.registerCallHeapDep(recvObj, domain.Attr(c.Callee), c)
		methodPts := a.heap.Get(recvObj, domain.Attr(c.Callee))
		for _, mobj := range methodPts.Objects() {
			fnName, ok := a.isFunctionObject(mobj)
			if !ok {
				continue
			}
			found = true
			calleeCtx := a.selector.OnCall(c.CallerCtx, cs, fnName, recvObj, recvObj.AllocID)
			a.recordReceiverChain(calleeCtx, c.CallerCtx, recvObj)
			if a.cg.AddEdge(c.CallerCtx, cs, fnName, calleeCtx) {
				changed = true
			}
			if a.ensureGenerated(fnName, calleeCtx) {
				changed = true
			}
			if a.wireParams(c, calleeCtx, fnName, recvObj) {
				changed = true
			}
			if a.wireReturn(c, calleeCtx) {
				changed = true
			}
		}
	}
	if !found {
		a.recordSoundness(c.CallID, "method "+c.Callee+" not resolved on any receiver object")
		if a.applyBuiltin(nil, c) {
			changed = true
		}
	}
	return changed
}

// recordReceiverChain extends the receiver chain available to
// allocations executing under calleeCtx: the caller's own chain (if it
// is itself inside a method body) plus this call's receiver, truncated
// to the configured object depth (spec §4.3's fingerprint derivation).
func (a *Analysis) recordReceiverChain(calleeCtx, callerCtx *domain.Context, recv *domain.AbstractObject) {
	key := calleeCtx.Key()
	if _, ok := a.ctxReceivers[key]; ok {
		return
	}
	prev := a.ctxReceivers[callerCtx.Key()]
	chain := append(append([]*domain.AbstractObject(nil), prev...), recv)
	if len(chain) > a.cfg.ObjDepth && a.cfg.ObjDepth > 0 {
		chain = chain[len(chain)-a.cfg.ObjDepth:]
	}
	a.ctxReceivers[key] = chain
}

// wireParams binds actual arguments to formal parameters in the callee
// context, including constructor/receiver "self" binding (spec
// §4.6.1). recv is the resolved receiver object for method calls, nil
// otherwise.
func (a *Analysis) wireParams(c worklist.Call, calleeCtx *domain.Context, calleeFn string, recv *domain.AbstractObject) bool {
	params := a.formalParams(calleeFn, len(c.Args))
	changed := false
	start := 0
	if len(params) > 0 && params[0] == "self" {
		switch {
		case recv != nil:
			if a.updateEnv(calleeCtx, "self", domain.Singleton(recv)) {
				changed = true
			}
		case c.Receiver != "":
			a.registerCallVarDep(c.CallerCtx, c.Receiver, c)
			if a.updateEnv(calleeCtx, "self", a.env.Get(c.CallerCtx, c.Receiver)) {
				changed = true
			}
		case c.Target != "":
			// Constructor call: the target variable is the freshly
			// created instance, bound to self in the callee.
			a.registerCallVarDep(c.CallerCtx, c.Target, c)
			targetPts := a.env.Get(c.CallerCtx, c.Target)
			if targetPts.Len() == 0 {
				obj := a.allocFresh(c.CallerCtx, "ctor:"+c.CallID)
				targetPts = domain.Singleton(obj)
				if a.updateEnv(c.CallerCtx, c.Target, targetPts) {
					changed = true
				}
			}
			if a.updateEnv(calleeCtx, "self", targetPts) {
				changed = true
			}
		}
		start = 1
	}
	for i, argVar := range c.Args {
		fi := start + i
		if fi >= len(params) {
			break
		}
		a.registerCallVarDep(c.CallerCtx, argVar, c)
		if a.updateEnv(calleeCtx, params[fi], a.env.Get(c.CallerCtx, argVar)) {
			changed = true
		}
	}
	return changed
}

// wireReturn copies the callee's reserved "return" variable into the
// call's target variable in the caller's own context (spec §4.6.2). It
// registers against "return" unconditionally, before reading it, so a
// callee body generated in this same pass (and not yet processed) still
// wakes this call once its own return constraint runs.
func (a *Analysis) wireReturn(c worklist.Call, calleeCtx *domain.Context) bool {
	if c.Target == "" {
		return false
	}
	a.registerCallVarDep(calleeCtx, "return", c)
	return a.updateEnv(c.CallerCtx, c.Target, a.env.Get(calleeCtx, "return"))
}

// allocFresh creates a fresh object as if ctx itself were the allocation
// site — used by constructor wiring and the builtin bridge.
func (a *Analysis) allocFresh(ctx *domain.Context, allocID string) *domain.AbstractObject {
	allocCtx := a.selector.OnAlloc(ctx, allocID, "obj")
	a.contexts[allocCtx.Key()] = allocCtx
	a.stats.ObjectsCreated++
	return &domain.AbstractObject{AllocID: allocID, Ctx: allocCtx}
}
