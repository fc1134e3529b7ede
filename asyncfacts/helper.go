// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asyncfacts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/event"
)

// Resolver is the subset of the fixpoint engine's query API asyncfacts
// needs to correlate an awaited/scheduled expression with the objects
// it may denote. A nil Resolver degrades correlation to plain string
// equality between an expression and a function symbol — weaker, but
// never a substring guess (spec §4.8's open question on avoiding
// fragile alloc-id parsing applies here too).
type Resolver interface {
	PointsTo(v string) domain.PointsToSet
}

// Helper accumulates async facts across every indexed function and
// answers the query API of spec §6.3/§6.4. It is context-insensitive by
// design, matching the secondary-pass nature of the async classifier:
// a single pass over every function's raw event stream, run once,
// independent from how many contexts the pointer engine analyzed that
// function under.
type Helper struct {
	facts []Fact

	awaiterIndex           map[string][]Fact    // coroutine func symbol -> awaits of it
	awaitedIndex           map[string]string    // await id -> resolved func symbol ("" if unresolved)
	taskCreatorIndex       map[string][]Fact    // enclosing function -> task_create facts
	callbackSchedulerIndex map[string][]Fact    // enclosing function -> loop_cb_schedule facts
	callbackTargetIndex    map[string][]string  // cb id -> resolved callee_edge targets
}

// New returns an empty Helper.
func New() *Helper {
	return &Helper{
		awaiterIndex:           make(map[string][]Fact),
		awaitedIndex:           make(map[string]string),
		taskCreatorIndex:       make(map[string][]Fact),
		callbackSchedulerIndex: make(map[string][]Fact),
		callbackTargetIndex:    make(map[string][]string),
	}
}

// IndexFunction classifies every async event in fn's stream.
func (h *Helper) IndexFunction(fn string, it event.Iterator, resolver Resolver) {
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		kind, ok := classify(ev)
		if !ok {
			continue
		}
		f := Fact{Kind: kind, Fn: fn, Event: ev}
		h.facts = append(h.facts, f)
		h.index(f, resolver)
	}
}

// IndexSource runs IndexFunction over every function src exposes.
func (h *Helper) IndexSource(src event.Source, resolver Resolver) {
	for _, fn := range src.Functions() {
		h.IndexFunction(fn, src.Events(fn), resolver)
	}
}

func (h *Helper) index(f Fact, resolver Resolver) {
	switch f.Kind {
	case FactTaskCreate:
		h.taskCreatorIndex[f.Fn] = append(h.taskCreatorIndex[f.Fn], f)
	case FactLoopCBSchedule:
		h.callbackSchedulerIndex[f.Fn] = append(h.callbackSchedulerIndex[f.Fn], f)
		targets := h.resolveCallbackTargets(f, resolver)
		h.callbackTargetIndex[f.Event.CBID] = targets
		h.facts = append(h.facts, Fact{Kind: FactCallbackEdge, Fn: f.Fn, Event: f.Event})
	case FactAwait:
		target := h.resolveAwaitedTarget(f, resolver)
		h.awaitedIndex[f.Event.AwaitID] = target
		if target != "" {
			h.awaiterIndex[target] = append(h.awaiterIndex[target], f)
		}
	}
}

// resolveAwaitedTarget maps an await's awaited expression to the
// function symbol of the coroutine it awaits, if determinable: through
// the resolver's points-to data when available (the awaited expression
// should denote objects whose alloc id is a registered coroutine's
// symbol — the same direct-tagging convention the engine itself uses to
// recognize callables), falling back to plain string equality against
// every known coroutine_def's FuncSym.
func (h *Helper) resolveAwaitedTarget(f Fact, resolver Resolver) string {
	if resolver != nil {
		for _, obj := range resolver.PointsTo(f.Event.AwaitedExpr).Objects() {
			if h.isCoroutine(obj.AllocID) {
				return obj.AllocID
			}
		}
	}
	if h.isCoroutine(f.Event.AwaitedExpr) {
		return f.Event.AwaitedExpr
	}
	return ""
}

// resolveCallbackTargets maps a loop_cb_schedule's callback expression to
// every function symbol it may invoke, mirroring resolveAwaitedTarget's
// points-to-first, string-equality-fallback pattern but collecting every
// match instead of the first, since callback_edge's callee_targets is a
// set rather than a single resolved symbol.
func (h *Helper) resolveCallbackTargets(f Fact, resolver Resolver) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(sym string) {
		if sym == "" || seen[sym] {
			return
		}
		seen[sym] = true
		out = append(out, sym)
	}
	if resolver != nil {
		for _, obj := range resolver.PointsTo(f.Event.CallbackExpr).Objects() {
			if h.isCoroutine(obj.AllocID) {
				add(obj.AllocID)
			}
		}
	}
	if h.isCoroutine(f.Event.CallbackExpr) {
		add(f.Event.CallbackExpr)
	}
	return out
}

func (h *Helper) isCoroutine(sym string) bool {
	for _, f := range h.facts {
		if f.Kind == FactCoroutineDef && f.Event.FuncSym == sym {
			return true
		}
	}
	return false
}

// Facts returns every indexed fact, in indexing order.
func (h *Helper) Facts() []Fact { return append([]Fact(nil), h.facts...) }

// AwaitersOf returns the await facts known to await the coroutine
// named funcSym (spec §6.4's "awaiters_of").
func (h *Helper) AwaitersOf(funcSym string) []Fact {
	return append([]Fact(nil), h.awaiterIndex[funcSym]...)
}

// AwaitedBy returns the resolved coroutine symbol for awaitID, or ""
// if unresolved (spec §6.4's "awaited_by").
func (h *Helper) AwaitedBy(awaitID string) (string, bool) {
	target, ok := h.awaitedIndex[awaitID]
	return target, ok && target != ""
}

// TasksCreatedIn returns the task_create facts recorded in fn.
func (h *Helper) TasksCreatedIn(fn string) []Fact {
	return append([]Fact(nil), h.taskCreatorIndex[fn]...)
}

// QueuesFlowingInto reports the queue ids that "put" operations on
// queueVar's target could denote, by scanning queue_put facts matching
// queueVar's variable name directly; a best-effort, context-insensitive
// join consistent with the rest of this pass.
func (h *Helper) QueuesFlowingInto(queueVar string) []string {
	return h.queueIDsForVar(FactQueuePut, queueVar)
}

// QueuesDrainedBy reports the queue ids that "get" operations on
// queueVar's target could denote, the symmetric counterpart of
// QueuesFlowingInto over queue_get facts.
func (h *Helper) QueuesDrainedBy(queueVar string) []string {
	return h.queueIDsForVar(FactQueueGet, queueVar)
}

func (h *Helper) queueIDsForVar(kind FactKind, queueVar string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range h.facts {
		if f.Kind != kind || f.Event.QueueVar != queueVar {
			continue
		}
		if f.Event.QueueID != "" && !seen[f.Event.QueueID] {
			seen[f.Event.QueueID] = true
			out = append(out, f.Event.QueueID)
		}
	}
	return out
}

// CallbacksScheduledBy returns the loop_cb_schedule facts recorded in
// fn (spec §6.4's "callbacks_scheduled_by").
func (h *Helper) CallbacksScheduledBy(fn string) []Fact {
	return append([]Fact(nil), h.callbackSchedulerIndex[fn]...)
}

// CallbackTargets returns the resolved callee function symbols a
// scheduled callback id may invoke — the callback_edge fact's
// callee_targets field (spec §6.3/§6.4).
func (h *Helper) CallbackTargets(cbID string) []string {
	return append([]string(nil), h.callbackTargetIndex[cbID]...)
}

// AsyncGenerators returns every coroutine_def fact marked as an async
// generator.
func (h *Helper) AsyncGenerators() []Fact {
	var out []Fact
	for _, f := range h.facts {
		if f.Kind == FactCoroutineDef && f.Event.IsAsyncGen {
			out = append(out, f)
		}
	}
	return out
}

// SyncPrimitivesByType groups sync_alloc facts by their sync kind
// (lock, semaphore, event, condition, ...).
func (h *Helper) SyncPrimitivesByType() map[string][]Fact {
	out := make(map[string][]Fact)
	for _, f := range h.facts {
		if f.Kind == FactSyncAlloc {
			out[f.Event.SyncKind] = append(out[f.Event.SyncKind], f)
		}
	}
	return out
}

// Statistics is a count of facts by kind, for the results bundle.
func (h *Helper) Statistics() map[FactKind]int {
	out := make(map[FactKind]int)
	for _, f := range h.facts {
		out[f.Kind]++
	}
	return out
}

// Clear drops every indexed fact, returning the Helper to its initial
// state.
func (h *Helper) Clear() {
	*h = *New()
}

// jsonlRecord is one exported line: the fact kind, enclosing function,
// and the underlying event payload.
type jsonlRecord struct {
	Kind FactKind    `json:"kind"`
	Fn   string      `json:"fn"`
	Event event.Event `json:"event"`
}

// WriteJSONL exports every fact as line-delimited JSON (spec §6.4's
// "facts export" output format).
func (h *Helper) WriteJSONL(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, f := range h.facts {
		if err := enc.Encode(jsonlRecord{Kind: f.Kind, Fn: f.Fn, Event: f.Event}); err != nil {
			return fmt.Errorf("asyncfacts: write jsonl: %w", err)
		}
	}
	return bw.Flush()
}
