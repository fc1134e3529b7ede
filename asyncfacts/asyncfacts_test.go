// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asyncfacts_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lkgv/kcfa2/asyncfacts"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/event"
	"github.com/stretchr/testify/require"
)

func TestIndexFunctionSkipsNonAsyncKinds(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main", event.Event{Kind: event.KindCopy, Source: "x", Target: "y"})
	h.IndexSource(src, nil)
	require.Empty(t, h.Facts())
}

func TestAwaitResolvesByStringEqualityWithoutResolver(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("worker",
		event.Event{Kind: event.KindCoroutineDef, FuncSym: "worker.fetch", IsAsync: true},
		event.Event{Kind: event.KindAwait, AwaitID: "a1", AwaitedExpr: "worker.fetch"},
	)
	h.IndexSource(src, nil)

	target, ok := h.AwaitedBy("a1")
	require.True(t, ok)
	require.Equal(t, "worker.fetch", target)
	require.Len(t, h.AwaitersOf("worker.fetch"), 1)
}

// fakeResolver always reports the same points-to set regardless of
// which variable is queried, enough to exercise the resolver path.
type fakeResolver struct {
	pts domain.PointsToSet
}

func (r fakeResolver) PointsTo(string) domain.PointsToSet { return r.pts }

func TestAwaitResolvesThroughResolver(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("worker",
		event.Event{Kind: event.KindCoroutineDef, FuncSym: "worker.fetch", IsAsync: true},
		event.Event{Kind: event.KindAwait, AwaitID: "a1", AwaitedExpr: "some_var"},
	)

	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	coroObj := &domain.AbstractObject{AllocID: "worker.fetch", Ctx: ctx}
	resolver := fakeResolver{pts: domain.Singleton(coroObj)}

	h.IndexSource(src, resolver)

	target, ok := h.AwaitedBy("a1")
	require.True(t, ok)
	require.Equal(t, "worker.fetch", target)
}

func TestAwaitUnresolvedReturnsFalse(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("worker", event.Event{Kind: event.KindAwait, AwaitID: "a1", AwaitedExpr: "nothing_known"})
	h.IndexSource(src, nil)

	_, ok := h.AwaitedBy("a1")
	require.False(t, ok)
}

func TestTasksCreatedInGroupsByEnclosingFunction(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindTaskCreate, TaskID: "t1", CoroArg: "c1"},
		event.Event{Kind: event.KindTaskCreate, TaskID: "t2", CoroArg: "c2"},
	)
	src.Add("other", event.Event{Kind: event.KindTaskCreate, TaskID: "t3", CoroArg: "c3"})
	h.IndexSource(src, nil)

	require.Len(t, h.TasksCreatedIn("main"), 2)
	require.Len(t, h.TasksCreatedIn("other"), 1)
	require.Empty(t, h.TasksCreatedIn("nonexistent"))
}

func TestQueuesFlowingIntoDedups(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("producer",
		event.Event{Kind: event.KindQueueOp, QueueVar: "q", QueueID: "Q1", OpType: "put"},
		event.Event{Kind: event.KindQueueOp, QueueVar: "q", QueueID: "Q1", OpType: "put"},
		event.Event{Kind: event.KindQueueOp, QueueVar: "q", QueueID: "Q2", OpType: "put"},
		event.Event{Kind: event.KindQueueOp, QueueVar: "other", QueueID: "Q3", OpType: "put"},
	)
	h.IndexSource(src, nil)

	ids := h.QueuesFlowingInto("q")
	require.ElementsMatch(t, []string{"Q1", "Q2"}, ids)
}

func TestFutureClassifiedFromAllocWithFutureType(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindAlloc, AllocID: "fut1", Target: "f", Type: "future"},
		event.Event{Kind: event.KindAlloc, AllocID: "o1", Target: "x", Type: "obj"},
	)
	h.IndexSource(src, nil)

	stats := h.Statistics()
	require.Equal(t, 1, stats[asyncfacts.FactFuture])

	var futures []asyncfacts.Fact
	for _, f := range h.Facts() {
		if f.Kind == asyncfacts.FactFuture {
			futures = append(futures, f)
		}
	}
	require.Len(t, futures, 1)
	require.Equal(t, "fut1", futures[0].Event.AllocID)
	require.Equal(t, "main", futures[0].Fn)
}

func TestQueuePutAndGetAreDistinctKinds(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("worker",
		event.Event{Kind: event.KindQueueOp, QueueVar: "q", QueueID: "Q1", OpType: "put"},
		event.Event{Kind: event.KindQueueOp, QueueVar: "q", QueueID: "Q1", OpType: "get"},
	)
	h.IndexSource(src, nil)

	stats := h.Statistics()
	require.Equal(t, 1, stats[asyncfacts.FactQueuePut])
	require.Equal(t, 1, stats[asyncfacts.FactQueueGet])

	require.ElementsMatch(t, []string{"Q1"}, h.QueuesFlowingInto("q"))
	require.ElementsMatch(t, []string{"Q1"}, h.QueuesDrainedBy("q"))
}

func TestCallbackEdgeResolvesThroughResolver(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindCoroutineDef, FuncSym: "on_tick", IsAsync: true},
		event.Event{Kind: event.KindLoopCBSchedule, CBID: "cb1", API: "call_soon", CallbackExpr: "some_var"},
	)

	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	cbObj := &domain.AbstractObject{AllocID: "on_tick", Ctx: ctx}
	resolver := fakeResolver{pts: domain.Singleton(cbObj)}

	h.IndexSource(src, resolver)

	targets := h.CallbackTargets("cb1")
	require.Equal(t, []string{"on_tick"}, targets)

	stats := h.Statistics()
	require.Equal(t, 1, stats[asyncfacts.FactCallbackEdge])
	require.Equal(t, 1, stats[asyncfacts.FactLoopCBSchedule])
}

func TestCallbacksScheduledByAndAsyncGenerators(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindLoopCBSchedule, CBID: "cb1", API: "call_soon", CallbackExpr: "on_tick"},
		event.Event{Kind: event.KindCoroutineDef, FuncSym: "gen", IsAsyncGen: true},
		event.Event{Kind: event.KindCoroutineDef, FuncSym: "plain", IsAsyncGen: false},
	)
	h.IndexSource(src, nil)

	require.Len(t, h.CallbacksScheduledBy("main"), 1)
	gens := h.AsyncGenerators()
	require.Len(t, gens, 1)
	require.Equal(t, "gen", gens[0].Event.FuncSym)
}

func TestSyncPrimitivesByTypeGroups(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindSyncAlloc, SyncID: "s1", SyncKind: "lock"},
		event.Event{Kind: event.KindSyncAlloc, SyncID: "s2", SyncKind: "lock"},
		event.Event{Kind: event.KindSyncAlloc, SyncID: "s3", SyncKind: "semaphore"},
	)
	h.IndexSource(src, nil)

	grouped := h.SyncPrimitivesByType()
	require.Len(t, grouped["lock"], 2)
	require.Len(t, grouped["semaphore"], 1)
}

func TestStatisticsCountsByKind(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindTaskCreate, TaskID: "t1"},
		event.Event{Kind: event.KindTaskCreate, TaskID: "t2"},
		event.Event{Kind: event.KindStream, StreamID: "st1"},
	)
	h.IndexSource(src, nil)

	stats := h.Statistics()
	require.Equal(t, 2, stats[asyncfacts.FactTaskCreate])
	require.Equal(t, 1, stats[asyncfacts.FactStream])
}

func TestClearResetsState(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main", event.Event{Kind: event.KindTaskCreate, TaskID: "t1"})
	h.IndexSource(src, nil)
	require.NotEmpty(t, h.Facts())

	h.Clear()
	require.Empty(t, h.Facts())
	require.Empty(t, h.TasksCreatedIn("main"))
}

func TestWriteJSONLEmitsOneLinePerFact(t *testing.T) {
	h := asyncfacts.New()
	src := event.NewMemory()
	src.Add("main",
		event.Event{Kind: event.KindTaskCreate, TaskID: "t1"},
		event.Event{Kind: event.KindStream, StreamID: "st1"},
	)
	h.IndexSource(src, nil)

	var buf bytes.Buffer
	require.NoError(t, h.WriteJSONL(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"task_create"`)
}
