// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the fixpoint engine (spec §4.6, C8): the
// PLANNED -> RUNNING -> COMPLETE|STOPPED state machine that drives the
// constraint and call worklists to a fixpoint, lazily generating each
// function's constraints once per (function, context) contour it is
// reached in — mirroring how the teacher's SSA-based analysis generates
// a function's constraints once per call-graph node (gen.go's genq /
// makeFunctionObject), except the "contour" here is explicit since there
// is no intermediate nodeid layer.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lkgv/kcfa2/builtin"
	"github.com/lkgv/kcfa2/callgraph"
	"github.com/lkgv/kcfa2/config"
	"github.com/lkgv/kcfa2/ctxsel"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/event"
	"github.com/lkgv/kcfa2/heapmodel"
	"github.com/lkgv/kcfa2/kerrors"
	"github.com/lkgv/kcfa2/worklist"
)

// State is a stage in the engine's lifecycle (spec §5).
type State int

const (
	StatePlanned State = iota
	StateRunning
	StateComplete
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePlanned:
		return "planned"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateStopped:
		return "stopped"
	default:
		return "?"
	}
}

// Statistics accompanies every result bundle (spec §6.4).
type Statistics struct {
	ObjectsCreated       int
	ConstraintsProcessed int
	CallsProcessed       int
	SkippedEvents        int
	Iterations           int
	DistinctContexts     int
}

// Results is the final (or partial) output of a run (spec §6.4).
type Results struct {
	Env       *domain.Env
	Heap      *domain.Heap
	CallGraph *callgraph.Graph
	Stats     Statistics
	Warnings  []kerrors.SoundnessWarning
	Partial   bool
}

// Analysis is the fixpoint engine. Construct with New, then Plan,
// Initialize, Run, Results in sequence.
type Analysis struct {
	cfg      *config.Config
	selector ctxsel.Selector
	src      event.Source
	builtins *builtin.Registry
	logger   *slog.Logger

	env *domain.Env
	heap *domain.Heap
	cg   *callgraph.Graph

	functions map[string]bool
	contexts  map[string]*domain.Context

	generated    map[string]bool
	ctxReceivers map[string][]*domain.AbstractObject
	siteCounter  map[string]int

	constraintWL *worklist.Queue[string, worklist.Constraint]
	callWL       *worklist.Queue[string, worklist.Call]

	varConstraintDeps  map[string]map[string]worklist.Constraint
	varCallDeps        map[string]map[string]worklist.Call
	heapConstraintDeps map[string]map[string]worklist.Constraint
	heapCallDeps       map[string]map[string]worklist.Call

	warnSeen map[string]bool
	warnings []kerrors.SoundnessWarning

	stats   Statistics
	skipped int
	state   State
	partial bool
}

// New constructs an Analysis in the PLANNED state.
func New(cfg *config.Config, src event.Source, logger *slog.Logger) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sel, err := ctxsel.New(cfg.ContextPolicy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	reg := builtin.NewRegistry()
	for name, s := range cfg.ExtraBuiltins {
		reg.Register(name, s)
	}
	return &Analysis{
		cfg:          cfg,
		selector:     sel,
		src:          src,
		builtins:     reg,
		logger:       logger,
		env:          domain.NewEnv(),
		heap:         domain.NewHeap(),
		cg:           callgraph.New(),
		functions:    make(map[string]bool),
		contexts:     make(map[string]*domain.Context),
		generated:    make(map[string]bool),
		ctxReceivers: make(map[string][]*domain.AbstractObject),
		siteCounter:  make(map[string]int),
		constraintWL:       worklist.New[string, worklist.Constraint](worklist.FIFO),
		callWL:             worklist.New[string, worklist.Call](worklist.FIFO),
		varConstraintDeps:  make(map[string]map[string]worklist.Constraint),
		varCallDeps:        make(map[string]map[string]worklist.Call),
		heapConstraintDeps: make(map[string]map[string]worklist.Constraint),
		heapCallDeps:       make(map[string]map[string]worklist.Call),
		warnSeen:           make(map[string]bool),
		state:        StatePlanned,
	}, nil
}

// Plan registers every function the source exposes. It generates no
// constraints; Initialize does that for the registered set.
func (a *Analysis) Plan() {
	for _, fn := range a.src.Functions() {
		a.functions[fn] = true
	}
}

// Initialize moves PLANNED -> RUNNING, generating every registered
// function's constraints under the policy's empty context.
func (a *Analysis) Initialize() {
	empty := a.selector.Empty()
	a.contexts[empty.Key()] = empty
	for fn := range a.functions {
		a.ensureGenerated(fn, empty)
	}
	a.state = StateRunning
}

// Run drives the worklists to a fixpoint, honoring the configured
// iteration cap and wall-clock timeout. On exhaustion it marks the
// result partial and moves to STOPPED instead of COMPLETE.
func (a *Analysis) Run() {
	var deadline time.Time
	if a.cfg.TimeoutSeconds > 0 {
		deadline = time.Now().Add(time.Duration(a.cfg.TimeoutSeconds * float64(time.Second)))
	}
	maxIter := a.cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 10000
	}

	for {
		if a.stats.Iterations >= maxIter {
			a.partial = true
			a.logger.Warn("iteration cap reached", "max_iterations", maxIter)
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			a.partial = true
			a.logger.Warn("timeout reached", "timeout_seconds", a.cfg.TimeoutSeconds)
			break
		}

		changed := false
		for !a.constraintWL.Empty() {
			c := a.constraintWL.Pop()
			if a.processConstraint(c) {
				changed = true
			}
			a.stats.ConstraintsProcessed++
		}
		for !a.callWL.Empty() {
			call := a.callWL.Pop()
			if a.processCall(call) {
				changed = true
			}
			a.stats.CallsProcessed++
		}
		a.stats.Iterations++
		if !changed {
			break
		}
	}

	if a.partial {
		a.state = StateStopped
	} else {
		a.state = StateComplete
	}
}

// Results reads out the final or partial result bundle. Valid after
// COMPLETE or STOPPED.
func (a *Analysis) Results() Results {
	a.stats.DistinctContexts = len(a.contexts)
	a.stats.SkippedEvents = a.skipped
	return Results{
		Env:       a.env,
		Heap:      a.heap,
		CallGraph: a.cg,
		Stats:     a.stats,
		Warnings:  append([]kerrors.SoundnessWarning(nil), a.warnings...),
		Partial:   a.partial,
	}
}

// State reports the engine's current lifecycle stage.
func (a *Analysis) State() State { return a.state }

// PointsTo is a read-only query over the current environment (spec §9's
// supplemented query API): the points-to set of v in context ctx.
func (a *Analysis) PointsTo(ctx *domain.Context, v string) domain.PointsToSet {
	return a.env.Get(ctx, v)
}

// PointsToEmpty queries v under the policy's empty context, the shape
// the context-insensitive asyncfacts.Resolver interface needs.
func (a *Analysis) PointsToEmpty(v string) domain.PointsToSet {
	return a.env.Get(a.selector.Empty(), v)
}

// EmptyContextResolver adapts an Analysis to asyncfacts.Resolver's
// single-argument PointsTo shape, structurally (no import of
// asyncfacts, to keep the dependency one-directional).
type EmptyContextResolver struct{ A *Analysis }

func (r EmptyContextResolver) PointsTo(v string) domain.PointsToSet {
	return r.A.PointsToEmpty(v)
}

// CallTargets returns the resolved callees recorded for a call id issued
// from callerCtx (spec §9).
func (a *Analysis) CallTargets(callerCtx *domain.Context, callID string) []callgraph.Edge {
	out := make([]callgraph.Edge, 0)
	for _, e := range a.cg.Edges() {
		if e.CallerCtx.Key() == callerCtx.Key() && e.Site.SiteID == callID {
			out = append(out, e)
		}
	}
	return out
}

func (a *Analysis) recordSoundness(siteID, msg string) {
	key := siteID + "|" + msg
	if a.warnSeen[key] {
		return
	}
	a.warnSeen[key] = true
	a.warnings = append(a.warnings, kerrors.SoundnessWarning{Site: siteID, Message: msg})
}

func (a *Analysis) skip(fn string, ev event.Event, reason string) {
	a.skipped++
	a.logger.Debug("skipping event", "fn", fn, "kind", ev.Kind, "reason", reason)
}

// ensureGenerated dispatches fn's events under ctx exactly once — the
// lazy per-contour constraint generation step. Returns whether anything
// was pushed/changed as a result.
func (a *Analysis) ensureGenerated(fn string, ctx *domain.Context) bool {
	key := fn + "@" + ctx.Key()
	if a.generated[key] {
		return false
	}
	a.generated[key] = true
	a.contexts[ctx.Key()] = ctx
	if !a.functions[fn] {
		return false
	}
	it := a.src.Events(fn)
	changed := false
	idx := 0
	for {
		ev, ok := it.Next()
		if !ok {
			break
		}
		if a.dispatch(ev, ctx, fn, &idx) {
			changed = true
		}
	}
	return changed
}

func (a *Analysis) nextSiteIdx(fn string) int {
	a.siteCounter[fn]++
	return a.siteCounter[fn]
}

func (a *Analysis) dispatch(ev event.Event, ctx *domain.Context, fn string, idx *int) bool {
	switch ev.Kind {
	case event.KindAlloc:
		return a.handleAlloc(ev, ctx)

	case event.KindCopy:
		if ev.Source == "" || ev.Target == "" {
			a.skip(fn, ev, "copy missing source/target")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintCopy, Ctx: ctx, Source: ev.Source, Target: ev.Target}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindAttrLoad:
		if ev.Obj == "" || ev.Target == "" {
			a.skip(fn, ev, "attr_load missing obj/target")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintLoad, Ctx: ctx, Source: ev.Obj, Target: ev.Target, Field: domain.FieldFromToken(fieldTokenOr(ev.Attr, "unknown"))}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindAttrStore:
		if ev.Obj == "" || ev.Value == "" {
			a.skip(fn, ev, "attr_store missing obj/value")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintStore, Ctx: ctx, Source: ev.Value, Target: ev.Obj, Field: domain.FieldFromToken(fieldTokenOr(ev.Attr, "unknown"))}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindElemLoad:
		if ev.Container == "" || ev.Target == "" {
			a.skip(fn, ev, "elem_load missing container/target")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintLoad, Ctx: ctx, Source: ev.Container, Target: ev.Target, Field: elemField(ev.ContainerKind)}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindElemStore:
		if ev.Container == "" || ev.Value == "" {
			a.skip(fn, ev, "elem_store missing container/value")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintStore, Ctx: ctx, Source: ev.Value, Target: ev.Container, Field: elemField(ev.ContainerKind)}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindCall:
		return a.enqueueCall(ev, ctx, fn, idx)

	case event.KindReturn:
		if ev.Source == "" {
			a.skip(fn, ev, "return missing source")
			return false
		}
		c := worklist.Constraint{Kind: worklist.ConstraintCopy, Ctx: ctx, Source: ev.Source, Target: "return"}
		a.constraintWL.Push(c.Key(), c)
		return false

	case event.KindCoroutineDef, event.KindAwait, event.KindTaskCreate, event.KindTaskState,
		event.KindQueueAlloc, event.KindQueueOp, event.KindSyncAlloc, event.KindSyncOp,
		event.KindLoopCBSchedule, event.KindStream:
		// Consumed only by the asyncfacts helper; the pointer engine
		// passes over these (spec §6.1).
		return false

	default:
		a.skip(fn, ev, "unrecognized event kind")
		return false
	}
}

func fieldTokenOr(tok, fallback string) string {
	if tok == "" {
		return fallback
	}
	return tok
}

func elemField(containerKind string) domain.FieldKey {
	if containerKind == "dict" {
		return domain.Value()
	}
	return domain.Elem()
}

func (a *Analysis) enqueueCall(ev event.Event, ctx *domain.Context, fn string, idx *int) bool {
	if ev.CallID == "" {
		a.skip(fn, ev, "call missing call_id")
		return false
	}
	kind := worklist.CallDirect
	callee := ev.CalleeSymbol
	switch {
	case ev.Receiver != "":
		kind = worklist.CallMethod
		if ev.CalleeSymbol == "" {
			a.skip(fn, ev, "method call missing callee_symbol")
			return false
		}
	case ev.CalleeSymbol != "":
		kind = worklist.CallDirect
	case ev.CalleeExpr != "":
		kind = worklist.CallIndirect
		callee = ev.CalleeExpr
	default:
		a.skip(fn, ev, "call missing callee_symbol/callee_expr")
		return false
	}
	// Index calls by their position in fn's own event stream, so the same
	// call event keeps the same site identity in every context fn is
	// generated under.
	*idx++
	call := worklist.Call{
		Kind: kind, CallID: ev.CallID, CallerCtx: ctx,
		Callee: callee, Receiver: ev.Receiver, Args: ev.Args,
		Target: ev.Target, SiteFn: fn, SiteIdx: *idx,
	}
	a.callWL.Push(call.Key(), call)
	return false
}

func (a *Analysis) handleAlloc(ev event.Event, ctx *domain.Context) bool {
	if ev.AllocID == "" || ev.Target == "" || ev.Type == "" {
		a.skip("", ev, "alloc missing alloc_id/target/type")
		return false
	}
	allocCtx := a.selector.OnAlloc(ctx, ev.AllocID, ev.Type)
	a.contexts[allocCtx.Key()] = allocCtx
	obj := heapmodel.MakeObject(ev.AllocID, allocCtx, a.ctxReceivers[ctx.Key()], a.cfg.ObjDepth)
	a.stats.ObjectsCreated++

	changed := a.updateEnv(ctx, ev.Target, domain.Singleton(obj))
	// Container literal elements are wired as ordinary store constraints
	// rather than joined once here, so an element variable bound after
	// the literal executes (e.g. through later call wiring) still
	// reaches the container (spec §4.6's worklist liveness).
	switch ev.Type {
	case "list", "tuple", "set":
		for _, e := range ev.Elements {
			c := worklist.Constraint{Kind: worklist.ConstraintStore, Ctx: ctx, Source: e, Target: ev.Target, Field: domain.Elem()}
			a.constraintWL.Push(c.Key(), c)
		}
	case "dict":
		for _, v := range ev.Values {
			c := worklist.Constraint{Kind: worklist.ConstraintStore, Ctx: ctx, Source: v, Target: ev.Target, Field: domain.Value()}
			a.constraintWL.Push(c.Key(), c)
		}
	}
	return changed
}

func (a *Analysis) processConstraint(c worklist.Constraint) bool {
	switch c.Kind {
	case worklist.ConstraintCopy:
		a.registerConstraintVarDep(c.Ctx, c.Source, c)
		return a.updateEnv(c.Ctx, c.Target, a.env.Get(c.Ctx, c.Source))

	case worklist.ConstraintLoad:
		a.registerConstraintVarDep(c.Ctx, c.Source, c)
		var delta domain.PointsToSet
		for _, o := range a.env.Get(c.Ctx, c.Source).Objects() {
			a.registerConstraintHeapDep(o, c.Field, c)
			delta = delta.Join(a.heap.Get(o, c.Field))
		}
		if c.Field.Kind == domain.FieldUnknown {
			a.recordSoundness(c.Source, "dynamic/unknown attribute access collapsed to a single field")
		}
		return a.updateEnv(c.Ctx, c.Target, delta)

	case worklist.ConstraintStore:
		a.registerConstraintVarDep(c.Ctx, c.Source, c)
		a.registerConstraintVarDep(c.Ctx, c.Target, c)
		changed := false
		for _, o := range a.env.Get(c.Ctx, c.Target).Objects() {
			if a.updateHeap(o, c.Field, a.env.Get(c.Ctx, c.Source)) {
				changed = true
			}
		}
		return changed
	}
	return false
}

// isFunctionObject reports whether obj denotes a callable by checking
// that its allocation id is the name of a registered function, rather
// than substring-matching the allocation id (the Python prototype's
// "func" in alloc_id check was fragile — spec §4.6's open question). The
// alloc event's type field is not consulted.
func (a *Analysis) isFunctionObject(obj *domain.AbstractObject) (string, bool) {
	if a.functions[obj.AllocID] {
		return obj.AllocID, true
	}
	return "", false
}

func isQualifiedWithClass(fn string) bool {
	return strings.Contains(fn, ".")
}

// formalParams computes the callee's formal parameter list (spec
// §4.6.1): the adapter's own signature if it provided one, else a
// synthetic "self, param_0, ..." for dotted (class-qualified) names,
// else plain "param_0, param_1, ...".
func (a *Analysis) formalParams(fn string, argCount int) []string {
	if ps := a.src.Params(fn); ps != nil {
		return ps
	}
	offset := 0
	if isQualifiedWithClass(fn) {
		offset = 1
	}
	params := make([]string, argCount+offset)
	if offset == 1 {
		params[0] = "self"
	}
	for i := 0; i < argCount; i++ {
		params[offset+i] = fmt.Sprintf("param_%d", i)
	}
	return params
}
