// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine_test

import (
	"testing"

	"github.com/lkgv/kcfa2/config"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/event"
	"github.com/stretchr/testify/require"
)

// buildPolyCallSite constructs a program where the same function is
// called from two distinct call sites with two distinct receivers, the
// shape that should produce more than one distinct context under any
// context-sensitive policy but collapse to one under 0-cfa.
func buildPolyCallSite() *event.Memory {
	src := event.NewMemory()
	src.Add("main",
		allocEvent("o_a", "ra", "obj"),
		allocEvent("A.id", "fa", "func"),
		event.Event{Kind: event.KindAttrStore, Obj: "ra", Attr: "id", Value: "fa"},
		event.Event{Kind: event.KindCall, CallID: "c1", Receiver: "ra", CalleeSymbol: "id", Target: "t1"},

		allocEvent("o_b", "rb", "obj"),
		allocEvent("A.id", "fb", "func"),
		event.Event{Kind: event.KindAttrStore, Obj: "rb", Attr: "id", Value: "fb"},
		event.Event{Kind: event.KindCall, CallID: "c2", Receiver: "rb", CalleeSymbol: "id", Target: "t2"},
	)
	src.Add("A.id", event.Event{Kind: event.KindCopy, Source: "self", Target: "return"})
	return src
}

// TestObjectSensitivityDistinguishesMoreContextsThanZeroCFA implements
// spec.md §8.6's context-sensitivity comparison (scenario E): 1-obj
// sensitivity should see two distinct contexts for "A.id" (one per
// receiver), while 0-cfa collapses both calls into the one empty context.
func TestObjectSensitivityDistinguishesMoreContextsThanZeroCFA(t *testing.T) {
	src := buildPolyCallSite()

	zeroCFA := config.Default()
	zeroCFA.ContextPolicy = domain.Policy0CFA
	zeroCFA.ObjDepth = 0
	aZero := newAnalysis(t, zeroCFA, src)

	oneObj := config.Default()
	oneObj.ContextPolicy = domain.Policy1Obj
	oneObj.ObjDepth = 1
	aObj := newAnalysis(t, oneObj, src)

	require.Less(t, aZero.Results().Stats.DistinctContexts, aObj.Results().Stats.DistinctContexts,
		"1-obj sensitivity must distinguish strictly more contexts than 0-cfa for polymorphic call sites")
}
