// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctxsel_test

import (
	"testing"

	"github.com/lkgv/kcfa2/ctxsel"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/site"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownPolicy(t *testing.T) {
	_, err := ctxsel.New(domain.Policy("bogus"))
	require.Error(t, err)
}

func TestZeroCFANeverExtends(t *testing.T) {
	sel, err := ctxsel.New(domain.Policy0CFA)
	require.NoError(t, err)
	empty := sel.Empty()
	cs := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	next := sel.OnCall(empty, cs, "g", nil, "")
	require.Equal(t, empty.Key(), next.Key(), "0-cfa must collapse every call to the empty context")
}

func TestTwoCFATracksCallStrings(t *testing.T) {
	sel, err := ctxsel.New(domain.Policy2CFA)
	require.NoError(t, err)
	empty := sel.Empty()
	cs1 := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	cs2 := site.Call{SiteID: "s2", Fn: "g", Idx: 1}
	cs3 := site.Call{SiteID: "s3", Fn: "h", Idx: 1}

	c1 := sel.OnCall(empty, cs1, "g", nil, "")
	require.Equal(t, 1, c1.Len())
	c2 := sel.OnCall(c1, cs2, "h", nil, "")
	require.Equal(t, 2, c2.Len())
	c3 := sel.OnCall(c2, cs3, "i", nil, "")
	require.Equal(t, 2, c3.Len(), "2-cfa truncates to the 2 most recent call sites")
}

func TestObjectSensitivityUsesReceiverAlloc(t *testing.T) {
	sel, err := ctxsel.New(domain.Policy1Obj)
	require.NoError(t, err)
	empty := sel.Empty()
	recv := &domain.AbstractObject{AllocID: "inst@site", Ctx: empty}
	cs := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	next := sel.OnCall(empty, cs, "m", recv, "")
	require.Equal(t, 1, next.Len())
	require.Contains(t, next.AllocSites, "inst@site")
}

func TestReceiverSensitivityUnchangedWithoutReceiver(t *testing.T) {
	sel, err := ctxsel.New(domain.Policy1Rcv)
	require.NoError(t, err)
	empty := sel.Empty()
	cs := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	next := sel.OnCall(empty, cs, "g", nil, "")
	require.Equal(t, empty.Key(), next.Key())
}
