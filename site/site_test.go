// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site_test

import (
	"testing"

	"github.com/lkgv/kcfa2/site"
	"github.com/stretchr/testify/require"
)

func TestIDFormatsPositionAndKind(t *testing.T) {
	id := site.ID("mod.py", 10, 4, site.KindCall)
	require.Equal(t, "mod.py:10:4:call", id)
}

func TestFallbackNeverCollides(t *testing.T) {
	a := site.Fallback("mod", "alloc")
	b := site.Fallback("mod", "alloc")
	require.NotEqual(t, a, b)
}

func TestCallKeyIncludesFunctionAndBlock(t *testing.T) {
	withBlock := site.Call{SiteID: "s1", Fn: "f", Block: "bb0", Idx: 1}
	withoutBlock := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	require.NotEqual(t, withBlock.Key(), withoutBlock.Key())
}

func TestCallKeyEqualityForEqualFields(t *testing.T) {
	a := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	b := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	require.Equal(t, a.Key(), b.Key())
}

func TestCallKeyDiffersOnIndex(t *testing.T) {
	a := site.Call{SiteID: "s1", Fn: "f", Idx: 1}
	b := site.Call{SiteID: "s1", Fn: "f", Idx: 2}
	require.NotEqual(t, a.Key(), b.Key())
}
