// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heapmodel_test

import (
	"testing"

	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/heapmodel"
	"github.com/stretchr/testify/require"
)

func TestMakeObjectWithoutReceiversHasEmptyFingerprint(t *testing.T) {
	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	obj := heapmodel.MakeObject("o1", ctx, nil, 2)
	require.Empty(t, obj.Recv)
	require.Equal(t, "o1", obj.AllocID)
}

func TestMakeObjectDepthZeroDropsFingerprint(t *testing.T) {
	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	recv := &domain.AbstractObject{AllocID: "r1", Ctx: ctx}
	obj := heapmodel.MakeObject("o1", ctx, []*domain.AbstractObject{recv}, 0)
	require.Empty(t, obj.Recv)
}

func TestMakeObjectTruncatesToDepth(t *testing.T) {
	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	r1 := &domain.AbstractObject{AllocID: "r1", Ctx: ctx}
	r2 := &domain.AbstractObject{AllocID: "r2", Ctx: ctx}
	r3 := &domain.AbstractObject{AllocID: "r3", Ctx: ctx}

	obj := heapmodel.MakeObject("o1", ctx, []*domain.AbstractObject{r1, r2, r3}, 2)
	require.Len(t, obj.Recv, 2)
	require.Equal(t, "r2", obj.Recv[0].AllocID)
	require.Equal(t, "r3", obj.Recv[1].AllocID)
}

func TestMakeObjectKeepsAllWhenFewerThanDepth(t *testing.T) {
	ctx := domain.EmptyContext(domain.FamilyObject, 0, 2)
	r1 := &domain.AbstractObject{AllocID: "r1", Ctx: ctx}
	obj := heapmodel.MakeObject("o1", ctx, []*domain.AbstractObject{r1}, 5)
	require.Len(t, obj.Recv, 1)
}
