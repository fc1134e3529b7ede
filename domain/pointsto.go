// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

// PointsToSet is an immutable set of abstract objects with Join equal to
// set union and a monotone order ⊑ = ⊆ (spec §3, §4.1). Every mutating
// operation returns a new set; callers never mutate one in place, which
// keeps the set safe to share across Env/Heap entries the way the spec's
// design notes ask for (persistent union in place of literal hash-consed
// immutable sets — see DESIGN.md for why a plain copy-on-write map was
// chosen over a hand-rolled persistent trie).
type PointsToSet struct {
	objs map[string]*AbstractObject
}

// Empty is the bottom element.
var Empty = PointsToSet{}

// Singleton returns a points-to set containing exactly obj.
func Singleton(obj *AbstractObject) PointsToSet {
	return PointsToSet{objs: map[string]*AbstractObject{obj.Key(): obj}}
}

// Len reports the number of distinct objects.
func (s PointsToSet) Len() int { return len(s.objs) }

// Objects returns the set's members as a slice, order unspecified.
func (s PointsToSet) Objects() []*AbstractObject {
	out := make([]*AbstractObject, 0, len(s.objs))
	for _, o := range s.objs {
		out = append(out, o)
	}
	return out
}

// Has reports whether obj is a member.
func (s PointsToSet) Has(obj *AbstractObject) bool {
	if s.objs == nil {
		return false
	}
	_, ok := s.objs[obj.Key()]
	return ok
}

// Join returns the set union of s and t (testable property 7):
// join(a,b) == a.objects ∪ b.objects; join(a,∅) == a; join(a,a) == a.
func (s PointsToSet) Join(t PointsToSet) PointsToSet {
	if len(t.objs) == 0 {
		return s
	}
	if len(s.objs) == 0 {
		return t
	}
	merged := make(map[string]*AbstractObject, len(s.objs)+len(t.objs))
	for k, v := range s.objs {
		merged[k] = v
	}
	changed := false
	for k, v := range t.objs {
		if _, ok := merged[k]; !ok {
			merged[k] = v
			changed = true
		}
	}
	if !changed {
		return s
	}
	return PointsToSet{objs: merged}
}

// Equal reports whether s and t contain the same objects.
func (s PointsToSet) Equal(t PointsToSet) bool {
	if len(s.objs) != len(t.objs) {
		return false
	}
	for k := range s.objs {
		if _, ok := t.objs[k]; !ok {
			return false
		}
	}
	return true
}

// Add returns a new set with obj inserted, and whether that changed
// anything relative to s.
func (s PointsToSet) Add(obj *AbstractObject) (PointsToSet, bool) {
	return s.Join(Singleton(obj)), !s.Has(obj)
}
