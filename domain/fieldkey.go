// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import "fmt"

// FieldKeyKind discriminates what a FieldKey addresses on an abstract
// object: a named attribute, a container element, a dict value, or the
// collapsed "unknown" attribute used for dynamic attribute access.
type FieldKeyKind int

const (
	FieldAttr FieldKeyKind = iota
	FieldElem
	FieldValue
	FieldUnknown
)

// FieldKey is (kind, name?). Invariant (spec §3, testable property 4):
// Attr requires a non-empty Name; Elem, Value, Unknown require Name == "".
type FieldKey struct {
	Kind FieldKeyKind
	Name string
}

// Attr builds an attr(name) field key. Panics if name is empty, since the
// invariant is a programming-error guard, not a runtime condition callers
// can hit via untrusted input (name always comes from a parsed event
// field, §6.1, already validated by the adapter boundary).
func Attr(name string) FieldKey {
	if name == "" {
		panic("domain: Attr requires a non-empty name")
	}
	return FieldKey{Kind: FieldAttr, Name: name}
}

// Elem is the field key for list/tuple/set members.
func Elem() FieldKey { return FieldKey{Kind: FieldElem} }

// Value is the field key for dict values.
func Value() FieldKey { return FieldKey{Kind: FieldValue} }

// Unknown is the field key for dynamic/unresolved attribute access.
func Unknown() FieldKey { return FieldKey{Kind: FieldUnknown} }

// FieldFromToken maps an event's field-name token to a FieldKey following
// the load/store rule in spec §4.6: "elem"->elem, "value"->value,
// "unknown"->unknown, anything else -> attr(name).
func FieldFromToken(tok string) FieldKey {
	switch tok {
	case "elem":
		return Elem()
	case "value":
		return Value()
	case "unknown":
		return Unknown()
	default:
		return Attr(tok)
	}
}

func (k FieldKey) String() string {
	switch k.Kind {
	case FieldAttr:
		return fmt.Sprintf("attr(%s)", k.Name)
	case FieldElem:
		return "elem"
	case FieldValue:
		return "value"
	case FieldUnknown:
		return "unknown"
	default:
		return "?"
	}
}

// Key is the canonical string used for map keys / hashing.
func (k FieldKey) Key() string {
	return k.String()
}
