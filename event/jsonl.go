// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// record is one line of the JSONL event-stream file: an Event plus the
// enclosing function name, which Event itself doesn't carry since the
// in-process Source interface already partitions by function.
type record struct {
	Fn string `json:"fn"`
	Event
}

// DecodeJSONL reads a line-delimited JSON event stream (one record per
// line, each carrying its enclosing function name under "fn") and
// returns an in-memory Source. This is the CLI's event-file format (spec
// §6.5); encoding/json is used directly since the wire format is a flat
// object per line with no need for a schema-aware codec.
func DecodeJSONL(r io.Reader) (*Memory, error) {
	m := NewMemory()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("event: decode jsonl line %d: %w", lineNo, err)
		}
		if rec.Fn == "" {
			return nil, fmt.Errorf("event: decode jsonl line %d: missing \"fn\"", lineNo)
		}
		m.Add(rec.Fn, rec.Event)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("event: decode jsonl: %w", err)
	}
	return m, nil
}
