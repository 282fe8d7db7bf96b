// Package normalize — entry processing.
// Applies the normalizer to a chronology, one goroutine per entry up to a limit.
package normalize

import (
	"context"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/internal/logger"
)

// Allower decides whether an entry may be normalized.
type Allower interface {
	Allow(e core.Entry) bool
}

// Stats counts what Process did.
type Stats struct {
	Processed int
	Skipped   int
}

// Process writes entryFinal for every entry that passes filter and has
// non-blank entryOriginal. Other fields are never modified and skipped
// entries are left exactly as they were. workers <= 0 means GOMAXPROCS.
func Process(ctx context.Context, n core.Normalizer, entries []core.Entry, filter Allower, workers int) (Stats, error) {
	log := logger.FromContext(ctx)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var processed, skipped atomic.Int64
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range entries {
		if err := gctx.Err(); err != nil {
			break
		}
		e := &entries[i]
		if (filter != nil && !filter.Allow(*e)) || strings.TrimSpace(e.EntryOriginal) == "" {
			skipped.Add(1)
			log.Debug("Skipping entry", "id", e.ID, "documentType", e.DocumentType)
			continue
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.SetFinal(n.Normalize(e.EntryOriginal))
			processed.Add(1)
			return nil
		})
	}

	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return Stats{Processed: int(processed.Load()), Skipped: int(skipped.Load())}, err
}
