package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"bitap/internal/bitap"
	"bitap/internal/demux"
	"bitap/internal/fastq"
)

// Config controls the read pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)

	// SkipUndefined turns an undefined symbol in a read into a skipped
	// Result instead of aborting the run.
	SkipUndefined bool
}

type job struct {
	source  string
	ordinal int
	rec     fastq.Record
}

// ForEachRead reads every file in order, scans each read on one of
// cfg.Threads workers and calls visit once per read in input order, from a
// single goroutine. It returns the first error encountered, including
// context cancellation.
func ForEachRead(
	ctx context.Context,
	cfg Config,
	readFiles []string,
	newScanner ScannerFactory,
	visit func(demux.Result) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	// Build every scanner up front so configuration errors surface before
	// any input is opened.
	scanners := make([]Scanner, cfg.Threads)
	for i := range scanners {
		s, err := newScanner()
		if err != nil {
			return err
		}
		scanners[i] = s
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan demux.Result, cfg.Threads*2)

	// Feed work
	g.Go(func() error {
		defer close(jobs)
		ordinal := 0
		for _, fn := range readFiles {
			err := fastq.StreamPath(gctx, fn, func(rec fastq.Record) error {
				select {
				case jobs <- job{source: fn, ordinal: ordinal, rec: rec}:
					ordinal++
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for _, sc := range scanners {
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				res, err := scanOne(sc, j, cfg.SkipUndefined)
				if err != nil {
					return err
				}
				select {
				case results <- res:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	// Collector: restore input order.
	g.Go(func() error {
		pending := make(map[int]demux.Result, cfg.Threads*4)
		next := 0
		for res := range results {
			pending[res.Ordinal] = res
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(r); err != nil {
					return err
				}
			}
		}
		return nil
	})

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func scanOne(sc Scanner, j job, skipUndefined bool) (demux.Result, error) {
	res := demux.Result{Source: j.source, Ordinal: j.ordinal, Read: j.rec}
	hits, err := sc.Scan(j.rec.Seq)
	switch {
	case err == nil:
		res.Hits = hits
	case skipUndefined && errors.Is(err, bitap.ErrUndefinedSymbol):
		res.Skipped = err
	default:
		return res, fmt.Errorf("%s: record %d (%s): %w", j.source, j.rec.Num+1, j.rec.ID, err)
	}
	return res, nil
}
