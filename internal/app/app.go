// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"bitap/internal/barcode"
	"bitap/internal/bitap"
	"bitap/internal/cli"
	"bitap/internal/demux"
	"bitap/internal/fastq"
	"bitap/internal/logging"
	"bitap/internal/pipeline"
	"bitap/internal/summary"
	"bitap/internal/version"
	"bitap/internal/writers"
)

const toolName = "bitap-demux"

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2 // bad flags or unusable input
	ExitRuntime  = 3 // write or other runtime failure
	ExitCanceled = 130
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fset := cli.NewFlagSet(toolName)
	fset.SetOutput(io.Discard)

	if len(argv) == 0 {
		cli.PrintUsage(fset, outw)
		return flushExit(outw, stderr, ExitOK)
	}

	opts, err := cli.ParseArgs(fset, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.PrintUsage(fset, outw)
			return flushExit(outw, stderr, ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		cli.PrintUsage(fset, outw)
		return flushExit(outw, stderr, ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", toolName, version.Version)
		return flushExit(outw, stderr, ExitOK)
	}

	log := logging.New(stderr, opts.LogFormat, opts.Quiet)
	return run(parent, opts, stdout, stderr, log)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// flushExit flushes w and returns code, or 3 when the flush fails for a
// reason other than a closed pipe.
func flushExit(w *bufio.Writer, stderr io.Writer, code int) int {
	if e := w.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return ExitRuntime
	}
	return code
}

func run(parent context.Context, opts cli.Options, stdout, stderr io.Writer, log *logging.Logger) int {
	start := time.Now()

	bcs, err := barcode.LoadTSV(opts.BarcodeFile)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	cfg := demux.Config{
		Distance: opts.Distance,
		Alphabet: bitap.AlphabetOf(strings.ToUpper(opts.Alphabet)),
		IUPAC:    opts.IUPAC,
	}
	// Validate the table once so a bad barcode is a usage error, not a
	// failure of the first worker.
	if _, err := demux.NewScanner(bcs, cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", opts.BarcodeFile, err)
		return ExitUsage
	}
	if maxLen := barcode.MaxLen(bcs); opts.Distance >= maxLen {
		log.Warn("distance is not below the longest barcode; every read position will match",
			"distance", opts.Distance, "longest_barcode", maxLen)
	}

	thr := opts.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	log.Info("start",
		"barcodes", len(bcs), "reads_files", len(opts.ReadFiles),
		"distance", opts.Distance, "threads", thr, "iupac", opts.IUPAC)

	outs, err := openOutputs(opts, stdout)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitRuntime
	}

	hitCh, hitErr := writers.StartHitWriter(outs.hits, opts.Format, opts.Header, thr*4)
	var nmCh chan<- fastq.Record
	var nmErr <-chan error
	if outs.nomatch != nil {
		nmCh, nmErr = writers.StartNoMatchWriter(outs.nomatch, thr*4)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tally := summary.NewTally(barcode.Names(bcs))
	progress := logging.NewProgress(log, opts.ProgressEvery)
	seen, matched := 0, 0

	visit := func(r demux.Result) error {
		if r.Skipped != nil {
			log.WithFile(r.Source).Warn("skipped read", "record", r.Read.Num+1, "err", r.Skipped)
		}
		if err := tally.Add(r); err != nil {
			return err
		}
		seen++
		switch {
		case r.Matched():
			matched++
			if err := send(ctx, hitCh, r); err != nil {
				return err
			}
		case nmCh != nil:
			if err := send(ctx, nmCh, r.Read); err != nil {
				return err
			}
		}
		progress.Reads(seen, matched)
		return nil
	}

	perr := pipeline.ForEachRead(ctx, pipeline.Config{
		Threads:       thr,
		SkipUndefined: opts.OnUndefined == cli.OnUndefinedSkip,
	}, opts.ReadFiles, func() (pipeline.Scanner, error) {
		return demux.NewScanner(bcs, cfg)
	}, visit)

	close(hitCh)
	werr := <-hitErr
	if nmCh != nil {
		close(nmCh)
		werr = errors.Join(werr, <-nmErr)
	}
	werr = errors.Join(werr, outs.Close())

	if werr != nil && !writers.IsBrokenPipe(werr) {
		_, _ = fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if perr != nil {
		return exitCode(perr, stderr)
	}

	rep := tally.Report()
	if opts.SummaryFile != "" {
		if err := writeSummary(opts.SummaryFile, stdout, rep); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitRuntime
		}
	}
	log.Info("done",
		"reads", rep.Reads, "matched", rep.Matched, "unmatched", rep.Unmatched,
		"ambiguous", rep.Ambiguous, "skipped", rep.Skipped,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return ExitOK
}

// exitCode reports perr and maps it to an exit status.
func exitCode(perr error, stderr io.Writer) int {
	if errors.Is(perr, context.Canceled) {
		return ExitCanceled
	}
	_, _ = fmt.Fprintln(stderr, perr)
	switch {
	case errors.Is(perr, bitap.ErrUndefinedSymbol),
		errors.Is(perr, fastq.ErrMalformed),
		errors.Is(perr, fs.ErrNotExist):
		return ExitUsage
	}
	return ExitRuntime
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
