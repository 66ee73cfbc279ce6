// internal/app/outputs.go
package app

import (
	"errors"
	"fmt"
	"io"

	"bitap/internal/cli"
	"bitap/internal/summary"
	"bitap/internal/writers"
)

type outputs struct {
	hits    io.WriteCloser
	nomatch io.WriteCloser // nil with --no-nomatches
}

func openOutputs(opts cli.Options, stdout io.Writer) (*outputs, error) {
	hits, err := writers.Create(opts.Out, stdout)
	if err != nil {
		return nil, fmt.Errorf("--out: %w", err)
	}
	o := &outputs{hits: hits}
	if opts.NoMatches != "" {
		nm, err := writers.Create(opts.NoMatches, stdout)
		if err != nil {
			_ = hits.Close()
			return nil, fmt.Errorf("--nomatches: %w", err)
		}
		o.nomatch = nm
	}
	return o, nil
}

func (o *outputs) Close() error {
	err := o.hits.Close()
	if o.nomatch != nil {
		err = errors.Join(err, o.nomatch.Close())
	}
	return err
}

func writeSummary(path string, stdout io.Writer, rep summary.Report) error {
	w, err := writers.Create(path, stdout)
	if err != nil {
		return fmt.Errorf("--summary: %w", err)
	}
	if err := summary.WriteTSV(w, rep); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
