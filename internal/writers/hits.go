package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"bitap/internal/demux"
	"bitap/pkg/api"
)

// Hit output formats.
const (
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

// HitHeader is the optional first TSV line.
const HitHeader = "read\tbarcode\tbarcode_seq\tpositions"

type hitEncoder interface {
	header() error
	encode(demux.Result) error
}

// hitFormats is the format registry (format -> encoder constructor).
var hitFormats = map[string]func(*bufio.Writer) hitEncoder{
	FormatTSV:   func(w *bufio.Writer) hitEncoder { return &tsvEncoder{w: w} },
	FormatJSONL: func(w *bufio.Writer) hitEncoder { return &jsonlEncoder{enc: json.NewEncoder(w)} },
}

// HitFormats lists the registered formats.
func HitFormats() []string { return []string{FormatTSV, FormatJSONL} }

// StartHitWriter spins up a writer goroutine that emits one line per
// (read, barcode) hit. Results without hits produce no output.
func StartHitWriter(out io.Writer, format string, header bool, bufSize int) (chan<- demux.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan demux.Result, bufSize)
	errCh := make(chan error, 1)

	go func() {
		errCh <- drain(in, func() error {
			newEnc, ok := hitFormats[format]
			if !ok {
				return fmt.Errorf("unknown hit format %q (no writer registered)", format)
			}
			bw := bufio.NewWriterSize(out, 64<<10)
			enc := newEnc(bw)
			if header {
				if err := enc.header(); err != nil {
					return err
				}
			}
			for r := range in {
				if err := enc.encode(r); err != nil {
					return err
				}
			}
			return bw.Flush()
		})
	}()
	return in, errCh
}

// drain runs write and then discards whatever is left in in, so senders
// never block on a writer that has failed.
func drain[T any](in <-chan T, write func() error) error {
	err := write()
	for range in {
	}
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}

/* -------------------------------- TSV -------------------------------- */

type tsvEncoder struct {
	w   *bufio.Writer
	buf []byte
}

func (e *tsvEncoder) header() error {
	_, err := e.w.WriteString(HitHeader + "\n")
	return err
}

func (e *tsvEncoder) encode(r demux.Result) error {
	for _, h := range r.Hits {
		b := e.buf[:0]
		b = append(b, r.Read.Seq...)
		b = append(b, '\t')
		b = append(b, h.Barcode.Name...)
		b = append(b, '\t')
		b = append(b, h.Barcode.Seq...)
		b = append(b, '\t')
		b = AppendPositions(b, h.Positions)
		b = append(b, '\n')
		e.buf = b
		if _, err := e.w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// AppendPositions renders positions as "[6, 9]".
func AppendPositions(b []byte, pos []int) []byte {
	b = append(b, '[')
	for i, p := range pos {
		if i > 0 {
			b = append(b, ',', ' ')
		}
		b = strconv.AppendInt(b, int64(p), 10)
	}
	return append(b, ']')
}

/* ------------------------------- JSONL ------------------------------- */

type jsonlEncoder struct {
	enc *json.Encoder
}

func (e *jsonlEncoder) header() error { return nil }

func (e *jsonlEncoder) encode(r demux.Result) error {
	for _, h := range r.Hits {
		if err := e.enc.Encode(ToAPIHit(r, h)); err != nil {
			return err
		}
	}
	return nil
}

// ToAPIHit converts one hit to the v1 wire type.
func ToAPIHit(r demux.Result, h demux.Hit) api.HitV1 {
	return api.HitV1{
		ReadID:      r.Read.ID,
		Read:        string(r.Read.Seq),
		Barcode:     h.Barcode.Name,
		BarcodeSeq:  h.Barcode.Seq,
		Positions:   h.Positions,
		SourceFile:  r.Source,
		ReadOrdinal: r.Ordinal,
	}
}
