package fastq

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is matched by every FormatError.
var ErrMalformed = errors.New("malformed FASTQ")

// FormatError reports a structural problem at a 1-based input line.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

func (e *FormatError) Unwrap() error { return ErrMalformed }

// Record is one four-line FASTQ entry. Num is the 0-based record index
// within its source.
type Record struct {
	Num  int
	ID   string // header line without the leading '@'
	Seq  []byte // upper-cased
	Qual []byte
}

// Stream parses FASTQ from r and calls emit once per record, in order.
// It returns promptly with ctx.Err() when ctx is done, and stops at the
// first error returned by emit. Blank lines between records are ignored.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // long-read platforms emit very long lines
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		lines [4][]byte
		n     int
		ln    int
		num   int
	)
	for sc.Scan() {
		ln++
		line := bytes.TrimRight(sc.Bytes(), "\r")
		if n == 0 && len(line) == 0 {
			continue
		}
		lines[n] = append(lines[n][:0], line...)
		n++
		if n < 4 {
			continue
		}
		n = 0

		if len(lines[0]) == 0 || lines[0][0] != '@' {
			return &FormatError{Line: ln - 3, Msg: "record header must start with '@'"}
		}
		if len(lines[2]) == 0 || lines[2][0] != '+' {
			return &FormatError{Line: ln - 1, Msg: "separator line must start with '+'"}
		}
		rec := Record{
			Num:  num,
			ID:   string(lines[0][1:]),
			Seq:  bytes.ToUpper(lines[1]),
			Qual: append([]byte(nil), lines[3]...),
		}
		num++
		if err := emit(rec); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if n != 0 {
		return &FormatError{Line: ln, Msg: fmt.Sprintf("truncated record (%d of 4 lines)", n)}
	}
	return nil
}

// StreamPath is Stream over Open(path); errors carry the path.
func StreamPath(ctx context.Context, path string, emit func(Record) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := Stream(ctx, rc, emit); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Write renders rec as four FASTQ lines.
func Write(w io.Writer, rec Record) error {
	_, err := fmt.Fprintf(w, "@%s\n%s\n+\n%s\n", rec.ID, rec.Seq, rec.Qual)
	return err
}
