package writers

import (
	"bufio"
	"io"

	"bitap/internal/fastq"
)

// StartNoMatchWriter spins up a writer goroutine that emits each record as
// a complete FASTQ entry.
func StartNoMatchWriter(out io.Writer, bufSize int) (chan<- fastq.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan fastq.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		errCh <- drain(in, func() error {
			bw := bufio.NewWriterSize(out, 64<<10)
			for rec := range in {
				if err := fastq.Write(bw, rec); err != nil {
					return err
				}
			}
			return bw.Flush()
		})
	}()
	return in, errCh
}
