// internal/pipeline/scanner.go
package pipeline

import "bitap/internal/demux"

// Scanner is the minimal capability a worker needs.
// Any matcher set (including fakes in tests) can satisfy this.
type Scanner interface {
	Scan(seq []byte) ([]demux.Hit, error)
}

// ScannerFactory builds the private Scanner of one worker.
type ScannerFactory func() (Scanner, error)
