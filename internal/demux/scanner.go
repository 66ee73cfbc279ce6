package demux

import (
	"fmt"

	"bitap/internal/barcode"
	"bitap/internal/bitap"
	"bitap/internal/fastq"
	"bitap/internal/iupac"
)

// Config holds matching parameters shared by every Scanner of a run.
type Config struct {
	Distance int            // max edit distance per barcode
	Alphabet bitap.Alphabet // symbols allowed in reads
	IUPAC    bool           // barcodes may carry degenerate IUPAC codes
}

// Hit is one barcode found in a read, with every candidate start.
type Hit struct {
	Barcode   barcode.Barcode
	Index     int // position of the barcode in the table
	Positions []int
}

// Result is the outcome for one read. Skipped is set when the read was not
// scanned because it holds a symbol outside the alphabet.
type Result struct {
	Source  string
	Ordinal int // 0-based position of the read across all inputs
	Read    fastq.Record
	Hits    []Hit
	Skipped error
}

// Matched reports whether any barcode was found.
func (r Result) Matched() bool { return len(r.Hits) > 0 }

// Scanner is not safe for concurrent use; build one per worker.
type Scanner struct {
	cfg      Config
	barcodes []barcode.Barcode
	matchers []*bitap.Matcher
}

// NewScanner validates the configuration and builds one Matcher per barcode.
func NewScanner(barcodes []barcode.Barcode, cfg Config) (*Scanner, error) {
	if err := bitap.CheckDistance(cfg.Distance); err != nil {
		return nil, err
	}
	if cfg.Alphabet.Len() == 0 {
		cfg.Alphabet = bitap.DNAN
	}

	var opts []bitap.Option
	if cfg.IUPAC {
		opts = append(opts, bitap.WithSymbolMatch(iupac.BaseMatch))
	}

	s := &Scanner{cfg: cfg, barcodes: barcodes, matchers: make([]*bitap.Matcher, len(barcodes))}
	for i, b := range barcodes {
		if cfg.IUPAC && !iupac.Valid([]byte(b.Seq)) {
			return nil, fmt.Errorf("barcode %q: %q is not an IUPAC sequence", b.Name, b.Seq)
		}
		m, err := bitap.New([]byte(b.Seq), cfg.Alphabet, opts...)
		if err != nil {
			return nil, fmt.Errorf("barcode %q: %w", b.Name, err)
		}
		s.matchers[i] = m
	}
	return s, nil
}

// Scan matches every barcode against seq, in table order. The first
// bitap error (an undefined symbol in seq) aborts the scan.
func (s *Scanner) Scan(seq []byte) ([]Hit, error) {
	var hits []Hit
	for i, m := range s.matchers {
		m.Rebind(seq)
		pos, err := m.Approximate(s.cfg.Distance)
		if err != nil {
			return nil, err
		}
		if len(pos) > 0 {
			hits = append(hits, Hit{Barcode: s.barcodes[i], Index: i, Positions: pos})
		}
	}
	// Drop the reference to seq; the caller may reuse its buffer.
	for _, m := range s.matchers {
		m.Rebind(nil)
	}
	return hits, nil
}

// Barcodes returns the table this Scanner was built from.
func (s *Scanner) Barcodes() []barcode.Barcode { return s.barcodes }
