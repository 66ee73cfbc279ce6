// Package summary counts reads per barcode. Each barcode keeps a roaring
// bitmap of read ordinals, so reads claimed by several barcodes can be
// counted with set operations instead of per-read bookkeeping.
package summary

import (
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"bitap/internal/demux"
)

// Tally accumulates demux results. It is not safe for concurrent use; the
// pipeline delivers results from a single goroutine.
type Tally struct {
	names      []string
	perBarcode []*roaring.Bitmap
	skipped    *roaring.Bitmap
	reads      uint64
}

// NewTally prepares one bitmap per barcode name, in table order.
func NewTally(names []string) *Tally {
	t := &Tally{
		names:      names,
		perBarcode: make([]*roaring.Bitmap, len(names)),
		skipped:    roaring.New(),
	}
	for i := range t.perBarcode {
		t.perBarcode[i] = roaring.New()
	}
	return t
}

// Add records one result.
func (t *Tally) Add(r demux.Result) error {
	if r.Ordinal < 0 || int64(r.Ordinal) > math.MaxUint32 {
		return fmt.Errorf("summary: read ordinal %d out of range", r.Ordinal)
	}
	id := uint32(r.Ordinal)
	t.reads++
	if r.Skipped != nil {
		t.skipped.Add(id)
		return nil
	}
	for _, h := range r.Hits {
		if h.Index < 0 || h.Index >= len(t.perBarcode) {
			return fmt.Errorf("summary: barcode index %d out of range", h.Index)
		}
		t.perBarcode[h.Index].Add(id)
	}
	return nil
}

// BarcodeCount is the number of reads containing one barcode.
type BarcodeCount struct {
	Name  string
	Reads uint64
}

// Report is a snapshot of a Tally.
type Report struct {
	Reads      uint64
	Matched    uint64 // reads with at least one barcode
	Unmatched  uint64 // scanned reads with no barcode
	Ambiguous  uint64 // reads with two or more barcodes
	Skipped    uint64
	PerBarcode []BarcodeCount
}

// Report computes totals from the bitmaps.
func (t *Tally) Report() Report {
	rep := Report{Reads: t.reads, Skipped: t.skipped.GetCardinality()}

	once := roaring.New()
	twice := roaring.New()
	for i, bm := range t.perBarcode {
		rep.PerBarcode = append(rep.PerBarcode, BarcodeCount{Name: t.names[i], Reads: bm.GetCardinality()})
		twice.Or(roaring.And(once, bm))
		once.Or(bm)
	}
	rep.Matched = once.GetCardinality()
	rep.Ambiguous = twice.GetCardinality()
	rep.Unmatched = rep.Reads - rep.Matched - rep.Skipped
	return rep
}

// WriteTSV renders r as key/value lines followed by one line per barcode.
func WriteTSV(w io.Writer, r Report) error {
	rows := []struct {
		k string
		v uint64
	}{
		{"reads", r.Reads},
		{"matched", r.Matched},
		{"unmatched", r.Unmatched},
		{"ambiguous", r.Ambiguous},
		{"skipped", r.Skipped},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", row.k, row.v); err != nil {
			return err
		}
	}
	for _, bc := range r.PerBarcode {
		if _, err := fmt.Fprintf(w, "barcode:%s\t%d\n", bc.Name, bc.Reads); err != nil {
			return err
		}
	}
	return nil
}
