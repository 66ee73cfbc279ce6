// pkg/api/hits_v1.go
package api

// HitV1 is the stable JSONL schema for one barcode found in one read.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type HitV1 struct {
	ReadID      string `json:"read_id"`
	Read        string `json:"read"`
	Barcode     string `json:"barcode"`
	BarcodeSeq  string `json:"barcode_seq"`
	Positions   []int  `json:"positions"`
	SourceFile  string `json:"source_file,omitempty"`
	ReadOrdinal int    `json:"read_ordinal"`
}
