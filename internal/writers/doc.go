// Package writers turns demux results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSONL, FASTQ).
//   - demux stays domain-only; pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
