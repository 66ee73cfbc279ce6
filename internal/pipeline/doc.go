// Package pipeline streams FASTQ reads through per-worker Scanners and
// delivers one demux.Result per read, in input order.
//
// The only contract to implement is Scanner. This keeps the pipeline
// swappable and testable.
package pipeline
