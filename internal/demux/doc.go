// Package demux assigns reads to barcodes. A Scanner owns one bitap.Matcher
// per barcode and rebinds them to every read it is given; it never imports
// app, cli, pipeline or writers.
package demux
