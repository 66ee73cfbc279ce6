// Package bitap implements bit-parallel substring search over single-byte
// alphabets: Shift-Or (Baeza-Yates–Gonnet) for exact matches and the
// Wu-Manber extension for matches within a Levenshtein distance k.
//
// Both scans walk the haystack from its last symbol to its first against a
// mirrored needle, so the index at which a match completes is already the
// start of the occurrence in forward coordinates. No "end - len + 1"
// arithmetic is involved, which keeps start positions exact when the
// matched span is longer or shorter than the needle.
//
// A Matcher is not safe for concurrent use. Build one Matcher per needle
// per goroutine; Matchers share nothing.
//
// It never imports app, cli, pipeline or writers; keep it domain-only.
package bitap
