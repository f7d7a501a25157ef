// Package report owns the persisted run log and artifact statistics.
//
// The run log is a plain append-only text file of "[label] message" lines,
// written only by the controlling goroutine. Lines captured from concurrent
// workers are sorted lexicographically before emission so two runs over the
// same inputs produce byte-identical logs regardless of worker completion
// order. Statistics are computed from artifact filenames alone.
package report
