// Package release drives a full dictionary release build: the download
// pre-pass, the job matrix over every dictionary type, deterministic run log
// aggregation, artifact stats, and index extraction.
package release
