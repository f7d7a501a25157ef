package report

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stats aggregates a file count and total size in bytes.
type Stats struct {
	Files int
	Bytes int64
}

// HumanBytes renders the total size for log output.
func (s Stats) HumanBytes() string {
	return humanize.IBytes(uint64(s.Bytes))
}

// ScanOptions filters which files a Scan counts. At most one of Pattern and
// Suffix is normally set; with neither, every file counts.
type ScanOptions struct {
	// Pattern must match the base filename in full.
	Pattern *regexp.Regexp
	// Suffix must terminate the base filename.
	Suffix string
}

// Scan walks root and totals the matching files. A missing root yields zero
// stats, matching a run that has produced nothing yet.
func Scan(root string, opts ScanOptions) (Stats, error) {
	var stats Stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if opts.Pattern != nil && !opts.Pattern.MatchString(name) {
			return nil
		}
		if opts.Suffix != "" && !strings.HasSuffix(name, opts.Suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// PreviousFiles logs what already sits under path before a run begins, to
// warn about stale state.
func PreviousFiles(log *Logger, label, path, suffix string) {
	stats, err := Scan(path, ScanOptions{Suffix: suffix})
	if err != nil {
		log.Eventf(label, "Could not inspect %s: %v", path, err)
		return
	}

	fileMsg := "files"
	if suffix != "" {
		fileMsg = suffix + " files"
	}
	if stats.Files > 0 {
		log.Eventf(label, "Found previous %s (%s, %d files) @ %s", fileMsg, stats.HumanBytes(), stats.Files, path)
	} else {
		log.Eventf(label, "Clean directory. No previous %s found @ %s", fileMsg, path)
	}
}
