package kty

import (
	"regexp"
	"strings"
)

var ansiEscapeRe = regexp.MustCompile(`\x1b[@-_][0-?]*[ -/]*[@-~]`)

// CleanLine strips ANSI escape sequences from a tool output line.
func CleanLine(line string) string {
	return ansiEscapeRe.ReplaceAllString(line, "")
}

// FilterOptions controls which tool output lines are retained for the run log.
type FilterOptions struct {
	// Verbose: 0 retains nothing, 1 retains artifact confirmations (and
	// download progress when Downloads is set), 2 retains everything.
	Verbose int
	// Downloads additionally retains download progress markers.
	Downloads bool
}

// FilterLines cleans and filters captured stdout per the options. The
// returned lines are safe to sort and append to the persisted log.
func FilterLines(lines []string, opts FilterOptions) []string {
	if opts.Verbose <= 0 {
		return nil
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = CleanLine(line)
		if opts.Verbose >= 2 {
			kept = append(kept, line)
			continue
		}
		if strings.Contains(line, "Wrote yomitan dict") {
			kept = append(kept, line)
		}
		// "ownload" catches both "Download" and "download".
		if opts.Downloads && strings.Contains(line, "ownload") {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
