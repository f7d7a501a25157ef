package matrix

import (
	"wty/internal/catalog"
)

// Entry is the resolved axis specification for one dictionary type: the
// ordered source list and a pure function from a source to its targets.
type Entry struct {
	Type    Type
	Sources []string
	Targets func(source string) []string
}

// Jobs expands one source of the entry into its concrete job values.
func (e Entry) Jobs(source string) []Job {
	targets := e.Targets(source)
	jobs := make([]Job, 0, len(targets))
	for _, target := range targets {
		jobs = append(jobs, Job{Type: e.Type, Source: source, Target: target})
	}
	return jobs
}

// Plan resolves the job matrix for the catalog. When only is non-empty the
// plan is restricted to that dictionary type. Deterministic given the same
// catalog; performs no I/O.
func Plan(cat *catalog.Catalog, only Type) []Entry {
	isos := catalog.WithoutSentinel(cat.ISOs())
	editions := cat.Editions()
	editionsNoSentinel := catalog.WithoutSentinel(editions)

	entries := []Entry{
		{
			Type:    TypeMain,
			Sources: editions,
			Targets: func(source string) []string {
				if source == catalog.Sentinel {
					return []string{catalog.Sentinel}
				}
				return isos
			},
		},
		{
			Type:    TypeIPA,
			Sources: editionsNoSentinel,
			Targets: func(string) []string { return isos },
		},
		{
			Type:    TypeGlossary,
			Sources: editionsNoSentinel,
			Targets: func(string) []string { return isos },
		},
		{
			Type:    TypeIPAMerged,
			Sources: editionsNoSentinel,
			Targets: func(string) []string { return []string{MergeTarget} },
		},
	}

	if only == "" {
		return entries
	}
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.Type == only {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
