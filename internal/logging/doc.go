// Package logging configures slog output for the CLI.
//
// It provides a compact console handler (timestamp, level, component prefix,
// key=value attrs) and a JSON handler, selected through configuration. The
// structured operational log is distinct from the deterministic run log kept
// by the report package; this one is for humans watching a run, that one is
// the persisted record shipped with a release.
package logging
