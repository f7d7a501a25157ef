// Package matrix derives the job matrix for a release run.
//
// For each dictionary type it resolves which languages act as sources and, per
// source, which targets apply: main dictionaries are built from every edition
// language toward every language (the Simple English sentinel maps only to
// itself), ipa and glossary dictionaries exclude the sentinel on both axes,
// and merged IPA dictionaries take a single synthetic target per edition.
// Planning is a pure function of the catalog.
//
// The package also owns the artifact filename patterns used to gather
// per-type statistics after a build.
package matrix
