// Package catalog loads the immutable language list that drives a release.
//
// A catalog record carries the iso code, human-readable names, a flag, and
// whether the upstream corpus provider publishes a dedicated edition dump for
// the language. The default catalog ships embedded in the binary; a
// languages.json path in the configuration overrides it. Malformed entries
// and duplicate iso codes are fatal load errors.
package catalog
