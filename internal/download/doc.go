// Package download runs the corpus download pre-pass before dictionary jobs
// dispatch. Downloads are strictly sequential and best-effort: a failed
// edition is logged and the pass moves on.
package download
