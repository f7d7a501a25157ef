package kty

import (
	"fmt"
	"strings"
)

// Invocation is one fully-specified external tool command. Building the
// argument vector is separated from process execution so it stays testable.
type Invocation struct {
	Binary     string
	Operation  string
	Positional []string
	RootDir    string
}

// Args returns the argument vector following the binary name.
func (inv Invocation) Args() []string {
	args := make([]string, 0, len(inv.Positional)+2)
	args = append(args, inv.Operation)
	args = append(args, inv.Positional...)
	args = append(args, fmt.Sprintf("--root-dir=%s", inv.RootDir))
	return args
}

// String renders the full command line for dry runs and diagnostics.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Binary}, inv.Args()...), " ")
}
