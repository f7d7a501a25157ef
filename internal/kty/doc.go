// Package kty wraps the external dictionary build tool.
//
// It owns the invocation value (binary, operation, positional parameters,
// root directory flag), synchronous execution with captured output, the exit
// code classification policy, and the filtering of tool output lines down to
// the artifact confirmations worth logging. The Executor interface isolates
// process execution so higher layers and tests never spawn real commands.
//
// The classification table is a contract inherited from the tool's observed
// behaviour; preserve it rather than re-deriving it.
package kty
