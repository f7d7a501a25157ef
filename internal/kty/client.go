package kty

import (
	"context"
	"errors"
	"strings"
)

// Outcome captures one tool invocation's observable result.
type Outcome struct {
	ExitCode int
	Stdout   []string
	Stderr   []string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the external dictionary build tool.
type Client struct {
	binary  string
	rootDir string
	exec    Executor
}

// New constructs a tool client. rootDir is passed to every invocation as the
// tool's --root-dir flag.
func New(binary, rootDir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("tool binary required")
	}
	if strings.TrimSpace(rootDir) == "" {
		return nil, errors.New("tool root directory required")
	}
	client := &Client{
		binary:  binary,
		rootDir: rootDir,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Invocation builds the command value for an operation without running it.
func (c *Client) Invocation(operation string, positional []string) Invocation {
	return Invocation{
		Binary:     c.binary,
		Operation:  operation,
		Positional: positional,
		RootDir:    c.rootDir,
	}
}

// Run executes one tool invocation synchronously and returns its outcome.
// A nonzero exit code is reported through Outcome, not as an error.
func (c *Client) Run(ctx context.Context, operation string, positional []string) (Outcome, error) {
	inv := c.Invocation(operation, positional)
	code, stdout, stderr, err := c.exec.Run(ctx, inv.Binary, inv.Args())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
}

// Version probes the tool's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	code, stdout, _, err := c.exec.Run(ctx, c.binary, []string{"--version"})
	if err != nil {
		return "", err
	}
	if code != 0 || len(stdout) == 0 {
		return "", errors.New("tool version probe failed")
	}
	return strings.TrimSpace(stdout[0]), nil
}
