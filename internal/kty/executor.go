package kty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the binary and returns its exit code together with the
	// captured stdout and stderr lines. A non-nil error means the process
	// could not be run at all; a nonzero exit code alone is not an error.
	Run(ctx context.Context, binary string, args []string) (int, []string, []string, error)
}

// NewCommandExecutor returns the real os/exec backed executor.
func NewCommandExecutor() Executor {
	return commandExecutor{}
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (int, []string, []string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, nil, nil, fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once
	var outLines, errLines []string

	scan := func(r io.Reader, dst *[]string) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			*dst = append(*dst, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout, &outLines)
	go scan(stderr, &errLines)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, outLines, errLines, fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), outLines, errLines, nil
		}
		return 0, outLines, errLines, fmt.Errorf("wait command: %w", err)
	}
	return 0, outLines, errLines, nil
}
