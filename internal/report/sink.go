package report

import (
	"fmt"
	"os"
	"sync"
)

// Sink receives run log lines. Injected as a capability so components never
// reach for a process-wide log file.
type Sink interface {
	Append(line string) error
}

// FileSink is an append-only text file sink. Lines are appended one write at
// a time; the controller is the only writer, so no file locking is needed.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Append writes one line to the log file.
func (s *FileSink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	return nil
}

// Reset truncates the log file. Called at the start of a fresh build run.
func (s *FileSink) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		return fmt.Errorf("reset run log: %w", err)
	}
	return nil
}

// Path returns the log file location.
func (s *FileSink) Path() string {
	return s.path
}

// NopSink discards all lines.
type NopSink struct{}

func (NopSink) Append(string) error { return nil }
