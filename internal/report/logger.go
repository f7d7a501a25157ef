package report

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Logger emits run log lines to both a console writer and the persisted sink.
// Labelled events render as "[label]" padded to a fixed column, then the
// message, so the log stays grep- and diff-friendly.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	sink Sink
	err  error
}

const labelColumn = 15

// NewLogger builds a logger writing to out and sink. Either may be nil.
func NewLogger(out io.Writer, sink Sink) *Logger {
	if out == nil {
		out = io.Discard
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Logger{out: out, sink: sink}
}

// Event logs a labelled message.
func (l *Logger) Event(label, msg string) {
	l.Line(fmt.Sprintf("%-*s %s", labelColumn, "["+label+"]", msg))
}

// Eventf logs a labelled formatted message.
func (l *Logger) Eventf(label, format string, args ...any) {
	l.Event(label, fmt.Sprintf(format, args...))
}

// Line logs a raw line.
func (l *Logger) Line(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
	if err := l.sink.Append(line); err != nil && l.err == nil {
		l.err = err
	}
}

// Blank logs an empty separator line.
func (l *Logger) Blank() {
	l.Line("")
}

// EmitSorted logs a group's retained lines in lexicographic order,
// independent of the completion order that produced them. The input is not
// mutated, so re-emitting the same set yields identical output.
func (l *Logger) EmitSorted(lines []string) {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.Strings(sorted)
	for _, line := range sorted {
		l.Line(line)
	}
}

// Err returns the first sink failure observed, if any.
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
