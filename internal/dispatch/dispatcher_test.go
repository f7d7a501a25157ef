package dispatch

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"wty/internal/kty"
	"wty/internal/logging"
	"wty/internal/matrix"
)

type fakeExecutor struct {
	mu    sync.Mutex
	calls [][]string
	run   func(args []string) (int, []string, []string, error)
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) (int, []string, []string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{binary}, args...))
	f.mu.Unlock()
	if f.run != nil {
		return f.run(args)
	}
	return 0, nil, nil, nil
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestDispatcher(t *testing.T, exec kty.Executor, jobs, verbose int, dryRun bool) *Dispatcher {
	t.Helper()
	client, err := kty.New("kty", t.TempDir(), kty.WithExecutor(exec))
	if err != nil {
		t.Fatal(err)
	}
	return New(client, jobs, verbose, dryRun, logging.NewNop())
}

func mainJobs(source string, targets ...string) []matrix.Job {
	jobs := make([]matrix.Job, 0, len(targets))
	for _, target := range targets {
		jobs = append(jobs, matrix.Job{Type: matrix.TypeMain, Source: source, Target: target})
	}
	return jobs
}

func TestRunGroupAllTargets(t *testing.T) {
	exec := &fakeExecutor{
		run: func(args []string) (int, []string, []string, error) {
			return 0, []string{"Wrote yomitan dict kty-" + args[1] + "-el.zip"}, nil, nil
		},
	}
	d := newTestDispatcher(t, exec, 4, 1, false)

	results := d.RunGroup(context.Background(), mainJobs("el", "ja", "ku", "tr"))
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, target := range []string{"ja", "ku", "tr"} {
		res := results[i]
		if res.Job.Target != target {
			t.Errorf("result %d target = %s, want %s (submission order)", i, res.Job.Target, target)
		}
		if res.Class != kty.ClassSuccess || res.Err != nil {
			t.Errorf("result %d = class %v err %v", i, res.Class, res.Err)
		}
		if len(res.Lines) != 1 || !strings.Contains(res.Lines[0], "kty-"+target+"-el.zip") {
			t.Errorf("result %d lines = %v", i, res.Lines)
		}
	}
}

func TestRunGroupSkipsGlossarySelfPairs(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDispatcher(t, exec, 2, 0, false)

	jobs := []matrix.Job{
		{Type: matrix.TypeGlossary, Source: "el", Target: "el"},
		{Type: matrix.TypeGlossary, Source: "el", Target: "ja"},
	}
	results := d.RunGroup(context.Background(), jobs)
	if len(results) != 1 || results[0].Job.Target != "ja" {
		t.Fatalf("results = %+v, want only el→ja", results)
	}
	if exec.callCount() != 1 {
		t.Errorf("got %d invocations, want 1", exec.callCount())
	}
}

func TestRunGroupClassification(t *testing.T) {
	tests := []struct {
		name string
		job  matrix.Job
		exit int
		want kty.Class
	}{
		{"success", matrix.Job{Type: matrix.TypeMain, Source: "el", Target: "ja"}, 0, kty.ClassSuccess},
		{"no entries", matrix.Job{Type: matrix.TypeMain, Source: "el", Target: "ja"}, 1, kty.ClassNoEntries},
		{"invalid pairing", matrix.Job{Type: matrix.TypeGlossary, Source: "el", Target: "ja"}, 2, kty.ClassSkipped},
		{"english gap", matrix.Job{Type: matrix.TypeIPA, Source: "en", Target: "ku"}, 7, kty.ClassSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{
				run: func([]string) (int, []string, []string, error) {
					return tt.exit, []string{"Wrote yomitan dict x.zip"}, nil, nil
				},
			}
			d := newTestDispatcher(t, exec, 1, 1, false)
			results := d.RunGroup(context.Background(), []matrix.Job{tt.job})
			if len(results) != 1 {
				t.Fatalf("got %d results", len(results))
			}
			if results[0].Class != tt.want {
				t.Errorf("class = %v, want %v", results[0].Class, tt.want)
			}
			if tt.want != kty.ClassSuccess && len(results[0].Lines) != 0 {
				t.Errorf("benign non-success retained lines: %v", results[0].Lines)
			}
		})
	}
}

func TestRunGroupFatalCancelsGroup(t *testing.T) {
	block := make(chan struct{})
	exec := &fakeExecutor{
		run: func(args []string) (int, []string, []string, error) {
			if args[1] == "ja" {
				return 9, []string{"partial output"}, []string{"panic: boom"}, nil
			}
			<-block
			return 0, nil, nil, nil
		},
	}
	// Single worker so the fatal job finishes before later submissions run.
	d := newTestDispatcher(t, exec, 1, 0, false)

	done := make(chan []Result, 1)
	go func() {
		done <- d.RunGroup(context.Background(), mainJobs("el", "ja", "ku", "tr"))
	}()
	close(block)
	results := <-done

	var fatal *Result
	for i := range results {
		if results[i].Err == nil && results[i].Class == kty.ClassFatal {
			fatal = &results[i]
		}
	}
	if fatal == nil {
		t.Fatal("no fatal result recorded")
	}
	if fatal.ExitCode != 9 || len(fatal.Stderr) == 0 {
		t.Errorf("fatal result = %+v, want exit 9 with stderr", fatal)
	}
}

type countingExecutor struct {
	mu       sync.Mutex
	inFlight int
	max      int
}

func (c *countingExecutor) Run(_ context.Context, _ string, _ []string) (int, []string, []string, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.max {
		c.max = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return 0, nil, nil, nil
}

func (c *countingExecutor) maxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.max
}

func TestRunGroupBoundsConcurrency(t *testing.T) {
	exec := &countingExecutor{}
	d := newTestDispatcher(t, exec, 2, 0, false)

	jobs := mainJobs("el", "ja", "ku", "tr", "ru", "pl", "nl", "it", "fr")
	results := d.RunGroup(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for _, res := range results {
		if res.Err != nil || res.Class != kty.ClassSuccess {
			t.Fatalf("result = %+v", res)
		}
	}

	if got := exec.maxInFlight(); got > d.Workers() {
		t.Errorf("max concurrent invocations = %d, want <= %d", got, d.Workers())
	}
}

func TestRunGroupCancelledContext(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDispatcher(t, exec, 2, 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := d.RunGroup(ctx, mainJobs("el", "ja", "ku"))
	for _, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %v err = %v, want context.Canceled", res.Job, res.Err)
		}
	}
	if exec.callCount() != 0 {
		t.Errorf("got %d invocations after cancel, want 0", exec.callCount())
	}
}

type interruptedExecutor struct {
	cancel context.CancelFunc
}

func (e interruptedExecutor) Run(context.Context, string, []string) (int, []string, []string, error) {
	// The process dies to the cancellation signal mid-run: exit -1, no
	// spawn error.
	e.cancel()
	return -1, nil, nil, nil
}

func TestRunGroupInterruptReportedAsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := newTestDispatcher(t, interruptedExecutor{cancel: cancel}, 1, 0, false)
	results := d.RunGroup(ctx, mainJobs("el", "ja"))
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", res.Err)
	}
	if res.Class == kty.ClassFatal {
		t.Error("interrupted job classified as a tool failure")
	}
}

func TestDryRunRendersCommands(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDispatcher(t, exec, 2, 0, true)

	results := d.RunGroup(context.Background(), mainJobs("el", "ja"))
	if exec.callCount() != 0 {
		t.Fatalf("dry run executed %d invocations", exec.callCount())
	}
	if len(results) != 1 || len(results[0].Lines) != 1 {
		t.Fatalf("results = %+v", results)
	}
	if !strings.HasPrefix(results[0].Lines[0], "kty main ja el --root-dir=") {
		t.Errorf("rendered command = %q", results[0].Lines[0])
	}
}

func TestWorkersCappedAtCPUCount(t *testing.T) {
	d := newTestDispatcher(t, &fakeExecutor{}, 10_000, 0, false)
	if d.Workers() > runtime.NumCPU() {
		t.Errorf("workers = %d, want <= %d", d.Workers(), runtime.NumCPU())
	}
	if New(nil, 0, 0, false, logging.NewNop()).Workers() != 1 {
		t.Errorf("zero jobs should clamp to 1 worker")
	}
}
