package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wty/internal/history"
)

// writeTestConfig writes a config pointing at an isolated data root and
// returns its path.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "data")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("[paths]\nroot_dir = %q\n\n[tool]\nbinary = \"kty\"\n", root)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, root
}

// installFakeTool puts a stub kty binary on PATH that reports a version and
// succeeds on every invocation.
func installFakeTool(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	script := `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "kty 0.0.0-test"
  exit 0
fi
exit 0
`
	if err := os.WriteFile(filepath.Join(dir, "kty"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLanguagesCommand(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath, "languages")
	if err != nil {
		t.Fatalf("languages failed: %v\n%s", err, output)
	}
	for _, want := range []string{"ISO", "Greek", "simple", "editions"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}
}

func TestLanguagesEditionsOnly(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath, "languages", "--editions")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	if strings.Contains(output, "Albanian") {
		t.Errorf("edition filter kept a target-only language:\n%s", output)
	}
	if !strings.Contains(output, "Greek") {
		t.Errorf("edition filter dropped an edition language:\n%s", output)
	}
}

func TestBuildDryRun(t *testing.T) {
	installFakeTool(t)
	configPath, root := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath,
		"build", "--dry-run", "-t", "ipa-merged", "-j", "2")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
	for _, want := range []string{"kty 0.0.0-test", "Dictionaries: ipa-merged", "kty ipa-merged", "Finished!"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}

	logData, err := os.ReadFile(filepath.Join(root, "log.txt"))
	if err != nil {
		t.Fatalf("run log not written: %v", err)
	}
	if !strings.Contains(string(logData), "Finished!") {
		t.Errorf("run log incomplete:\n%s", logData)
	}

	// Dry runs are recorded in history too.
	store, err := history.Open(filepath.Join(root, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || !runs[0].DryRun || runs[0].Status != history.StatusSucceeded {
		t.Errorf("recorded runs = %+v", runs)
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, err := runCommand(t, "--config", configPath, "build", "-t", "thesaurus")
	if err == nil || !strings.Contains(err.Error(), "unknown dictionary type") {
		t.Fatalf("err = %v, want unknown type failure", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	configPath, root := writeTestConfig(t)
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	store, err := history.Open(filepath.Join(root, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.BeginRun(context.Background(), history.RunInfo{DictType: "main", Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.FinishRun(context.Background(), id, history.StatusSucceeded, 12, 1024, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	output, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	for _, want := range []string{"main", "succeeded", "12", "1.0 KiB"} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "No recorded runs.") {
		t.Errorf("output = %q", output)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(output, "Wrote sample configuration") {
		t.Errorf("output = %q", output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tool]") {
		t.Errorf("sample config content:\n%s", data)
	}

	// A second init without --overwrite refuses to clobber the file.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}
