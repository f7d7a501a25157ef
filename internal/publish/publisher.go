package publish

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"wty/internal/config"
	"wty/internal/errs"
	"wty/internal/kty"
	"wty/internal/report"
)

// tokenEnvVar must be present after the env file loads; the uploader binary
// reads it from the inherited environment.
const tokenEnvVar = "HF_TOKEN"

// Options are the per-invocation publish parameters.
type Options struct {
	// Yes skips the interactive confirmation.
	Yes bool
	// Version is the calver release version stamped into the README.
	Version string
}

// Publisher stages the built release and delegates the transfer to the
// configured uploader binary. It never talks to the dataset host itself.
type Publisher struct {
	cfg  *config.Config
	exec kty.Executor
	out  io.Writer
	in   io.Reader
	slog *slog.Logger
}

// New builds a publisher. exec runs both git and the uploader binary.
func New(cfg *config.Config, exec kty.Executor, out io.Writer, in io.Reader, opLog *slog.Logger) *Publisher {
	if out == nil {
		out = io.Discard
	}
	if in == nil {
		in = strings.NewReader("")
	}
	if opLog == nil {
		opLog = slog.Default()
	}
	return &Publisher{
		cfg:  cfg,
		exec: exec,
		out:  out,
		in:   in,
		slog: opLog.With("component", "publish"),
	}
}

// Run publishes the staged release: token check, confirmation, staging,
// folder upload, then README and run log uploads.
func (p *Publisher) Run(ctx context.Context, opts Options) error {
	dictStats, err := p.checkDictDir()
	if err != nil {
		return err
	}

	if err := p.loadToken(); err != nil {
		return err
	}

	sha, err := p.commitSHA(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "commit %s\n", sha)
	fmt.Fprintf(p.out, "version %s\n", opts.Version)
	if !opts.Yes {
		prompt := fmt.Sprintf("Upload %s (%s) to %s?", p.cfg.DictDir(), dictStats.HumanBytes(), p.cfg.Publish.RepoID)
		if !p.confirm(prompt) {
			fmt.Fprintln(p.out, "Aborted.")
			return nil
		}
	}

	if err := p.prepareStage(); err != nil {
		return err
	}

	if err := p.uploadFolder(ctx); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Upload complete @ %s\n", p.cfg.Publish.RepoURL)

	if err := WriteReadme(p.cfg.ReadmePath(), p.cfg.Publish.RepoURL, sha, opts.Version); err != nil {
		return err
	}
	if err := p.uploadFile(ctx, p.cfg.ReadmePath(), "README.md",
		fmt.Sprintf("[%s] update README", opts.Version)); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Uploaded README")

	if err := p.uploadFile(ctx, p.cfg.LogPath(), "log.txt",
		fmt.Sprintf("[%s] update logs", opts.Version)); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Uploaded logs")
	return nil
}

// checkDictDir requires at least one built dictionary before publishing.
func (p *Publisher) checkDictDir() (report.Stats, error) {
	stats, err := report.Scan(p.cfg.DictDir(), report.ScanOptions{Suffix: ".zip"})
	if err != nil {
		return report.Stats{}, errs.Wrap(errs.ErrValidation, "publish", "check", "scan dictionary directory", err)
	}
	if stats.Files == 0 {
		return report.Stats{}, errs.Wrap(errs.ErrValidation, "publish", "check",
			fmt.Sprintf("no dictionaries under %s; run a build first", p.cfg.DictDir()), nil)
	}
	return stats, nil
}

// loadToken reads the env file and requires the upload token to be set. The
// token itself is never logged.
func (p *Publisher) loadToken() error {
	envFile := strings.TrimSpace(p.cfg.Publish.EnvFile)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return errs.Wrap(errs.ErrConfiguration, "publish", "token", "load env file", err)
		}
	}
	if os.Getenv(tokenEnvVar) == "" {
		return errs.Wrap(errs.ErrConfiguration, "publish", "token",
			fmt.Sprintf("%s is not set; add it to %s or the environment", tokenEnvVar, envFile), nil)
	}
	return nil
}

func (p *Publisher) commitSHA(ctx context.Context) (string, error) {
	code, stdout, _, err := p.exec.Run(ctx, "git", []string{"rev-parse", "HEAD"})
	if err != nil {
		return "", errs.Wrap(errs.ErrExternalTool, "publish", "git", "resolve commit", err)
	}
	if code != 0 || len(stdout) == 0 {
		return "", errs.Wrap(errs.ErrExternalTool, "publish", "git", "resolve commit: not a git checkout", nil)
	}
	return strings.TrimSpace(stdout[0]), nil
}

func (p *Publisher) confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(p.in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// prepareStage moves dict/ and index/ under a fresh stage folder so the
// uploader transfers a single tree. An existing stage aborts: it means a
// previous publish did not complete.
func (p *Publisher) prepareStage() error {
	stage := p.cfg.StageDir()
	if _, err := os.Stat(stage); err == nil {
		return errs.Wrap(errs.ErrValidation, "publish", "stage",
			fmt.Sprintf("stage %s already exists; remove it before publishing", stage), nil)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "publish", "stage", "create stage", err)
	}
	if err := os.Rename(p.cfg.DictDir(), filepath.Join(stage, "dict")); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "publish", "stage", "stage dict", err)
	}
	if err := os.Rename(p.cfg.IndexDir(), filepath.Join(stage, "index")); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "publish", "stage", "stage index", err)
	}
	p.slog.Info("release staged", "stage", stage)
	return nil
}

func (p *Publisher) uploadFolder(ctx context.Context) error {
	args := []string{
		"upload-large-folder", p.cfg.Publish.RepoID, p.cfg.StageDir(),
		"--repo-type=dataset",
	}
	return p.runUploader(ctx, args)
}

func (p *Publisher) uploadFile(ctx context.Context, localPath, repoPath, message string) error {
	args := []string{
		"upload", p.cfg.Publish.RepoID, localPath, repoPath,
		"--repo-type=dataset",
		fmt.Sprintf("--commit-message=%s", message),
	}
	return p.runUploader(ctx, args)
}

func (p *Publisher) runUploader(ctx context.Context, args []string) error {
	uploader := p.cfg.Publish.Uploader
	p.slog.Info("running uploader", "binary", uploader, "args", strings.Join(args, " "))
	code, _, stderr, err := p.exec.Run(ctx, uploader, args)
	if err != nil {
		return errs.Wrap(errs.ErrExternalTool, "publish", "upload", "run uploader", err)
	}
	if code != 0 {
		detail := ""
		if len(stderr) > 0 {
			detail = ": " + stderr[len(stderr)-1]
		}
		return errs.Wrap(errs.ErrExternalTool, "publish", "upload",
			fmt.Sprintf("uploader exited %d%s", code, detail), nil)
	}
	return nil
}
