// Package publish commits report artifacts to the archive repository and pushes them.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/auction-appraiser/internal/logging"
)

// CommandTimeout bounds each git invocation.
const CommandTimeout = 2 * time.Minute

// GitError describes a failed git invocation.
type GitError struct {
	Args   []string
	Output string
	Cause  error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

func (e *GitError) Unwrap() error {
	return e.Cause
}

// Runner executes git with args in the repository and returns combined output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs the git binary.
type ExecRunner struct {
	Dir string // Repository directory; the process working directory when empty
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", &GitError{Args: args, Output: "git not found in PATH", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), &GitError{Args: args, Output: string(out), Cause: err}
	}
	return string(out), nil
}

// Result describes what Publish did.
type Result struct {
	Committed bool   // False when there was nothing to commit
	PagesURL  string // Set when the GitHub Pages location is known
}

// Publisher adds, commits and pushes files.
type Publisher struct {
	runner   Runner
	username string
	repo     string
	logger   *log.Logger
}

// New creates a Publisher. username and repo locate the GitHub Pages site and may be empty.
func New(runner Runner, username, repo string, logger *log.Logger) *Publisher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{runner: runner, username: username, repo: repo, logger: logger}
}

// Publish stages files, commits them with message and pushes.
// A commit with nothing to record counts as success and skips the push.
func (p *Publisher) Publish(ctx context.Context, files []string, message string) (*Result, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to publish")
	}

	if _, err := p.runner.Run(ctx, append([]string{"add", "--"}, files...)...); err != nil {
		return nil, err
	}

	out, err := p.runner.Run(ctx, "commit", "-m", message)
	if nothingToCommit(out) {
		p.logger.Info("no new changes to commit; remote is already up to date")
		return &Result{PagesURL: p.PagesURL()}, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.runner.Run(ctx, "push"); err != nil {
		return nil, err
	}

	result := &Result{Committed: true, PagesURL: p.PagesURL()}
	p.logger.Info("pushed report", "files", len(files), "url", result.PagesURL)
	return result, nil
}

// PagesURL returns the GitHub Pages address of the archive, or "" when unknown.
func (p *Publisher) PagesURL() string {
	if p.username == "" || p.repo == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.github.io/%s/", p.username, p.repo)
}

func nothingToCommit(output string) bool {
	return strings.Contains(output, "nothing to commit") || strings.Contains(output, "no changes added to commit")
}
