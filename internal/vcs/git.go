package vcs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shinji-kodama/start-py-project/internal/model"
	"github.com/shinji-kodama/start-py-project/internal/process"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Git runs git commands inside a project directory.
type Git struct {
	runner process.Runner
	binary string
}

// NewGit creates a Git that executes binary through runner. An empty
// binary falls back to DefaultBinary.
func NewGit(runner process.Runner, binary string) *Git {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Git{runner: runner, binary: binary}
}

// Init runs `git init` in dir. Re-initializing an existing repository
// (uv creates one unless told otherwise) is harmless.
func (g *Git) Init(ctx context.Context, dir string) error {
	return g.run(ctx, dir, "init")
}

// SetBranch points HEAD at refs/heads/<branch>.
//
// A freshly initialized repository has no commits, so its primary branch
// is unborn and `git branch -M` cannot rename it on every git version.
// Rewriting the HEAD symref gives the same result on all of them.
func (g *Git) SetBranch(ctx context.Context, dir, branch string) error {
	if strings.TrimSpace(branch) == "" {
		return model.NewCLIError(model.ExitGitError, "branch name must not be empty")
	}
	return g.run(ctx, dir, "symbolic-ref", "HEAD", "refs/heads/"+branch)
}

// AddAll stages every file under dir with `git add .`.
func (g *Git) AddAll(ctx context.Context, dir string) error {
	return g.run(ctx, dir, "add", ".")
}

// Commit records the staged files with the given message.
func (g *Git) Commit(ctx context.Context, dir, message string) error {
	return g.run(ctx, dir, "commit", "-m", message)
}

// HeadCommit returns the full SHA that HEAD points to.
func (g *Git) HeadCommit(ctx context.Context, dir string) (string, error) {
	out, err := g.output(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the short name of the branch HEAD points to.
// Unlike `rev-parse --abbrev-ref`, this also works on an unborn branch.
func (g *Git) CurrentBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.output(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommitCount returns the number of commits reachable from HEAD.
func (g *Git) CommitCount(ctx context.Context, dir string) (int, error) {
	out, err := g.output(ctx, dir, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, model.WrapCLIError(model.ExitGitError, "unexpected git rev-list output", err)
	}
	return n, nil
}

// run executes a git command in dir and wraps any failure in a CLIError
// with ExitGitError. The message names the git subcommand and quotes
// git's stderr, which is usually the most useful diagnostic.
func (g *Git) run(ctx context.Context, dir string, args ...string) error {
	if err := g.runner.Run(ctx, dir, g.binary, args...); err != nil {
		return wrapGitError(args, err)
	}
	return nil
}

func (g *Git) output(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := g.runner.Output(ctx, dir, g.binary, args...)
	if err != nil {
		return "", wrapGitError(args, err)
	}
	return out, nil
}

func wrapGitError(args []string, err error) error {
	message := fmt.Sprintf("git %s failed", strings.Join(args, " "))

	var cmdErr *process.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
		message = fmt.Sprintf("%s: %s", message, cmdErr.Stderr)
		// The stderr is already in the message; keep only the exec error.
		return model.WrapCLIError(model.ExitGitError, message, cmdErr.Err)
	}
	return model.WrapCLIError(model.ExitGitError, message, err)
}
