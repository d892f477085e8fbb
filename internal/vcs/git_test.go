package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/start-py-project/internal/model"
	"github.com/shinji-kodama/start-py-project/internal/process"
	"github.com/shinji-kodama/start-py-project/internal/process/processtest"
)

// requireGit skips the test when git is not installed and isolates git from
// the developer's global configuration, giving commits a fixed identity so
// `git commit` works in CI environments without a configured user.
func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
}

// runTestGit runs a git command in dir and fails the test immediately if
// the command exits with a non-zero status.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func newRealGit() *Git {
	return NewGit(process.NewExecRunner(nil, nil), "")
}

// TestInitialCommitFlow runs the full sequence the scaffold uses against a
// real git binary: init, set branch, add, commit.
func TestInitialCommitFlow(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	g := newRealGit()

	require.NoError(t, g.Init(ctx, dir))
	require.NoError(t, g.SetBranch(ctx, dir, "main"))

	branch, err := g.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch, "unborn branch should already be main")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))
	require.NoError(t, g.AddAll(ctx, dir))
	require.NoError(t, g.Commit(ctx, dir, "Initial commit"))

	count, err := g.CommitCount(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	head, err := g.HeadCommit(ctx, dir)
	require.NoError(t, err)
	assert.Len(t, head, 40)

	subject := runTestGit(t, dir, "log", "-1", "--format=%s")
	assert.Equal(t, "Initial commit\n", subject)

	branch, err = g.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

// TestSetBranch_AfterReinit covers the case where the skeleton tool already
// created a repository on another branch: re-running init keeps it, and
// SetBranch moves the unborn HEAD to main.
func TestSetBranch_AfterReinit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	g := newRealGit()

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/master")

	require.NoError(t, g.Init(ctx, dir))
	require.NoError(t, g.SetBranch(ctx, dir, "main"))

	branch, err := g.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

// TestCommit_NothingStaged verifies git failures surface as ExitGitError
// with git's own message attached.
func TestCommit_NothingStaged(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	g := newRealGit()

	require.NoError(t, g.Init(ctx, dir))
	err := g.Commit(ctx, dir, "Initial commit")
	require.Error(t, err)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "git commit -m Initial commit failed")
}

// TestCommitCount_NoCommits fails because HEAD does not resolve yet.
func TestCommitCount_NoCommits(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	g := newRealGit()

	require.NoError(t, g.Init(ctx, dir))
	_, err := g.CommitCount(ctx, dir)
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
}

// TestGit_CommandLines checks the exact argv and working directory of each
// operation using a recording runner, so no git binary is needed.
func TestGit_CommandLines(t *testing.T) {
	ctx := context.Background()
	rec := processtest.NewRecorder(nil)
	g := NewGit(rec, "/opt/git/bin/git")

	require.NoError(t, g.Init(ctx, "/p"))
	require.NoError(t, g.SetBranch(ctx, "/p", "main"))
	require.NoError(t, g.AddAll(ctx, "/p"))
	require.NoError(t, g.Commit(ctx, "/p", "Initial commit"))

	assert.Equal(t, []processtest.Call{
		{Dir: "/p", Argv: []string{"/opt/git/bin/git", "init"}},
		{Dir: "/p", Argv: []string{"/opt/git/bin/git", "symbolic-ref", "HEAD", "refs/heads/main"}},
		{Dir: "/p", Argv: []string{"/opt/git/bin/git", "add", "."}},
		{Dir: "/p", Argv: []string{"/opt/git/bin/git", "commit", "-m", "Initial commit"}},
	}, rec.Calls())
}

// TestNewGit_DefaultBinary checks the PATH lookup name is used by default.
func TestNewGit_DefaultBinary(t *testing.T) {
	rec := processtest.NewRecorder(nil)
	require.NoError(t, NewGit(rec, "").Init(context.Background(), "/p"))
	assert.Equal(t, []string{"git init"}, rec.Argvs())
}

// TestSetBranch_Empty rejects an empty branch without running git.
func TestSetBranch_Empty(t *testing.T) {
	rec := processtest.NewRecorder(nil)
	err := NewGit(rec, "").SetBranch(context.Background(), "/p", " ")
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
	assert.Empty(t, rec.Calls())
}

// TestGit_WrapsCommandError checks that stderr from a failed command ends up
// in the message and the exec error stays reachable.
func TestGit_WrapsCommandError(t *testing.T) {
	execErr := errors.New("exit status 128")
	rec := processtest.NewRecorder(func(context.Context, processtest.Call) (string, error) {
		return "", &process.CommandError{
			Argv:   []string{"git", "add", "."},
			Stderr: "fatal: not a git repository",
			Err:    execErr,
		}
	})

	err := NewGit(rec, "").AddAll(context.Background(), "/p")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGitError, cliErr.Code)
	assert.Equal(t, "git add . failed: fatal: not a git repository", cliErr.Message)
	assert.True(t, errors.Is(err, execErr))
}

// TestGit_WrapsPlainError keeps non-command errors as the wrapped cause.
func TestGit_WrapsPlainError(t *testing.T) {
	boom := errors.New("boom")
	rec := processtest.NewRecorder(func(context.Context, processtest.Call) (string, error) {
		return "", boom
	})

	_, err := NewGit(rec, "").HeadCommit(context.Background(), "/p")
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "git rev-parse HEAD failed")
}

// TestCommitCount_BadOutput rejects output that is not a number.
func TestCommitCount_BadOutput(t *testing.T) {
	rec := processtest.NewRecorder(func(context.Context, processtest.Call) (string, error) {
		return "many\n", nil
	})

	_, err := NewGit(rec, "").CommitCount(context.Background(), "/p")
	assert.Equal(t, model.ExitGitError, model.ExitCodeOf(err))
}
