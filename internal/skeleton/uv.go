// Package skeleton creates the base project layout by delegating to uv.
//
// `uv init --package <name>` creates <name>/ in the working directory with
// a pyproject.toml and an importable src/<name>/ package. This package
// only invokes it; everything uv writes is treated as opaque.
package skeleton

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/start-py-project/internal/model"
	"github.com/shinji-kodama/start-py-project/internal/process"
)

// DefaultBinary is the uv executable looked up on PATH.
const DefaultBinary = "uv"

// UV runs the uv project initializer.
type UV struct {
	runner process.Runner
	binary string
}

// NewUV creates a UV that executes binary through runner. An empty
// binary falls back to DefaultBinary.
func NewUV(runner process.Runner, binary string) *UV {
	if binary == "" {
		binary = DefaultBinary
	}
	return &UV{runner: runner, binary: binary}
}

// Args returns the command line used to create a packaged project.
func (u *UV) Args(name model.ProjectName) []string {
	return []string{"init", "--package", name.String()}
}

// Init creates the packaged project <baseDir>/<name>. Any failure is
// returned as a CLIError with ExitToolError; a binary missing from PATH
// gets an installation hint instead of the command line.
func (u *UV) Init(ctx context.Context, baseDir string, name model.ProjectName) error {
	args := u.Args(name)
	if err := u.runner.Run(ctx, baseDir, u.binary, args...); err != nil {
		message := fmt.Sprintf("%s %s failed", u.binary, strings.Join(args, " "))
		if errors.Is(err, exec.ErrNotFound) {
			message = fmt.Sprintf("could not run %s (is uv installed and on PATH?)", u.binary)
		}
		return model.WrapCLIError(model.ExitToolError, message, err)
	}
	return nil
}
