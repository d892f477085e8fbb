package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ProjectName is a validated project name. Values are only produced by
// ValidateProjectName and are used read-only afterwards, both as the
// directory name and as the package name handed to uv.
type ProjectName string

// String returns the name as a plain string.
func (n ProjectName) String() string {
	return string(n)
}

// projectNameRegex: first character alphanumeric, the rest alphanumeric or
// one of '.', '_', '-'. ASCII only.
var projectNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateProjectName trims surrounding whitespace from raw and checks the
// result against the project naming rule.
//
// An invalid name is returned as a CLIError with ExitInvalidName so the CLI
// can terminate before touching the filesystem.
func ValidateProjectName(raw string) (ProjectName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", NewCLIError(ExitInvalidName, "invalid project name: name must not be empty")
	}
	if !projectNameRegex.MatchString(name) {
		return "", NewCLIError(ExitInvalidName, fmt.Sprintf(
			"invalid project name %q: use letters/numbers and optionally '.', '_', '-' (must start with a letter or number)", name))
	}
	return ProjectName(name), nil
}

// Stage is a step of the scaffold state machine. A run walks the stages in
// order; the first failure moves it to StageAborted and nothing else runs.
//
//	start → name-validated → directory-checked → skeleton-created →
//	vcs-initialized → templates-loaded → ignore-files-written →
//	scripts-written → scripts-executable → committed → done
type Stage string

const (
	StageStart              Stage = "start"
	StageNameValidated      Stage = "name-validated"
	StageDirectoryChecked   Stage = "directory-checked"
	StageSkeletonCreated    Stage = "skeleton-created"
	StageVCSInitialized     Stage = "vcs-initialized"
	StageTemplatesLoaded    Stage = "templates-loaded"
	StageIgnoreFilesWritten Stage = "ignore-files-written"
	StageScriptsWritten     Stage = "scripts-written"
	StageScriptsExecutable  Stage = "scripts-executable"
	StageCommitted          Stage = "committed"
	StageDone               Stage = "done"

	// StageAborted is terminal; there is no transition out of it.
	StageAborted Stage = "aborted"
)

// stageOrder lists the happy-path stages in execution order.
var stageOrder = []Stage{
	StageStart,
	StageNameValidated,
	StageDirectoryChecked,
	StageSkeletonCreated,
	StageVCSInitialized,
	StageTemplatesLoaded,
	StageIgnoreFilesWritten,
	StageScriptsWritten,
	StageScriptsExecutable,
	StageCommitted,
	StageDone,
}

// String returns the string representation of Stage.
func (s Stage) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible from s.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageAborted
}

// Next returns the stage that follows s on the happy path. Terminal and
// unknown stages return themselves.
func (s Stage) Next() Stage {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return s
}

// Stages returns the happy-path stages in execution order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ExitCode defines the CLI exit codes. Every failure is fatal; the code
// tells scripts which class of failure ended the run.
type ExitCode int

const (
	// ExitSuccess indicates the project was created and committed.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidName indicates the project name failed validation.
	ExitInvalidName ExitCode = 2

	// ExitTargetExists indicates the project directory already existed.
	ExitTargetExists ExitCode = 3

	// ExitToolError indicates the scaffolding tool (uv) failed.
	ExitToolError ExitCode = 4

	// ExitGitError indicates a git operation failed.
	ExitGitError ExitCode = 5

	// ExitTemplateError indicates a bundled template could not be read,
	// which means the installation is broken.
	ExitTemplateError ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by the first CLIError in err's
// chain. nil maps to ExitSuccess and plain errors to ExitGeneralError.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
