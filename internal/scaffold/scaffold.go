// Package scaffold orchestrates the creation of a new Python project.
//
// A run walks the model.Stage machine strictly in order:
//
//  1. Validate the project name
//  2. Check that <base>/<name> does not exist yet
//  3. Run `uv init --package <name>` in the base directory
//  4. Initialize git in the new directory and point HEAD at main
//  5. Load every bundled template named by the layout
//  6. Compose and write the ignore files
//  7. Copy the helper scripts
//  8. Make the scripts executable
//  9. Stage everything and create the initial commit
//
// The first failing step ends the run. Nothing is retried and nothing is
// rolled back: whatever uv and git already created stays on disk for the
// user to inspect.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shinji-kodama/start-py-project/internal/ignore"
	"github.com/shinji-kodama/start-py-project/internal/model"
	"github.com/shinji-kodama/start-py-project/internal/process"
	"github.com/shinji-kodama/start-py-project/internal/skeleton"
	"github.com/shinji-kodama/start-py-project/internal/templates"
	"github.com/shinji-kodama/start-py-project/internal/vcs"
)

// Options are the fixed knobs of a scaffold run.
type Options struct {
	// ToolBinary is the uv executable.
	ToolBinary string

	// GitBinary is the git executable.
	GitBinary string

	// Branch is the name of the primary branch.
	Branch string

	// CommitMessage is the message of the initial commit.
	CommitMessage string
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		ToolBinary:    skeleton.DefaultBinary,
		GitBinary:     vcs.DefaultBinary,
		Branch:        "main",
		CommitMessage: "Initial commit",
	}
}

// Config wires a Scaffolder. Only Runner is required.
type Config struct {
	// Runner executes uv and git.
	Runner process.Runner

	// Templates provides template content by name. Defaults to the
	// templates embedded in the binary.
	Templates fs.FS

	// Layout declares the generated files. Defaults to the embedded layout.
	Layout *templates.Layout

	// Options overrides DefaultOptions. Zero fields keep their default.
	Options Options

	// Logger receives one debug entry per completed stage. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// Result describes a successfully scaffolded project.
type Result struct {
	Name    model.ProjectName `json:"name"`
	Dir     string            `json:"path"`
	Files   []string          `json:"files"`
	Scripts []string          `json:"scripts"`
	Branch  string            `json:"branch"`
	Commit  string            `json:"commit,omitempty"`
	Stage   model.Stage       `json:"stage"`
}

// Scaffolder creates projects.
type Scaffolder struct {
	uv        *skeleton.UV
	git       *vcs.Git
	templates fs.FS
	layout    *templates.Layout
	opts      Options
	logger    *zap.Logger
}

// New creates a Scaffolder from cfg, filling in defaults.
func New(cfg Config) (*Scaffolder, error) {
	if cfg.Runner == nil {
		return nil, errors.New("scaffold: runner must not be nil")
	}

	opts := mergeOptions(DefaultOptions(), cfg.Options)

	tmpl := cfg.Templates
	if tmpl == nil {
		tmpl = templates.Bundled()
	}

	layout := cfg.Layout
	if layout == nil {
		var err error
		if layout, err = templates.DefaultLayout(); err != nil {
			return nil, err
		}
	} else if err := layout.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitTemplateError, "invalid layout", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scaffolder{
		uv:        skeleton.NewUV(cfg.Runner, opts.ToolBinary),
		git:       vcs.NewGit(cfg.Runner, opts.GitBinary),
		templates: tmpl,
		layout:    layout,
		opts:      opts,
		logger:    logger,
	}, nil
}

func mergeOptions(base, override Options) Options {
	if override.ToolBinary != "" {
		base.ToolBinary = override.ToolBinary
	}
	if override.GitBinary != "" {
		base.GitBinary = override.GitBinary
	}
	if override.Branch != "" {
		base.Branch = override.Branch
	}
	if override.CommitMessage != "" {
		base.CommitMessage = override.CommitMessage
	}
	return base
}

// progress tracks the current stage of a run and enforces that stages
// are only ever entered in order.
type progress struct {
	stage  model.Stage
	step   int
	steps  int
	logger *zap.Logger
}

func newProgress(logger *zap.Logger) *progress {
	return &progress{
		stage:  model.StageStart,
		steps:  len(model.Stages()) - 1,
		logger: logger,
	}
}

func (p *progress) advance(to model.Stage) {
	if p.stage.IsTerminal() || p.stage.Next() != to {
		panic(fmt.Sprintf("scaffold: illegal transition %s -> %s", p.stage, to))
	}
	p.stage = to
	p.step++
	p.logger.Debug("stage complete",
		zap.Stringer("stage", to),
		zap.String("step", fmt.Sprintf("%d/%d", p.step, p.steps)))
}

// Run scaffolds rawName inside baseDir. On failure the returned error is a
// *model.CLIError whose code identifies the failing step.
func (s *Scaffolder) Run(ctx context.Context, baseDir, rawName string) (*Result, error) {
	p := newProgress(s.logger)

	res, err := s.run(ctx, p, baseDir, rawName)
	if err != nil {
		fields := []zap.Field{
			zap.Stringer("after", p.stage),
			zap.Stringer("stage", model.StageAborted),
			zap.Error(err),
		}
		var cmdErr *process.CommandError
		if errors.As(err, &cmdErr) {
			fields = append(fields, zap.Int("exit_status", cmdErr.ExitStatus()))
		}
		s.logger.Debug("scaffold aborted", fields...)
		return nil, err
	}
	return res, nil
}

func (s *Scaffolder) run(ctx context.Context, p *progress, baseDir, rawName string) (*Result, error) {
	name, err := model.ValidateProjectName(rawName)
	if err != nil {
		return nil, err
	}
	p.advance(model.StageNameValidated)

	baseDir, err = filepath.Abs(baseDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to resolve base directory", err)
	}
	dir := filepath.Join(baseDir, name.String())
	if err := checkAbsent(dir); err != nil {
		return nil, err
	}
	p.advance(model.StageDirectoryChecked)

	s.logger.Debug("creating skeleton", zap.String("name", name.String()), zap.String("dir", dir))
	if err := s.uv.Init(ctx, baseDir, name); err != nil {
		return nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, model.NewCLIError(model.ExitToolError,
			fmt.Sprintf("%s did not create the project directory %s", s.opts.ToolBinary, dir))
	}
	p.advance(model.StageSkeletonCreated)

	if err := s.git.Init(ctx, dir); err != nil {
		return nil, err
	}
	if err := s.git.SetBranch(ctx, dir, s.opts.Branch); err != nil {
		return nil, err
	}
	p.advance(model.StageVCSInitialized)

	contents, err := templates.LoadAll(s.templates, s.layout.TemplateNames())
	if err != nil {
		return nil, err
	}
	p.advance(model.StageTemplatesLoaded)

	res := &Result{Name: name, Dir: dir, Branch: s.opts.Branch}

	for _, f := range ignore.ComposeAll(contents[s.layout.Base], s.ignoreSpecs(), contents) {
		if err := s.write(dir, f.Path, f.Content); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, f.Path)
	}
	p.advance(model.StageIgnoreFilesWritten)

	for _, sc := range s.layout.Scripts {
		if err := s.write(dir, sc.Path, contents[sc.Template]); err != nil {
			return nil, err
		}
		res.Scripts = append(res.Scripts, sc.Path)
	}
	p.advance(model.StageScriptsWritten)

	for _, sc := range s.layout.Scripts {
		if err := MakeExecutable(filepath.Join(dir, sc.Path)); err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to make script executable", err)
		}
	}
	p.advance(model.StageScriptsExecutable)

	if err := s.git.AddAll(ctx, dir); err != nil {
		return nil, err
	}
	if err := s.git.Commit(ctx, dir, s.opts.CommitMessage); err != nil {
		return nil, err
	}
	p.advance(model.StageCommitted)

	if s.logger.Core().Enabled(zapcore.DebugLevel) {
		s.logRepository(ctx, dir)
	}

	// The commit exists at this point; a failing lookup only loses the SHA
	// in the report.
	if sha, err := s.git.HeadCommit(ctx, dir); err != nil {
		s.logger.Warn("could not resolve initial commit", zap.Error(err))
	} else {
		res.Commit = sha
	}

	p.advance(model.StageDone)
	res.Stage = p.stage
	return res, nil
}

// logRepository reports the branch and history of the fresh repository.
// Both are read back from git, so they show what was actually committed.
func (s *Scaffolder) logRepository(ctx context.Context, dir string) {
	branch, err := s.git.CurrentBranch(ctx, dir)
	if err != nil {
		s.logger.Warn("could not read current branch", zap.Error(err))
		return
	}
	commits, err := s.git.CommitCount(ctx, dir)
	if err != nil {
		s.logger.Warn("could not count commits", zap.Error(err))
		return
	}
	s.logger.Debug("repository ready", zap.String("branch", branch), zap.Int("commits", commits))
}

func (s *Scaffolder) ignoreSpecs() []ignore.Spec {
	specs := make([]ignore.Spec, len(s.layout.Ignore))
	for i, f := range s.layout.Ignore {
		specs[i] = ignore.Spec{Path: f.Path, Extra: f.Extra, SkipBlankExtra: f.SkipBlankExtra}
	}
	return specs
}

func (s *Scaffolder) write(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := WriteText(path, content); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write project file", err)
	}
	s.logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

// checkAbsent fails when anything, file or directory, already exists at dir.
func checkAbsent(dir string) error {
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		return model.NewCLIError(model.ExitTargetExists, fmt.Sprintf("target directory already exists: %s", dir))
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to check target directory %s", dir), err)
	}
}
