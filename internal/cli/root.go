// Package cli implements the cobra-based command line for start-py-project.
//
// The tool has a single command: the root command takes the project name
// as its only positional argument. This file defines that command, its
// global flags, and error handling; scaffold.go runs the scaffold and
// formats the result.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shinji-kodama/start-py-project/internal/model"
)

// Global flag variables, bound to persistent flags on the root command.
var (
	// jsonOutput switches the success report and error output to JSON.
	jsonOutput bool

	// verbose enables debug logging of every scaffold stage on stderr.
	verbose bool
)

// logger is built in PersistentPreRunE from the --verbose flag.
var logger = zap.NewNop()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "start-py-project <name>",
		Short: "Scaffold a new uv-managed Python project with git and remote-sync helpers",
		Long: `start-py-project creates ./<name> as a packaged uv project (src layout),
initializes a git repository on branch "main", writes .gitignore,
.rsyncignore and base_ignore, adds the sync_to.sh and install_remote.sh
helper scripts, and records everything in an initial commit.

The name must start with a letter or digit and may contain letters,
digits, '.', '_' and '-'. The target directory must not exist.

Examples:
  start-py-project demo
  start-py-project --verbose my.project-1`,

		Args: cobra.ExactArgs(1),

		// SilenceUsage prevents cobra from printing usage on every error.
		// SilenceErrors lets Execute format errors (text or JSON).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd.ErrOrStderr(), verbose)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, args[0])
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every scaffold step to stderr")

	return rootCmd
}

// newLogger returns a development-style console logger at debug level
// writing to w when verbose is set, and a no-op logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// Execute runs the root command and exits the process with the code
// carried by the returned error.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(int(reportError(rootCmd.ErrOrStderr(), err)))
	}
}

// reportError prints err and returns the exit code for it. CLIError types
// carry their own exit codes; other errors (including cobra's argument
// errors) map to ExitGeneralError.
func reportError(w io.Writer, err error) model.ExitCode {
	if cliErr, ok := err.(*model.CLIError); ok {
		printError(w, cliErr.Message, cliErr.Err)
		return cliErr.Code
	}
	printError(w, err.Error(), nil)
	return model.ExitCodeOf(err)
}

// errorReport is the --json form of a failure.
type errorReport struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// printError outputs an error message as text, or as JSON when --json is set.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		report := errorReport{Error: errorBody{Message: message}}
		if underlying != nil {
			report.Error.Detail = underlying.Error()
		}
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
