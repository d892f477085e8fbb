package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/start-py-project/internal/model"
	"github.com/shinji-kodama/start-py-project/internal/process"
	"github.com/shinji-kodama/start-py-project/internal/scaffold"
)

// newRunner builds the runner for uv and git. Child output goes straight
// to the user's terminal. Tests replace it with a stub.
var newRunner = func(stdout, stderr io.Writer) process.Runner {
	return process.NewExecRunner(stdout, stderr)
}

// runScaffold creates the project in the current working directory.
func runScaffold(cmd *cobra.Command, rawName string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}

	// In JSON mode stdout carries only the result document, so child
	// output is routed to stderr.
	childOut := cmd.OutOrStdout()
	if IsJSONOutput() {
		childOut = cmd.ErrOrStderr()
	}

	s, err := scaffold.New(scaffold.Config{
		Runner: newRunner(childOut, cmd.ErrOrStderr()),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logger.Debug("scaffolding project", zap.String("name", rawName), zap.String("cwd", cwd))
	res, err := s.Run(cmd.Context(), cwd, rawName)
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), res)
}

// printResult reports the created project and the next steps.
func printResult(w io.Writer, res *scaffold.Result) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode result", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintf(w, "Created project: %s\n", res.Dir)
	fmt.Fprintln(w, "Next:")
	fmt.Fprintf(w, "  cd %s\n", res.Name)
	fmt.Fprintln(w, "  uv sync")
	return nil
}
