// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/internal/issue"
	"github.com/invowk/umlgraph/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "umlgraph",
		Short: "Inspect and transform UML model documents",
		Long: TitleStyle.Render("umlgraph") + SubtitleStyle.Render(" - Inspect and transform UML model documents") + `

umlgraph reads model documents, resolves every reference into one element
graph, and reports integrity problems without giving up on the rest of
the model. Documents may be written as JSON, YAML, TOML or CUE and may
reference other documents by relative path.

` + SubtitleStyle.Render("Examples:") + `
  umlgraph validate model.json          Check references and print diagnostics
  umlgraph show model.yaml              Print the type tree
  umlgraph sort model.json -o out.json  Put dependencies before dependents
  umlgraph deps model.json | dot -Tsvg  Draw the dependency graph
  umlgraph config show                  Show current configuration
  umlgraph issues 6                     Explain a known problem`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(contextWithRootFlags(cmd.Context(), flags))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/umlgraph/config.cue)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newValidateCommand(app),
		newShowCommand(app),
		newSortCommand(app),
		newConvertCommand(app),
		newDepsCommand(app),
		newConfigCommand(app),
		newIssuesCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the App and runs the root command. This is called by
// main.main().
func Execute() {
	if code := Run(); !code.IsSuccess() {
		os.Exit(int(code))
	}
}

// Run executes the root command against os.Args and returns the process exit
// code instead of exiting.
func Run() types.ExitCode {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return types.ExitFailure
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code.OrFailure()
		}
		return types.ExitFailure
	}
	return types.ExitSuccess
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
