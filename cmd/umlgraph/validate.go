// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/internal/issue"
	"github.com/invowk/umlgraph/internal/watch"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/types"
)

type validateOptions struct {
	strict bool
	from   string
	watch  bool
}

// newValidateCommand creates the `umlgraph validate` command.
func newValidateCommand(app *App) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Load a model document and report integrity problems",
		Long: `Load a model document with every document it references and report
the diagnostics collected while building the graph: duplicate ids,
unresolvable references and conflicting association ends.

Errors fail validation. With --strict, warnings fail it too.

With --watch, the model is validated again whenever a document in its
directory tree changes, until interrupted.

Examples:
  umlgraph validate model.json
  umlgraph validate --strict model.yaml
  umlgraph validate --watch model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on warnings as well as errors")
	cmd.Flags().StringVar(&opts.from, "from", "", "format of the document (json, yaml, toml, cue)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "validate again when a document changes")
	return cmd
}

func runValidate(cmd *cobra.Command, app *App, path string, opts *validateOptions) error {
	s := app.newSession(cmd.Context())
	err := validateOnce(cmd, app, s, path, opts)
	if !opts.watch {
		return err
	}
	return watchValidate(cmd, app, s, path, opts)
}

// watchValidate re-runs validation on every change under the directory of
// path until the command context is cancelled. Failed runs are reported and
// do not stop the watch.
func watchValidate(cmd *cobra.Command, app *App, s *session, path string, opts *validateOptions) error {
	w, err := watch.New(watch.Config{
		Root:   filepath.Dir(path),
		Logger: s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Changed: %s\n", infoIcon, strings.Join(changed, ", "))
			app.reloadConfig(ctx, s)
			err := validateOnce(cmd, app, s, path, opts)
			if exitErr := (*ExitError)(nil); errors.As(err, &exitErr) {
				return nil
			}
			return err
		},
	})
	if err != nil {
		return reportError(cmd, s, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s Watching %s for changes (Ctrl+C to stop)\n",
		infoIcon, CmdStyle.Render(w.Root()))
	if err := w.Run(cmd.Context()); err != nil {
		return reportError(cmd, s, err)
	}
	return nil
}

func validateOnce(cmd *cobra.Command, app *App, s *session, path string, opts *validateOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	format, err := parseFormatFlag(opts.from)
	if err != nil {
		return reportError(cmd, s, err)
	}
	loaded, err := app.loadModel(cmd.Context(), s, path, format)
	if err != nil {
		return reportError(cmd, s, wrapLoadError(err, path))
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Model Validation"))
	fmt.Fprintf(stdout, "%s Path: %s\n", infoIcon, CmdStyle.Render(path))
	fmt.Fprintf(stdout, "%s Checksum: %s\n", infoIcon, loaded.Root.ChecksumString())
	fmt.Fprintf(stdout, "%s %d document(s) read, %d element(s) indexed\n",
		successIcon, len(loaded.Files), loaded.Reader.Delegate().Map().Len())
	if s.verbose {
		for _, f := range loaded.Files {
			fmt.Fprintf(stdout, "  %s %s %s\n", VerboseStyle.Render(string(f.Format)), f.Path,
				VerboseStyle.Render(f.Document.ChecksumString()))
		}
	}

	diags := loaded.Reader.Delegate().Map().Diagnostics()
	failed := elementmap.HasErrors(diags) || (opts.strict && len(diags) > 0)

	if len(diags) > 0 {
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "%s %d diagnostic(s) found:\n", warningIcon, len(diags))
		fmt.Fprintln(stderr)
		for i, d := range diags {
			fmt.Fprintf(stderr, "  %d. %s\n", i+1, formatDiagnostic(d))
		}
	}

	if !failed {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stdout, "%s Model is valid\n", successIcon)
		return nil
	}

	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "%s Validation failed with %d issue(s)\n", errorIcon, len(diags))
	if s.verbose {
		for _, id := range diagnosticIssues(diags) {
			renderIssue(stderr, id, string(s.cfg.UI.ColorScheme))
		}
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure}
}

func formatDiagnostic(d elementmap.Diagnostic) string {
	sev := WarningStyle.Render(string(d.Severity))
	if d.Severity == elementmap.SeverityError {
		sev = ErrorStyle.Render(string(d.Severity))
	}
	line := fmt.Sprintf("%s %s %s", sev, SubtitleStyle.Render("["+d.Code+"]"), d.Message)
	if d.ElementID != "" {
		line += " " + VerboseStyle.Render("(id "+d.ElementID+")")
	}
	return line
}

// diagnosticIssues returns the catalog entries that explain diags, once each.
func diagnosticIssues(diags []elementmap.Diagnostic) []issue.Id {
	var ids []issue.Id
	seen := map[issue.Id]bool{}
	for _, d := range diags {
		var id issue.Id
		switch d.Code {
		case elementmap.CodeDanglingReference:
			id = issue.DanglingReferencesId
		case elementmap.CodeDependencyCycle:
			id = issue.DependencyCycleId
		default:
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
