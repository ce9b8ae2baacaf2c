// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/internal/issue"
)

// newIssuesCommand creates the `umlgraph issues` command.
func newIssuesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issues [id]",
		Short: "List known problems or explain one",
		Long: `Without an argument, list the problems umlgraph knows how to explain.
With an id, print the explanation and the things to try. Errors printed
with --verbose include the same text.

Examples:
  umlgraph issues
  umlgraph issues 6`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(cmd)
				return nil
			}
			return explainIssue(cmd, app, args[0])
		},
	}
}

func listIssues(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Known Issues"))
	fmt.Fprintln(out)
	for _, entry := range issue.Values() {
		fmt.Fprintf(out, "  %s  %s\n", CmdStyle.Render(fmt.Sprintf("%2d", entry.Id())), entry.Title())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Run 'umlgraph issues <id>' for details."))
}

func explainIssue(cmd *cobra.Command, app *App, arg string) error {
	s := app.newSession(cmd.Context())
	n, err := strconv.Atoi(arg)
	if err != nil || issue.Get(issue.Id(n)) == nil {
		return reportError(cmd, s, fmt.Errorf("unknown issue %q (run 'umlgraph issues' for the list)", arg))
	}
	style := string(s.cfg.UI.ColorScheme)
	if os.Getenv("NO_COLOR") != "" {
		style = "notty"
	}
	renderIssue(cmd.OutOrStdout(), issue.Id(n), style)
	return nil
}
