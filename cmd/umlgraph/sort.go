// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/pkg/transform"
)

type sortOptions struct {
	kinds       []string
	cyclePolicy string
	failOnCycle bool
	output      string
	from        string
}

// newSortCommand creates the `umlgraph sort` command.
func newSortCommand(app *App) *cobra.Command {
	opts := &sortOptions{}
	cmd := &cobra.Command{
		Use:   "sort <document>",
		Short: "Order packaged elements so dependencies come first",
		Long: `Reorder the packaged elements of every package so that each type comes
after the types it depends on, then write the document as sparse JSON.

Dependency kinds select which relationships count: generalizations,
interfaceRealizations, attributes, operationParameters, all or none.
Combine them with "|" or by repeating --kinds.

Elements caught in a cycle keep their document order after the others
unless the cycle policy is "fail".

Examples:
  umlgraph sort model.json -o sorted.json
  umlgraph sort --kinds generalizations model.json
  umlgraph sort --fail-on-cycle model.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, app, args[0], opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.kinds, "kinds", nil, "dependency kinds to follow (default from config)")
	cmd.Flags().StringVar(&opts.cyclePolicy, "cycle-policy", "", "what to do with a cycle: keep-order or fail (default from config)")
	cmd.Flags().BoolVar(&opts.failOnCycle, "fail-on-cycle", false, "shorthand for --cycle-policy fail")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().StringVar(&opts.from, "from", "", "format of the document (json, yaml, toml, cue)")
	cmd.MarkFlagsMutuallyExclusive("cycle-policy", "fail-on-cycle")
	return cmd
}

func runSort(cmd *cobra.Command, app *App, path string, opts *sortOptions) error {
	s := app.newSession(cmd.Context())

	kinds, err := resolveKinds(s, opts.kinds)
	if err != nil {
		return reportError(cmd, s, err)
	}
	policy, err := resolveCyclePolicy(s, opts.cyclePolicy, opts.failOnCycle)
	if err != nil {
		return reportError(cmd, s, err)
	}
	format, err := parseFormatFlag(opts.from)
	if err != nil {
		return reportError(cmd, s, err)
	}

	loaded, err := app.loadModel(cmd.Context(), s, path, format)
	if err != nil {
		return reportError(cmd, s, wrapLoadError(err, path))
	}

	sorter := transform.NewDependencySort(loaded.Reader.Delegate(),
		transform.WithDependencyKinds(kinds),
		transform.WithCyclePolicy(policy),
		transform.WithSortLogger(s.logger),
	)
	if err := sorter.Transform(loaded.Model); err != nil {
		return reportError(cmd, s, err)
	}

	err = writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return writeDocument(w, loaded.Root, loaded.Model)
	})
	if err != nil {
		return reportError(cmd, s, err)
	}
	return nil
}

// resolveKinds parses the --kinds flag, falling back to the configured kinds.
func resolveKinds(s *session, flag []string) (transform.DependencyKind, error) {
	if len(flag) > 0 {
		return transform.ParseDependencyKinds(flag...)
	}
	return s.cfg.Transform.Kinds()
}

func resolveCyclePolicy(s *session, flag string, failOnCycle bool) (transform.CyclePolicy, error) {
	switch {
	case failOnCycle:
		return transform.CycleFail, nil
	case flag != "":
		return transform.ParseCyclePolicy(flag)
	}
	return s.cfg.Transform.Policy()
}
