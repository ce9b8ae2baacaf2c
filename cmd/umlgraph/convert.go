// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/transform"
)

type convertOptions struct {
	from   string
	output string
	retype []string
}

// retypeRule rebuilds elements of one classifier kind as another.
type retypeRule struct {
	source elements.ElementType
	target elements.ElementType
}

// newConvertCommand creates the `umlgraph convert` command.
func newConvertCommand(app *App) *cobra.Command {
	opts := &convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <document>",
		Short: "Convert a model document to canonical sparse JSON",
		Long: `Read a model document in any supported format and write it as sparse
JSON: false, zero and empty values are dropped and references are written
as ids.

--retype rebuilds every element of one classifier kind as another, for
example dataType=class. Contained elements the new kind cannot hold are
dropped.

Examples:
  umlgraph convert model.yaml -o model.json
  umlgraph convert --from yaml model.txt
  umlgraph convert --retype dataType=class model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, app, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "format of the document (json, yaml, toml, cue)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().StringArrayVar(&opts.retype, "retype", nil, "rebuild elements of a kind as another kind (source=target)")
	return cmd
}

func runConvert(cmd *cobra.Command, app *App, path string, opts *convertOptions) error {
	s := app.newSession(cmd.Context())

	rules, err := parseRetypeRules(opts.retype)
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
	if err := applyRetypeRules(loaded.Reader.Delegate(), loaded.Model, rules); err != nil {
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

func parseRetypeRules(values []string) ([]retypeRule, error) {
	rules := make([]retypeRule, 0, len(values))
	for _, v := range values {
		source, target, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --retype %q: expected source=target", v)
		}
		rules = append(rules, retypeRule{
			source: elements.ElementType(strings.TrimSpace(source)),
			target: elements.ElementType(strings.TrimSpace(target)),
		})
	}
	return rules, nil
}

// applyRetypeRules runs the rules in order. All rules are checked before any
// element is rebuilt.
func applyRetypeRules(d *delegate.ModelDelegate, model elements.Namespace, rules []retypeRule) error {
	transforms := make([]*transform.ElementTypeTransform, 0, len(rules))
	for _, r := range rules {
		t, err := transform.NewElementTypeTransform(d, r.source, r.target)
		if err != nil {
			return err
		}
		transforms = append(transforms, t)
	}
	for _, t := range transforms {
		if err := t.Transform(model); err != nil {
			return err
		}
	}
	return nil
}
