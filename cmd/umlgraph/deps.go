// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/transform"
)

type depsOptions struct {
	pkg    string
	kinds  []string
	output string
	from   string
}

// newDepsCommand creates the `umlgraph deps` command.
func newDepsCommand(app *App) *cobra.Command {
	opts := &depsOptions{}
	cmd := &cobra.Command{
		Use:   "deps <document>",
		Short: "Write the dependency graph of a package as DOT",
		Long: `Write the dependencies between the elements packaged directly in one
package as a Graphviz DOT digraph. Edges run from a dependency to the
element that depends on it, the same order a dependency sort produces.

Without --package the model root is used. Packages are named by their
qualified name, joined with the configured separator.

Examples:
  umlgraph deps model.json | dot -Tsvg > deps.svg
  umlgraph deps --package Shop.orders --kinds attributes model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, app, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.pkg, "package", "", "qualified name of the package to graph")
	cmd.Flags().StringSliceVar(&opts.kinds, "kinds", nil, "dependency kinds to follow (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph to a file instead of stdout")
	cmd.Flags().StringVar(&opts.from, "from", "", "format of the document (json, yaml, toml, cue)")
	return cmd
}

func runDeps(cmd *cobra.Command, app *App, path string, opts *depsOptions) error {
	s := app.newSession(cmd.Context())

	kinds, err := resolveKinds(s, opts.kinds)
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

	var ns elements.Namespace = loaded.Model
	if opts.pkg != "" {
		found, ok := findPackage(loaded.Reader.Delegate(), loaded.Model, opts.pkg, s.separator())
		if !ok {
			return reportError(cmd, s, fmt.Errorf("package %q not found", opts.pkg))
		}
		ns = found
	}

	g, err := transform.DependencyGraph(ns, kinds)
	if err != nil {
		return reportError(cmd, s, err)
	}
	err = writeOutput(cmd.OutOrStdout(), opts.output, func(w io.Writer) error {
		return transform.WriteDOT(w, g)
	})
	if err != nil {
		return reportError(cmd, s, err)
	}
	return nil
}

// findPackage returns the live namespace under root, root included, whose
// qualified name is name.
func findPackage(d *delegate.ModelDelegate, root elements.Namespace, name, sep string) (elements.Namespace, bool) {
	if d.QualifiedName(root, sep) == name {
		return root, true
	}
	for _, pe := range d.AllPackagedElementsWhere(root, isNamespace) {
		if d.QualifiedName(pe, sep) == name {
			return pe.(elements.Namespace), true
		}
	}
	return nil, false
}

func isNamespace(pe elements.PackageableElement) bool {
	_, ok := pe.(elements.Namespace)
	return ok
}
