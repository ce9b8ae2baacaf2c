// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/profile"
)

// newShowCommand creates the `umlgraph show` command.
func newShowCommand(app *App) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "show <document>",
		Short: "Print the type tree of a model document",
		Long: `Print every package and type of a model with qualified names,
generalizations, attributes with their multiplicity, and operations with
their signatures. Elements with applied stereotypes also list the values of
the stereotype meta-attributes, falling back to their defaults.

Examples:
  umlgraph show model.json
  umlgraph --config ./naming.cue show model.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.newSession(cmd.Context())
			format, err := parseFormatFlag(from)
			if err != nil {
				return reportError(cmd, s, err)
			}
			loaded, err := app.loadModel(cmd.Context(), s, args[0], format)
			if err != nil {
				return reportError(cmd, s, wrapLoadError(err, args[0]))
			}
			d := loaded.Reader.Delegate()
			tw := &treeWriter{
				w:    cmd.OutOrStdout(),
				d:    d,
				caps: profile.NewCapabilities(d, loaded.Reader.Profiles()...),
				sep:  s.separator(),
			}
			tw.namespace(loaded.Model, 0)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "format of the document (json, yaml, toml, cue)")
	return cmd
}

// treeWriter prints the ownership tree of a namespace, one element per line.
type treeWriter struct {
	w    io.Writer
	d    *delegate.ModelDelegate
	caps *profile.Capabilities
	sep  string
}

func allPackaged(elements.PackageableElement) bool { return true }

func (tw *treeWriter) line(depth int, text string) {
	fmt.Fprintf(tw.w, "%s%s\n", strings.Repeat("  ", depth), text)
}

func (tw *treeWriter) namespace(ns elements.Namespace, depth int) {
	tw.line(depth, tw.header(ns))
	tw.stereotypeValues(ns, depth+1)
	for _, pe := range tw.d.PackagedElementsWhere(ns, allPackaged) {
		if nested, ok := pe.(elements.Namespace); ok {
			tw.namespace(nested, depth+1)
			continue
		}
		tw.element(pe, depth+1)
	}
}

func (tw *treeWriter) header(pe elements.PackageableElement) string {
	var b strings.Builder
	b.WriteString(kindStyle.Render(string(pe.AsElement().Kind)))
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(tw.d.QualifiedName(pe, tw.sep)))
	if names := tw.stereotypeNames(pe); len(names) > 0 {
		b.WriteString(" ")
		b.WriteString(stereotypeStyle.Render("«" + strings.Join(names, ", ") + "»"))
	}
	if c, ok := pe.(elements.Classifier); ok {
		if parents := tw.d.Parents(c); len(parents) > 0 {
			b.WriteString(" : ")
			b.WriteString(tw.qualifiedNames(parents))
		}
		if c.AsClassifier().IsAbstract {
			b.WriteString(" {abstract}")
		}
	}
	if bc, ok := pe.(elements.BehavioredClassifier); ok {
		var contracts []string
		for _, r := range bc.AsBehaviored().InterfaceRealizations {
			if contract, ok := tw.d.Map().Lookup(r.ContractID); ok {
				contracts = append(contracts, tw.d.QualifiedName(contract, tw.sep))
			}
		}
		if len(contracts) > 0 {
			b.WriteString(" implements ")
			b.WriteString(strings.Join(contracts, ", "))
		}
	}
	return b.String()
}

func (tw *treeWriter) element(pe elements.PackageableElement, depth int) {
	tw.line(depth, tw.header(pe))
	tw.stereotypeValues(pe, depth+1)

	if enum, ok := pe.(*elements.Enumeration); ok {
		for _, lit := range enum.OwnedLiterals {
			if tw.d.Map().IsLive(lit.ID) {
				tw.line(depth+1, memberStyle.Render("- "+lit.Name))
			}
		}
	}
	if mc, ok := pe.(elements.MemberedClassifier); ok {
		for _, p := range mc.AsMembered().OwnedAttributes {
			if tw.d.Map().IsLive(p.ID) {
				tw.line(depth+1, tw.attribute(p))
			}
		}
		for _, op := range mc.AsMembered().OwnedOperations {
			if tw.d.Map().IsLive(op.ID) {
				tw.line(depth+1, tw.operation(op))
			}
		}
	}
	if a, ok := pe.(*elements.Association); ok {
		ends := make([]string, 0, len(a.MemberEnds))
		for _, e := range tw.d.Map().ElementsByIDList(a.MemberEnds) {
			ends = append(ends, tw.d.QualifiedName(e, tw.sep))
		}
		if len(ends) > 0 {
			tw.line(depth+1, memberStyle.Render("ends "+strings.Join(ends, " <-> ")))
		}
	}
}

func (tw *treeWriter) attribute(p *elements.Property) string {
	var b strings.Builder
	b.WriteString(visibilitySymbol(p.Visibility))
	b.WriteString(p.Name)
	b.WriteString(tw.typeSuffix(p))
	if p.IsReadOnly {
		b.WriteString(" {readOnly}")
	}
	if v := tw.d.Default(p); v != nil {
		fmt.Fprintf(&b, " = %v", v)
	}
	return memberStyle.Render(b.String())
}

func (tw *treeWriter) operation(op *elements.Operation) string {
	params := tw.d.InputParameters(op)
	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, p.Name+tw.typeSuffix(p))
	}

	var b strings.Builder
	b.WriteString(visibilitySymbol(op.Visibility))
	b.WriteString(op.Name)
	b.WriteString("(")
	b.WriteString(strings.Join(args, ", "))
	b.WriteString(")")
	if ret, ok := tw.d.ReturnParameter(op); ok {
		b.WriteString(tw.typeSuffix(ret))
	}
	if op.IsAbstract {
		b.WriteString(" {abstract}")
	}
	return memberStyle.Render(b.String())
}

// typeSuffix renders ": Type[mult]" for a typed multiplicity element.
func (tw *treeWriter) typeSuffix(e elements.MultiplicityElement) string {
	name := tw.d.TypeName(e)
	if name == "" {
		name = "?"
	}
	return ": " + name + tw.multiplicity(e)
}

// multiplicity renders the bounds of e, or nothing for exactly one.
func (tw *treeWriter) multiplicity(e elements.Element) string {
	lower, upper := tw.d.LowerBound(e), tw.d.UpperBound(e)
	if n, ok := upper.Value(); ok && n == lower {
		if lower == 1 {
			return ""
		}
		return fmt.Sprintf("[%d]", lower)
	}
	return fmt.Sprintf("[%d..%s]", lower, upper)
}

func (tw *treeWriter) stereotypeNames(e elements.Element) []string {
	var names []string
	for _, st := range tw.d.Map().ElementsByIDList(e.AsElement().AppliedStereotypes) {
		names = append(names, elements.Name(st))
	}
	return names
}

// stereotypeValues prints one "«Stereotype» name = value" line per
// meta-attribute of each stereotype applied to e. Attributes with neither a
// tagged value nor a default are skipped.
func (tw *treeWriter) stereotypeValues(e elements.Element, depth int) {
	kind := elements.KindOf(e)
	for _, id := range e.AsElement().AppliedStereotypes {
		st, ok := tw.caps.Stereotype(id)
		if !ok {
			continue
		}
		attrs, _ := tw.caps.MetaAttributes(kind, id)
		for _, meta := range attrs {
			v, ok := tw.caps.Value(e, id, meta.Name)
			if !ok || v == nil {
				continue
			}
			tw.line(depth, stereotypeStyle.Render(fmt.Sprintf("«%s» %s = %v", st.Name, meta.Name, v)))
		}
	}
}

func (tw *treeWriter) qualifiedNames(list []elements.Classifier) string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, tw.d.QualifiedName(c, tw.sep))
	}
	return strings.Join(names, ", ")
}

func visibilitySymbol(v elements.VisibilityKind) string {
	switch v {
	case elements.VisibilityPrivate:
		return "- "
	case elements.VisibilityProtected:
		return "# "
	case elements.VisibilityPackage:
		return "~ "
	case elements.VisibilityPublic:
		return "+ "
	}
	return ""
}
