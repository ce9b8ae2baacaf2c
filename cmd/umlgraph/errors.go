// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/invowk/umlgraph/internal/issue"
	"github.com/invowk/umlgraph/pkg/codec"
	"github.com/invowk/umlgraph/pkg/cueutil"
	"github.com/invowk/umlgraph/pkg/document"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/transform"
	"github.com/invowk/umlgraph/pkg/types"
)

// classifyError maps a failure to its issue catalog entry. Errors that
// already carry an issue keep it. Zero means no entry applies.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID
	}

	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.DocumentNotFoundId
	case errors.Is(err, document.ErrUnknownFormat):
		return issue.UnknownFormatId
	case errors.Is(err, document.ErrUnknownModelType):
		return issue.UnknownModelTypeId
	case errors.Is(err, transform.ErrDependencyCycle):
		return issue.DependencyCycleId
	case errors.Is(err, transform.ErrInvalidDependencyKind),
		errors.Is(err, transform.ErrInvalidCyclePolicy):
		return issue.InvalidDependencyKindId
	case errors.Is(err, elements.ErrInvalidElementType):
		return issue.InvalidElementTypeId
	case errors.Is(err, document.ErrNoModel),
		errors.Is(err, document.ErrNotAModel),
		errors.Is(err, codec.ErrMissingElementType),
		errors.Is(err, codec.ErrNotAnObject),
		errors.Is(err, elements.ErrInvalidChild),
		errors.As(err, &syntaxErr):
		return issue.DocumentParseErrorId
	}
	return 0
}

// wrapLoadError attaches the document path and catalog entry to a load
// failure. Unclassified load failures are treated as parse errors.
func wrapLoadError(err error, path string) error {
	id := classifyError(err)
	if id == 0 {
		id = issue.DocumentParseErrorId
	}
	ctx := issue.NewErrorContext().
		WithOperation("load model document").
		WithResource(path).
		WithIssue(id).
		Wrap(err)
	var (
		syntaxErr *json.SyntaxError
		cueErr    *cueutil.ValidationError
	)
	switch {
	case errors.As(err, &syntaxErr):
		ctx.WithLocation(fmt.Sprintf("byte %d", syntaxErr.Offset))
	case errors.As(err, &cueErr) && cueErr.Path() != "":
		ctx.WithLocation(cueErr.Path().String())
	}
	switch id {
	case issue.DocumentNotFoundId:
		ctx.WithSuggestion("Check the path of the document and of every entry under 'references'")
	case issue.UnknownFormatId:
		ctx.WithSuggestion("Pass the format explicitly with --from")
	}
	return ctx.BuildError()
}

// reportError prints err and, in verbose mode, the catalog entry it maps to.
// The returned ExitError carries the exit code; the error itself is already
// rendered, so Cobra is told not to print it again.
func reportError(cmd *cobra.Command, s *session, err error) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, s.verbose))
	if s.verbose {
		renderIssue(stderr, classifyError(err), string(s.cfg.UI.ColorScheme))
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// renderIssue writes the markdown help of a catalog entry. Rendering
// failures fall back to the raw markdown.
func renderIssue(w io.Writer, id issue.Id, style string) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		rendered = string(entry.MarkdownMsg())
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, rendered)
}
