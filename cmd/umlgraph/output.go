// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/umlgraph/pkg/codec"
	"github.com/invowk/umlgraph/pkg/document"
	"github.com/invowk/umlgraph/pkg/elements"
)

// parseFormatFlag parses a --from value. Empty means pick the format from the
// file extension.
func parseFormatFlag(name string) (document.Format, error) {
	if name == "" {
		return "", nil
	}
	return document.ParseFormat(name)
}

// writeOutput runs write against stdout, or against the file at path when
// one is given.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close output file: %w", closeErr))
		}
	}()
	return write(f)
}

// writeDocument writes the envelope of root with model re-encoded in sparse
// form. Profiles are copied as read and references keep only their location.
func writeDocument(w io.Writer, root *document.Document, model *elements.Model) error {
	data, err := codec.Marshal(model)
	if err != nil {
		return err
	}

	out := *root
	out.Model = data
	out.References = make([]document.Reference, len(root.References))
	for i, ref := range root.References {
		ref.Document = nil
		out.References[i] = ref
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
