// SPDX-License-Identifier: MPL-2.0

// Package codec converts element graphs to and from their serialized JSON
// form.
//
// Serialization is sparse: false, zero and empty values are omitted.
// Reference fields are written as ids, and contained elements are embedded
// once at their owner. Deserialization streams tokens and keeps only a stack
// of open objects, so memory follows nesting depth rather than document size.
package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invowk/umlgraph/pkg/elements"
)

type (
	// Encoder writes element graphs as sparse JSON.
	Encoder struct {
		w      io.Writer
		prefix string
		indent string
	}

	// EncoderOption configures an Encoder.
	EncoderOption func(*Encoder)
)

// WithIndent makes the encoder pretty-print its output.
func WithIndent(prefix, indent string) EncoderOption {
	return func(enc *Encoder) {
		enc.prefix = prefix
		enc.indent = indent
	}
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	enc := &Encoder{w: w}
	for _, opt := range opts {
		opt(enc)
	}
	return enc
}

// Encode writes the tree rooted at e followed by a newline.
func (enc *Encoder) Encode(e elements.Element) error {
	je := json.NewEncoder(enc.w)
	je.SetEscapeHTML(false)
	if enc.indent != "" || enc.prefix != "" {
		je.SetIndent(enc.prefix, enc.indent)
	}
	if err := je.Encode(e); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// Marshal returns the sparse JSON form of the tree rooted at e.
func Marshal(e elements.Element) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}
