// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/invowk/umlgraph/pkg/codec"
	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
)

// ReferenceSeparator joins a referenced document id and an element id.
const ReferenceSeparator = "/"

type (
	// Reader loads documents into one graph. Elements of every document read
	// through the same Reader share an identity index, so later documents can
	// reference elements of earlier ones.
	Reader struct {
		delegate *delegate.ModelDelegate
		logger   *log.Logger
		codec    []codec.Option
		profiles []*elements.Profile
		loaded   map[string]bool
		seen     map[*Document]bool
	}

	// ReaderOption configures a Reader.
	ReaderOption func(*Reader)
)

// WithCodecOptions passes options to every decoder the reader creates. An id
// prefix given here is overridden for referenced documents.
func WithCodecOptions(opts ...codec.Option) ReaderOption {
	return func(r *Reader) { r.codec = append(r.codec, opts...) }
}

// NewReader returns a Reader that registers elements through d. A nil d gets
// a fresh graph seeded with the primitive types.
func NewReader(d *delegate.ModelDelegate, opts ...ReaderOption) *Reader {
	if d == nil {
		d = delegate.New(elementmap.New(elementmap.WithPrimitives()))
	}
	r := &Reader{
		delegate: d,
		logger:   d.Map().Logger(),
		loaded:   map[string]bool{},
		seen:     map[*Document]bool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Delegate returns the navigation engine over everything read so far.
func (r *Reader) Delegate() *delegate.ModelDelegate { return r.delegate }

// Profiles returns every profile read so far, from the main document and
// from referenced documents.
func (r *Reader) Profiles() []*elements.Profile { return r.profiles }

// Read loads doc and its referenced documents and returns the main model.
func (r *Reader) Read(doc *Document) (*elements.Model, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return r.load(doc, "")
}

func (r *Reader) load(doc *Document, prefix string) (*elements.Model, error) {
	r.seen[doc] = true
	if doc.ID != "" {
		r.loaded[doc.ID] = true
	}

	for _, ref := range doc.References {
		if ref.Document == nil {
			r.logger.Warn("Referenced document is not loaded", "name", ref.Name, "path", ref.Path)
			continue
		}
		if r.seen[ref.Document] || (ref.Document.ID != "" && r.loaded[ref.Document.ID]) {
			r.logger.Debug("Skipping document that is already loaded", "id", ref.Document.ID)
			continue
		}
		if _, err := r.load(ref.Document, ref.Document.ID+ReferenceSeparator); err != nil {
			return nil, fmt.Errorf("load reference %q: %w", ref.Name, err)
		}
	}

	if len(doc.Profiles) > 0 {
		profiles, err := r.decodeModel(doc.Profiles, prefix)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		if profiles != nil {
			for _, pe := range profiles.PackagedElements {
				if p, ok := pe.(*elements.Profile); ok {
					r.profiles = append(r.profiles, p)
				}
			}
		}
	}

	if len(doc.Model) == 0 {
		return nil, nil
	}
	model, err := r.decodeModel(doc.Model, prefix)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return model, nil
}

func (r *Reader) decodeModel(raw []byte, prefix string) (*elements.Model, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	opts := append([]codec.Option{}, r.codec...)
	opts = append(opts, codec.WithIDPrefix(prefix))
	root, err := codec.NewDecoder(r.delegate, opts...).Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	model, ok := root.(*elements.Model)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotAModel, elements.KindOf(root))
	}
	return model, nil
}

// Load parses data in format f and reads it into a fresh graph. References
// must already carry their documents.
func Load(data []byte, f Format, filename string, opts ...ReaderOption) (*elements.Model, *Reader, error) {
	doc, err := Parse(data, f, filename)
	if err != nil {
		return nil, nil, err
	}
	r := NewReader(nil, opts...)
	model, err := r.Read(doc)
	if err != nil {
		return nil, nil, err
	}
	return model, r, nil
}
