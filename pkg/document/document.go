// SPDX-License-Identifier: MPL-2.0

// Package document reads model documents: the envelope that carries a model,
// an optional profiles model and references to other documents.
//
// Referenced documents are loaded first and their element ids are prefixed
// with "<documentId>/", so that elements of different documents never
// collide. Profiles are loaded next, so that applied stereotypes in the model
// can be resolved against them. The main model is loaded last.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ModelTypeName is the model type written by document producers.
const ModelTypeName = "Yellicode YML"

const (
	// LocationLocal marks a reference to a file relative to the referencing
	// document.
	LocationLocal LocationKind = "local"
	// LocationPackage marks a reference to a document shipped in a package.
	LocationPackage LocationKind = "npm"
)

var (
	// ErrNoModel is returned when a document has no model.
	ErrNoModel = errors.New("the document does not contain any model data")

	// ErrUnknownModelType is the sentinel of UnknownModelTypeError.
	ErrUnknownModelType = errors.New("unknown model type")

	// ErrNotAModel is returned when the model or profiles entry is not an
	// element of kind model.
	ErrNotAModel = errors.New("document entry is not a model")
)

type (
	// LocationKind says where a referenced document lives.
	LocationKind string

	// Document is the envelope of a serialized model. Model and Profiles hold
	// the raw graph encoding and are decoded by a Reader.
	Document struct {
		ID               string          `json:"id"`
		Creator          string          `json:"creator,omitempty"`
		ModelTypeName    string          `json:"modelTypeName"`
		ModelTypeVersion string          `json:"modelTypeVersion,omitempty"`
		Model            json.RawMessage `json:"model,omitempty"`
		Profiles         json.RawMessage `json:"profiles,omitempty"`
		References       []Reference     `json:"references,omitempty"`

		checksum uint64
	}

	// Reference points at another document. Document holds the referenced
	// document once it is loaded, either inline or by a filesystem loader.
	Reference struct {
		Location LocationKind `json:"location"`
		Name     string       `json:"name"`
		Path     string       `json:"path"`
		Document *Document    `json:"document,omitempty"`
	}

	// UnknownModelTypeError is returned for a document whose model type
	// cannot be read.
	UnknownModelTypeError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *UnknownModelTypeError) Error() string {
	return fmt.Sprintf("cannot read the model file: unknown model type %q", e.Name)
}

// Unwrap returns ErrUnknownModelType.
func (e *UnknownModelTypeError) Unwrap() error { return ErrUnknownModelType }

// CanRead reports whether documents of the given model type can be read.
func CanRead(modelTypeName string) bool {
	return strings.EqualFold(modelTypeName, ModelTypeName)
}

// Validate checks the envelope before any element is decoded.
func (d *Document) Validate() error {
	if !CanRead(d.ModelTypeName) {
		return &UnknownModelTypeError{Name: d.ModelTypeName}
	}
	if len(d.Model) == 0 || string(d.Model) == "null" {
		return ErrNoModel
	}
	return nil
}

// Checksum returns the xxhash of the source the document was parsed from,
// or zero for documents built in memory.
func (d *Document) Checksum() uint64 { return d.checksum }

// ChecksumString formats Checksum as 16 hex digits.
func (d *Document) ChecksumString() string { return FormatChecksum(d.checksum) }

// Checksum returns the xxhash of data.
func Checksum(data []byte) uint64 { return xxhash.Sum64(data) }

// FormatChecksum formats a checksum as 16 hex digits.
func FormatChecksum(sum uint64) string { return fmt.Sprintf("%016x", sum) }

// PendingReferences returns the references whose document is not loaded yet.
func (d *Document) PendingReferences() []*Reference {
	var out []*Reference
	for i := range d.References {
		if d.References[i].Document == nil {
			out = append(out, &d.References[i])
		}
	}
	return out
}
