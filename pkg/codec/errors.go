// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"errors"
	"fmt"

	"github.com/invowk/umlgraph/pkg/elements"
)

var (
	// ErrMissingElementType is the sentinel error wrapped by MissingElementTypeError.
	ErrMissingElementType = errors.New("missing elementType")
	// ErrNotAnObject is returned when the serialized root is not an object.
	ErrNotAnObject = errors.New("serialized graph is not an object")
)

// MissingElementTypeError is returned when an object that must become an
// element carries no elementType key.
type MissingElementTypeError struct {
	// Owner is the kind of the element the object was nested in, empty for
	// the root.
	Owner elements.ElementType
	// Key is the key the object was found under, empty for the root.
	Key string
}

// Error implements the error interface.
func (e *MissingElementTypeError) Error() string {
	if e.Owner == "" {
		return "unable to create root element: the data is missing the \"elementType\" property"
	}
	return fmt.Sprintf("unable to create child element under %s.%s: the data is missing the \"elementType\" property", e.Owner, e.Key)
}

// Unwrap returns ErrMissingElementType for errors.Is() compatibility.
func (e *MissingElementTypeError) Unwrap() error { return ErrMissingElementType }
