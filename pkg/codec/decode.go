// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/resolver"
)

const (
	keyElementType = "elementType"
	keyID          = "id"
)

type (
	// Decoder builds elements from their serialized form in a single pass.
	// Elements are created and indexed as soon as their kind and id are
	// known; references are buffered and resolved once the root object
	// closes.
	Decoder struct {
		delegate *delegate.ModelDelegate
		resolver *resolver.Resolver
		logger   *log.Logger
		comparer *Comparer
		idPrefix string
		newID    func() string
	}

	// Option configures a Decoder.
	Option func(*Decoder)

	// frame is one open object on the construction stack.
	frame struct {
		owner elements.Element
		key   string
		elem  elements.Element

		kind     elements.ElementType
		id       string
		hasKind  bool
		hasID    bool
		buffered []json.Token

		// list marks a frame for an array of contained elements rather than
		// an object.
		list bool
	}
)

// WithApplySorting sorts packaged and ordered elements after decoding.
func WithApplySorting(apply bool) Option {
	return func(dec *Decoder) {
		if apply {
			dec.comparer = NewComparer(language.Und)
		} else {
			dec.comparer = nil
		}
	}
}

// WithComparer sorts with c after decoding.
func WithComparer(c *Comparer) Option {
	return func(dec *Decoder) { dec.comparer = c }
}

// WithIDPrefix prefixes every decoded element id, and every reference that
// is not already indexed, with prefix.
func WithIDPrefix(prefix string) Option {
	return func(dec *Decoder) { dec.idPrefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(dec *Decoder) {
		if logger != nil {
			dec.logger = logger
		}
	}
}

// WithIDGenerator sets the function used for objects that carry no id.
func WithIDGenerator(fn func() string) Option {
	return func(dec *Decoder) {
		if fn != nil {
			dec.newID = fn
		}
	}
}

// NewDecoder returns a Decoder that registers elements through d.
func NewDecoder(d *delegate.ModelDelegate, opts ...Option) *Decoder {
	dec := &Decoder{
		delegate: d,
		resolver: resolver.New(d),
		logger:   d.Map().Logger(),
		newID:    d.NewID,
	}
	for _, opt := range opts {
		opt(dec)
	}
	return dec
}

// Unmarshal decodes data into a fresh graph seeded with the primitive types.
func Unmarshal(data []byte, opts ...Option) (elements.Element, *delegate.ModelDelegate, error) {
	d := delegate.New(elementmap.New(elementmap.WithPrimitives()))
	root, err := NewDecoder(d, opts...).Decode(bytes.NewReader(data))
	return root, d, err
}

// Decode reads one serialized element tree from r and returns its root.
// References are resolved exactly once, when the root closes.
func (dec *Decoder) Decode(r io.Reader) (elements.Element, error) {
	ts := newTokenStream(r)
	first, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if !isDelim(first, '{') {
		return nil, ErrNotAnObject
	}

	stack := []*frame{{}}
	for {
		top := stack[len(stack)-1]
		t, err := ts.Token()
		if err != nil {
			return nil, fmt.Errorf("decode graph: %w", err)
		}

		if top.list {
			switch {
			case isDelim(t, ']'):
				stack = stack[:len(stack)-1]
			case isDelim(t, '{'):
				stack = append(stack, &frame{owner: top.owner, key: top.key})
			case t == nil:
			default:
				dec.logger.Warn("Skipping non-object entry in element list", "key", top.key)
				ts.Unread(t)
				if err := ts.SkipValue(); err != nil {
					return nil, fmt.Errorf("decode graph: %w", err)
				}
			}
			continue
		}

		if isDelim(t, '}') {
			if top.elem == nil {
				if err := dec.create(top, ""); err != nil {
					return nil, err
				}
				ts.Unread(append(top.buffered, t)...)
				top.buffered = nil
				continue
			}
			stack = stack[:len(stack)-1]
			if top.owner == nil {
				dec.resolver.Resolve()
				if dec.comparer != nil {
					dec.comparer.Sort(top.elem)
				}
				return top.elem, nil
			}
			if err := elements.Attach(top.owner, top.key, top.elem); err != nil {
				return nil, fmt.Errorf("decode graph: %w", err)
			}
			continue
		}

		key, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("decode graph: unexpected token %v", t)
		}

		if top.elem == nil {
			if err := dec.readHeader(ts, top, key); err != nil {
				return nil, err
			}
			continue
		}

		child, err := dec.readProperty(ts, top, key)
		if err != nil {
			return nil, err
		}
		if child != nil {
			stack = append(stack, child)
		}
	}
}

// readHeader handles a key read before the element of top exists. The kind
// and id are recorded; any other key is buffered with its value until both
// are known.
func (dec *Decoder) readHeader(ts *tokenStream, top *frame, key string) error {
	switch key {
	case keyElementType, keyID:
		t, err := ts.Token()
		if err != nil {
			return fmt.Errorf("decode graph: %w", err)
		}
		text, ok := headerText(t)
		if !ok {
			return fmt.Errorf("decode graph: %q must be a string, got %v", key, t)
		}
		if key == keyElementType {
			top.kind, top.hasKind = elements.ElementType(text), text != ""
		} else {
			top.id, top.hasID = text, text != ""
		}
	default:
		value, err := ts.ReadValue()
		if err != nil {
			return fmt.Errorf("decode graph: %w", err)
		}
		top.buffered = append(top.buffered, key)
		top.buffered = append(top.buffered, value...)
		return nil
	}

	if top.hasKind && top.hasID {
		if err := dec.create(top, dec.idPrefix+top.id); err != nil {
			return err
		}
		ts.Unread(top.buffered...)
		top.buffered = nil
	}
	return nil
}

// create creates and indexes the element of f. An empty id is generated.
func (dec *Decoder) create(f *frame, id string) error {
	if !f.hasKind {
		return &MissingElementTypeError{Owner: elements.KindOf(f.owner), Key: f.key}
	}
	if id == "" {
		id = dec.newID()
	}
	e, err := dec.delegate.CreateElement(f.kind, f.owner, id)
	if err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}
	f.elem = e
	return nil
}

// readProperty handles one key of an existing element. It returns a frame to
// push when the value opens contained elements.
func (dec *Decoder) readProperty(ts *tokenStream, top *frame, key string) (*frame, error) {
	if key == keyElementType || key == keyID {
		return nil, ts.SkipValue()
	}
	info, ok := elements.Field(top.elem, key)
	if !ok {
		dec.logger.Debug("Skipping unknown key", "key", key, "elementType", top.kind)
		return nil, ts.SkipValue()
	}

	t, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	if t == nil {
		return nil, nil
	}

	switch info.Role {
	case elements.RoleScalar:
		if isOpen(t) {
			dec.logger.Warn("Skipping structured value for scalar key", "key", key, "id", top.elem.AsElement().ID)
			ts.Unread(t)
			return nil, ts.SkipValue()
		}
		if err := elements.SetScalar(top.elem, key, t); err != nil {
			dec.logger.Warn("Skipping invalid value", "key", key, "id", top.elem.AsElement().ID, "error", err)
		}
		return nil, nil

	case elements.RoleRef:
		if id, ok := t.(string); ok && id != "" {
			dec.resolver.AddUnresolvedReference(key, top.elem, dec.referenceID(id))
			return nil, nil
		}
		dec.logger.Warn("Skipping non-string reference", "key", key, "id", top.elem.AsElement().ID)
		ts.Unread(t)
		return nil, ts.SkipValue()

	case elements.RoleRefs:
		if !isDelim(t, '[') {
			dec.logger.Warn("Skipping non-list reference", "key", key, "id", top.elem.AsElement().ID)
			ts.Unread(t)
			return nil, ts.SkipValue()
		}
		ids, err := dec.readIDs(ts)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			dec.resolver.AddUnresolvedReference(key, top.elem, ids...)
		}
		return nil, nil

	case elements.RoleOwned:
		if !isDelim(t, '{') {
			return nil, fmt.Errorf("decode graph: %s.%s must be an object", top.kind, key)
		}
		return &frame{owner: top.elem, key: key}, nil

	case elements.RoleOwnedList:
		if !isDelim(t, '[') {
			return nil, fmt.Errorf("decode graph: %s.%s must be a list", top.kind, key)
		}
		return &frame{owner: top.elem, key: key, list: true}, nil
	}
	return nil, nil
}

func (dec *Decoder) readIDs(ts *tokenStream) ([]string, error) {
	var ids []string
	for {
		t, err := ts.Token()
		if err != nil {
			return nil, fmt.Errorf("decode graph: %w", err)
		}
		if isDelim(t, ']') {
			return ids, nil
		}
		if id, ok := t.(string); ok && id != "" {
			ids = append(ids, dec.referenceID(id))
			continue
		}
		if isOpen(t) {
			ts.Unread(t)
			if err := ts.SkipValue(); err != nil {
				return nil, fmt.Errorf("decode graph: %w", err)
			}
		}
	}
}

// referenceID applies the id prefix to a reference unless the raw id is
// already known, such as a primitive type or an element of an earlier
// document.
func (dec *Decoder) referenceID(id string) string {
	if dec.idPrefix == "" || dec.delegate.Map().Has(id) {
		return id
	}
	return dec.idPrefix + id
}

func headerText(t json.Token) (string, bool) {
	switch x := t.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
