// SPDX-License-Identifier: MPL-2.0

package elements

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

const (
	// RoleScalar is a plain value copied as-is.
	RoleScalar Role = iota
	// RoleRef is a single element id.
	RoleRef
	// RoleRefs is a list of element ids.
	RoleRefs
	// RoleOwned is one contained element.
	RoleOwned
	// RoleOwnedList is a list of contained elements.
	RoleOwnedList
)

var (
	// ErrUnknownField is returned when a key is not declared on an element kind.
	ErrUnknownField = errors.New("unknown field")
	// ErrWrongRole is returned when a field is used with an operation that does
	// not match its declared role.
	ErrWrongRole = errors.New("field role mismatch")
	// ErrInvalidChild is the sentinel error wrapped by AttachError.
	ErrInvalidChild = errors.New("invalid child element")

	fieldTables sync.Map // reflect.Type -> *fieldTable

	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type (
	// Role is the declared meaning of a serialized key.
	Role int

	// FieldInfo describes one serialized key of an element kind.
	FieldInfo struct {
		Key   string
		Role  Role
		Type  reflect.Type
		index []int
	}

	// AttachError is returned when a child element cannot be stored under a key
	// of its would-be owner.
	AttachError struct {
		Owner ElementType
		Key   string
		Child ElementType
	}

	fieldTable struct {
		byKey   map[string]FieldInfo
		ordered []FieldInfo
	}
)

// Error implements the error interface.
func (e *AttachError) Error() string {
	return fmt.Sprintf("cannot attach %s under %s.%s", e.Child, e.Owner, e.Key)
}

// Unwrap returns ErrInvalidChild for errors.Is() compatibility.
func (e *AttachError) Unwrap() error { return ErrInvalidChild }

// String returns the role name used in uml struct tags.
func (r Role) String() string {
	switch r {
	case RoleRef:
		return "ref"
	case RoleRefs:
		return "refs"
	case RoleOwned:
		return "owned"
	case RoleOwnedList:
		return "owned-list"
	default:
		return "scalar"
	}
}

// IsReference reports whether the role holds element ids.
func (r Role) IsReference() bool { return r == RoleRef || r == RoleRefs }

// IsContainment reports whether the role holds contained elements.
func (r Role) IsContainment() bool { return r == RoleOwned || r == RoleOwnedList }

// IsList reports whether the role holds a list.
func (r Role) IsList() bool { return r == RoleRefs || r == RoleOwnedList }

// Fields returns the serialized keys of e in declaration order.
func Fields(e Element) []FieldInfo {
	return tableFor(reflect.TypeOf(e)).ordered
}

// Field returns the declared key of e, if any.
func Field(e Element, key string) (FieldInfo, bool) {
	info, ok := tableFor(reflect.TypeOf(e)).byKey[key]
	return info, ok
}

// HasAttribute reports whether e declares key as a field or already carries
// it as a materialized extension.
func HasAttribute(e Element, key string) bool {
	if _, ok := Field(e, key); ok {
		return true
	}
	_, ok := e.AsElement().Extensions[key]
	return ok
}

// Value returns the current value of key on e.
func Value(e Element, key string) (any, bool) {
	info, ok := Field(e, key)
	if !ok {
		return nil, false
	}
	return fieldValue(e, info).Interface(), true
}

// SetScalar stores a decoded JSON scalar (string, json.Number, float64, bool
// or nil) under key.
func SetScalar(e Element, key string, value any) error {
	info, ok := Field(e, key)
	if !ok {
		return fmt.Errorf("%w %q on %s", ErrUnknownField, key, KindOf(e))
	}
	if info.Role != RoleScalar {
		return fmt.Errorf("%w: %s.%s is %s", ErrWrongRole, KindOf(e), key, info.Role)
	}
	if err := assignScalar(fieldValue(e, info), value); err != nil {
		return fmt.Errorf("%s.%s: %w", KindOf(e), key, err)
	}
	return nil
}

// SetReference stores id under a reference key. For list keys the id is
// appended; for single keys it overwrites the previous value.
func SetReference(e Element, key, id string) error {
	info, ok := Field(e, key)
	if !ok {
		return fmt.Errorf("%w %q on %s", ErrUnknownField, key, KindOf(e))
	}
	v := fieldValue(e, info)
	switch info.Role {
	case RoleRef:
		v.SetString(id)
	case RoleRefs:
		v.Set(reflect.Append(v, reflect.ValueOf(id)))
	default:
		return fmt.Errorf("%w: %s.%s is %s", ErrWrongRole, KindOf(e), key, info.Role)
	}
	return nil
}

// Attach stores child under a containment key of owner and records owner as
// the child's owner.
func Attach(owner Element, key string, child Element) error {
	info, ok := Field(owner, key)
	if !ok {
		return fmt.Errorf("%w %q on %s", ErrUnknownField, key, KindOf(owner))
	}
	v := fieldValue(owner, info)
	cv := reflect.ValueOf(child)
	switch info.Role {
	case RoleOwned:
		if !cv.Type().AssignableTo(info.Type) {
			return &AttachError{Owner: KindOf(owner), Key: key, Child: KindOf(child)}
		}
		v.Set(cv)
	case RoleOwnedList:
		if !cv.Type().AssignableTo(info.Type.Elem()) {
			return &AttachError{Owner: KindOf(owner), Key: key, Child: KindOf(child)}
		}
		v.Set(reflect.Append(v, cv))
	default:
		return fmt.Errorf("%w: %s.%s is %s", ErrWrongRole, KindOf(owner), key, info.Role)
	}
	child.AsElement().OwnerID = owner.AsElement().ID
	return nil
}

// CanAttach reports whether a child of the given kind may be stored under key.
func CanAttach(owner Element, key string, kind ElementType) bool {
	info, ok := Field(owner, key)
	if !ok || !info.Role.IsContainment() {
		return false
	}
	probe, err := New(kind)
	if err != nil {
		return false
	}
	t := info.Type
	if info.Role == RoleOwnedList {
		t = t.Elem()
	}
	return reflect.TypeOf(probe).AssignableTo(t)
}

// Children returns the elements contained by e, in field declaration order.
func Children(e Element) []Element {
	var out []Element
	for _, info := range Fields(e) {
		v := fieldValue(e, info)
		switch info.Role {
		case RoleOwned:
			if child, ok := asElement(v); ok {
				out = append(out, child)
			}
		case RoleOwnedList:
			for i := range v.Len() {
				if child, ok := asElement(v.Index(i)); ok {
					out = append(out, child)
				}
			}
		}
	}
	return out
}

// Walk calls fn for e and every element it contains, depth-first, owner
// before children. Returning false from fn skips that element's children.
func Walk(e Element, fn func(Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range Children(e) {
		Walk(child, fn)
	}
}

func asElement(v reflect.Value) (Element, bool) {
	if !v.IsValid() || v.IsNil() {
		return nil, false
	}
	child, ok := v.Interface().(Element)
	return child, ok
}

func fieldValue(e Element, info FieldInfo) reflect.Value {
	return reflect.ValueOf(e).Elem().FieldByIndex(info.index)
}

func tableFor(t reflect.Type) *fieldTable {
	if cached, ok := fieldTables.Load(t); ok {
		return cached.(*fieldTable)
	}
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	table := &fieldTable{byKey: make(map[string]FieldInfo)}
	for _, f := range reflect.VisibleFields(st) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		info := FieldInfo{Key: name, Type: f.Type, index: f.Index, Role: parseRole(f.Tag.Get("uml"))}
		table.byKey[name] = info
		table.ordered = append(table.ordered, info)
	}
	actual, _ := fieldTables.LoadOrStore(t, table)
	return actual.(*fieldTable)
}

func parseRole(tag string) Role {
	switch tag {
	case "ref":
		return RoleRef
	case "refs":
		return RoleRefs
	case "owned":
		return RoleOwned
	case "owned-list":
		return RoleOwnedList
	default:
		return RoleScalar
	}
}

func assignScalar(v reflect.Value, value any) error {
	if value == nil {
		v.SetZero()
		return nil
	}
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		text, err := scalarText(value)
		if err != nil {
			return err
		}
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))
	}
	switch v.Kind() {
	case reflect.String:
		text, err := scalarText(value)
		if err != nil {
			return err
		}
		v.SetString(text)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := scalarInt(value)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Float64, reflect.Float32:
		f, err := scalarFloat(value)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", v.Type())
	}
	return nil
}

func scalarText(value any) (string, error) {
	switch x := value.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("expected scalar, got %T", value)
	}
}

func scalarInt(value any) (int64, error) {
	switch x := value.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case float64:
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

func scalarFloat(value any) (float64, error) {
	switch x := value.(type) {
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}
