// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
)

const sampleModel = `{
  "elementType": "model",
  "id": "model",
  "name": "Shop",
  "packagedElements": [
    {
      "name": "Order",
      "elementType": "class",
      "id": "order",
      "generalizations": [{"elementType": "generalization", "general": "entity"}],
      "ownedAttributes": [
        {"elementType": "property", "id": "order.lines", "name": "lines", "type": "line",
         "lowerValue": {"elementType": "literalInteger", "value": 0},
         "upperValue": {"elementType": "literalUnlimitedNatural", "value": "*"}},
        {"elementType": "property", "id": "order.total", "name": "total", "type": "real_id", "isReadOnly": true}
      ],
      "ownedOperations": [
        {"elementType": "operation", "id": "order.submit", "name": "submit",
         "ownedParameters": [{"elementType": "parameter", "id": "order.submit.return", "direction": "return", "type": "boolean_id"}]}
      ]
    },
    {"elementType": "class", "id": "entity", "name": "Entity", "isAbstract": true},
    {"elementType": "class", "id": "line", "name": "Line",
     "ownedComments": [{"elementType": "comment", "body": "One order line."}],
     "ownedAttributes": [{"elementType": "property", "id": "line.order", "name": "order", "type": "order"}]},
    {"elementType": "association", "id": "assoc", "memberEnds": ["order.lines", "line.order"]},
    {"elementType": "package", "id": "sub", "name": "sub", "packagedElements": [
      {"elementType": "enumeration", "id": "status", "name": "Status", "ownedLiterals": [
        {"elementType": "enumerationLiteral", "id": "status.open", "name": "Open", "order": 2},
        {"elementType": "enumerationLiteral", "id": "status.closed", "name": "Closed", "order": 1}
      ]}
    ]}
  ]
}`

func newDecoderForTest(t *testing.T, opts ...Option) (*Decoder, *delegate.ModelDelegate, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	m := elementmap.New(elementmap.WithLogger(log.New(&buf)), elementmap.WithPrimitives())
	d := delegate.New(m)
	return NewDecoder(d, opts...), d, &buf
}

func decodeString(t *testing.T, dec *Decoder, s string) elements.Element {
	t.Helper()
	root, err := dec.Decode(strings.NewReader(s))
	require.NoError(t, err)
	return root
}

func TestDecodeBuildsAndResolvesGraph(t *testing.T) {
	t.Parallel()

	dec, d, _ := newDecoderForTest(t)
	root := decodeString(t, dec, sampleModel)

	model, ok := root.(*elements.Model)
	require.True(t, ok, "root should be a model, got %T", root)
	require.Len(t, model.PackagedElements, 5)

	order, ok := d.FindElementByID("order")
	require.True(t, ok)
	orderClass := order.(*elements.Class)
	require.Equal(t, "Order", orderClass.Name)
	require.Equal(t, "model", orderClass.OwnerID)

	// buffered keys before elementType/id were replayed
	require.Len(t, orderClass.Generalizations, 1)
	g := orderClass.Generalizations[0]
	require.Equal(t, "entity", g.GeneralID)
	require.NotEmpty(t, g.ID, "generalization without id should get a generated id")
	require.Equal(t, "order", g.OwnerID)

	entity, _ := d.FindElementByID("entity")
	require.Equal(t, []string{"order"}, elements.IDs(d.Specializations(entity.(elements.Classifier))))

	lines := orderClass.OwnedAttributes[0]
	require.Equal(t, "line", lines.TypeID)
	require.True(t, d.IsMultivalued(lines))
	require.Equal(t, 0, d.LowerBound(lines))
	require.True(t, orderClass.OwnedAttributes[1].IsReadOnly)
	require.Equal(t, "real", d.TypeName(orderClass.OwnedAttributes[1]))

	assoc, ok := d.Association(lines)
	require.True(t, ok)
	require.Equal(t, "assoc", assoc.ID)

	submit := orderClass.OwnedOperations[0]
	rt, ok := d.ReturnType(submit)
	require.True(t, ok)
	require.Equal(t, "boolean", rt.AsNamed().Name)

	line, _ := d.FindElementByID("line")
	require.Equal(t, "One order line.", d.FirstCommentBody(line))

	require.Equal(t, "Shop.sub.Status", d.QualifiedName(mustFind(t, d, "status")))
	require.Empty(t, d.Map().Diagnostics())
}

func mustFind(t *testing.T, d *delegate.ModelDelegate, id string) elements.Element {
	t.Helper()
	e, ok := d.FindElementByID(id)
	require.True(t, ok, "element %q not found", id)
	return e
}

type snapshot struct {
	owners map[string]string
	refs   map[string][]string
}

func snapshotOf(root elements.Element) snapshot {
	s := snapshot{owners: map[string]string{}, refs: map[string][]string{}}
	elements.Walk(root, func(e elements.Element) bool {
		id := e.AsElement().ID
		s.owners[id] = e.AsElement().OwnerID
		for _, f := range elements.Fields(e) {
			if !f.Role.IsReference() {
				continue
			}
			v, _ := elements.Value(e, f.Key)
			switch x := v.(type) {
			case string:
				if x != "" {
					s.refs[id+"."+f.Key] = []string{x}
				}
			case []string:
				if len(x) > 0 {
					s.refs[id+"."+f.Key] = slices.Clone(x)
				}
			}
		}
		return true
	})
	return s
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	dec, _, _ := newDecoderForTest(t)
	original := decodeString(t, dec, sampleModel)

	data, err := Marshal(original)
	require.NoError(t, err)

	again, _, err := Unmarshal(data)
	require.NoError(t, err)

	want, got := snapshotOf(original), snapshotOf(again)
	require.Equal(t, want.owners, got.owners)
	require.Equal(t, want.refs, got.refs)

	// the second encoding is stable
	data2, err := Marshal(again)
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(data2))
}

func TestRoundTripKeepsReferenceListOrder(t *testing.T) {
	t.Parallel()

	const doc = `{"elementType": "model", "id": "m", "packagedElements": [
  {"elementType": "association", "id": "a1", "memberEnds": ["x", "y"]},
  {"elementType": "association", "id": "a2", "memberEnds": ["y", "x"]},
  {"elementType": "class", "id": "c", "ownedAttributes": [
    {"elementType": "property", "id": "x"},
    {"elementType": "property", "id": "y"}
  ]}
]}`

	dec, d, _ := newDecoderForTest(t)
	root := decodeString(t, dec, doc)

	a1 := mustFind(t, d, "a1").(*elements.Association)
	a2 := mustFind(t, d, "a2").(*elements.Association)
	require.Equal(t, []string{"x", "y"}, a1.MemberEnds)
	require.Equal(t, []string{"y", "x"}, a2.MemberEnds)

	data, err := Marshal(root)
	require.NoError(t, err)
	require.JSONEq(t, doc, string(data))
}

func TestMarshalIsSparse(t *testing.T) {
	t.Parallel()

	c := &elements.Class{}
	c.Kind = elements.KindClass
	c.ID = "c"
	data, err := Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{"elementType":"class","id":"c"}`, string(data))

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf, WithIndent("", "  ")).Encode(c))
	require.Contains(t, buf.String(), "\n  \"id\": \"c\"")
}

func TestDecodeMissingElementType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		owner elements.ElementType
	}{
		{"root", `{"id": "x", "name": "x"}`, ""},
		{"child", `{"elementType": "class", "id": "c", "ownedAttributes": [{"id": "p"}]}`, elements.KindClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec, _, _ := newDecoderForTest(t)
			_, err := dec.Decode(strings.NewReader(tt.input))
			var missing *MissingElementTypeError
			require.True(t, errors.As(err, &missing), "error = %v", err)
			require.ErrorIs(t, err, ErrMissingElementType)
			require.Equal(t, tt.owner, missing.Owner)
		})
	}
}

func TestDecodeRejectsUnknownKindAndMisplacedChild(t *testing.T) {
	t.Parallel()

	dec, _, _ := newDecoderForTest(t)
	_, err := dec.Decode(strings.NewReader(`{"elementType": "widget", "id": "w"}`))
	require.ErrorIs(t, err, elements.ErrInvalidElementType)

	dec, _, _ = newDecoderForTest(t)
	_, err = dec.Decode(strings.NewReader(`{"elementType": "class", "id": "c", "ownedAttributes": [{"elementType": "operation", "id": "op"}]}`))
	require.ErrorIs(t, err, elements.ErrInvalidChild)

	dec, _, _ = newDecoderForTest(t)
	_, err = dec.Decode(strings.NewReader(`[1, 2]`))
	require.ErrorIs(t, err, ErrNotAnObject)

	dec, _, _ = newDecoderForTest(t)
	_, err = dec.Decode(strings.NewReader(`{"elementType": "class", "id": "c"`))
	require.Error(t, err)
}

func TestDecodeDanglingAndUnknownKeys(t *testing.T) {
	t.Parallel()

	dec, d, buf := newDecoderForTest(t)
	root := decodeString(t, dec, `{"elementType": "class", "id": "c", "color": "blue",
		"ownedAttributes": [{"elementType": "property", "id": "p", "type": "nowhere"}]}`)

	require.Equal(t, "", root.(*elements.Class).OwnedAttributes[0].TypeID)
	require.Contains(t, buf.String(), "Unresolvable reference")
	diags := d.Map().Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, elementmap.CodeDanglingReference, diags[0].Code)
}

func TestDecodeWithIDPrefix(t *testing.T) {
	t.Parallel()

	dec, d, _ := newDecoderForTest(t, WithIDPrefix("lib/"))
	root := decodeString(t, dec, `{"elementType": "package", "id": "p", "packagedElements": [
		{"elementType": "class", "id": "a", "ownedAttributes": [
			{"elementType": "property", "id": "a.x", "type": "b"},
			{"elementType": "property", "id": "a.y", "type": "string_id"}]},
		{"elementType": "class", "id": "b"}]}`)

	require.Equal(t, "lib/p", root.AsElement().ID)
	a := mustFind(t, d, "lib/a").(*elements.Class)
	require.Equal(t, "lib/b", a.OwnedAttributes[0].TypeID)
	require.Equal(t, "string_id", a.OwnedAttributes[1].TypeID)
}

func TestDecodeWithSorting(t *testing.T) {
	t.Parallel()

	dec, d, _ := newDecoderForTest(t, WithApplySorting(true))
	root := decodeString(t, dec, sampleModel).(*elements.Model)

	names := make([]string, 0, len(root.PackagedElements))
	for _, pe := range root.PackagedElements {
		names = append(names, elements.Name(pe))
	}
	require.Equal(t, []string{"sub", "", "Entity", "Line", "Order"}, names)

	status := mustFind(t, d, "status").(*elements.Enumeration)
	require.Equal(t, []string{"status.closed", "status.open"}, elements.IDs(status.OwnedLiterals))
}

func TestComparerOrdered(t *testing.T) {
	t.Parallel()

	c := NewComparer(language.Und)
	op := func(name string, order int) *elements.Operation {
		o := &elements.Operation{}
		o.Kind = elements.KindOperation
		o.Name = name
		o.Order = order
		return o
	}
	list := []*elements.Operation{op("zeta", 0), op("beta", 2), op("alpha", 2), op("first", 1)}
	slices.SortStableFunc(list, func(x, y *elements.Operation) int { return c.CompareOrdered(x, y) })

	got := make([]string, 0, len(list))
	for _, o := range list {
		got = append(got, o.Name)
	}
	require.Equal(t, []string{"first", "alpha", "beta", "zeta"}, got)
}
