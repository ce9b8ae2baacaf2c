// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Id identifies a catalog entry.
type Id int

// Catalog entries.
const (
	DocumentNotFoundId Id = iota + 1
	DocumentParseErrorId
	UnknownModelTypeId
	UnknownFormatId
	DanglingReferencesId
	DependencyCycleId
	InvalidDependencyKindId
	InvalidElementTypeId
	ConfigLoadFailedId
)

// MarkdownMsg is the markdown body of an issue.
type MarkdownMsg string

// HttpLink is a URL shown with an issue.
type HttpLink string

// Issue is a catalog entry explaining a known failure and how to fix it.
type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

// Id returns the catalog id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns links into the umlgraph documentation.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns links to external references.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Title returns the first markdown heading without its "#" marker.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}

// Render renders the issue as terminal markdown. stylePath is a glamour
// style name or path; an empty one selects the automatic style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	if stylePath == "" {
		stylePath = "auto"
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# Model document not found!

The document, or a document it references, could not be read.

## Things you can try:
- Check the path passed on the command line
- References with ` + "`location: local`" + ` are resolved relative to the referencing document
- References with ` + "`location: npm`" + ` are never read from disk and must be loaded by the caller`,
	}

	documentParseErrorIssue = &Issue{
		id: DocumentParseErrorId,
		mdMsg: `
# Failed to parse model document!

The document could not be decoded into an element graph.

## Common issues:
- Invalid JSON, YAML, TOML or CUE syntax
- An element without an ` + "`elementType`" + `
- An element stored under a key that cannot hold its kind, such as an operation in ` + "`ownedAttributes`" + `

## Things you can try:
- Validate the document and print its diagnostics:
~~~
$ umlgraph validate model.json
~~~

- Run with verbose mode for the full error chain:
~~~
$ umlgraph --verbose validate model.json
~~~`,
		extLinks: []HttpLink{"https://yaml.org/spec/1.2.2/", "https://toml.io/en/v1.0.0", "https://cuelang.org/docs/"},
	}

	unknownModelTypeIssue = &Issue{
		id: UnknownModelTypeId,
		mdMsg: `
# Unknown model type!

Only documents whose ` + "`modelTypeName`" + ` is "Yellicode YML" can be read.

## Example document envelope:
~~~json
{
  "id": "shop",
  "modelTypeName": "Yellicode YML",
  "modelTypeVersion": "0.1.0",
  "model": {"elementType": "model", "id": "model", "name": "Shop"}
}
~~~`,
	}

	unknownFormatIssue = &Issue{
		id: UnknownFormatId,
		mdMsg: `
# Unknown document format!

The format could not be derived from the file extension.

## Supported formats:
- ` + "`.json`" + `
- ` + "`.yaml`" + ` or ` + "`.yml`" + `
- ` + "`.toml`" + `
- ` + "`.cue`" + `

## Things you can try:
- Rename the file, or pass the format explicitly:
~~~
$ umlgraph convert --from yaml model.txt
~~~`,
	}

	danglingReferencesIssue = &Issue{
		id: DanglingReferencesId,
		mdMsg: `
# Unresolvable references!

Some references point at ids that no loaded document defines. They were left
empty and the graph was still built.

## Things you can try:
- List every dangling reference:
~~~
$ umlgraph validate model.json
~~~

- Check that referenced documents are listed under ` + "`references`" + `
- Elements of a referenced document are addressed as ` + "`<documentId>/<elementId>`",
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Types in the same package depend on each other, so no order puts every
dependency first.

## Example of a cycle:
~~~json
[
  {"elementType": "class", "id": "a", "ownedAttributes": [{"elementType": "property", "id": "a.b", "type": "b"}]},
  {"elementType": "class", "id": "b", "ownedAttributes": [{"elementType": "property", "id": "b.a", "type": "a"}]}
]
~~~

## Things you can try:
- Keep document order for the elements involved (the default):
~~~
$ umlgraph sort --cycle-policy keep-order model.json
~~~

- Restrict the relationships that count as dependencies:
~~~
$ umlgraph sort --kinds generalizations model.json
~~~

- Inspect the dependency graph:
~~~
$ umlgraph deps model.json | dot -Tsvg > deps.svg
~~~`,
		extLinks: []HttpLink{"https://graphviz.org/doc/info/lang.html"},
	}

	invalidDependencyKindIssue = &Issue{
		id: InvalidDependencyKindId,
		mdMsg: `
# Invalid dependency kind!

## Valid kinds:
- none
- all
- generalizations
- interfaceRealizations
- attributes
- operationParameters

Kinds can be combined with "|" or by repeating the flag.`,
	}

	invalidElementTypeIssue = &Issue{
		id: InvalidElementTypeId,
		mdMsg: `
# Invalid element type!

Element type transforms convert between classifier kinds only.

## Valid kinds:
- class
- dataType
- enumeration
- interface
- primitiveType
- stereotype`,
		extLinks: []HttpLink{"https://www.omg.org/spec/UML/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ umlgraph config show
~~~

- Write a fresh configuration with the defaults:
~~~
$ umlgraph config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		documentNotFoundIssue.Id():      documentNotFoundIssue,
		documentParseErrorIssue.Id():    documentParseErrorIssue,
		unknownModelTypeIssue.Id():      unknownModelTypeIssue,
		unknownFormatIssue.Id():         unknownFormatIssue,
		danglingReferencesIssue.Id():    danglingReferencesIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		invalidDependencyKindIssue.Id(): invalidDependencyKindIssue,
		invalidElementTypeIssue.Id():    invalidElementTypeIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
