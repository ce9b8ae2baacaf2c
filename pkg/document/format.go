// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/umlgraph/pkg/cueutil"
)

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"
)

// ErrUnknownFormat is returned for a file extension or format name that has
// no adapter.
var ErrUnknownFormat = errors.New("unknown document format")

// Format names an input encoding of a document.
type Format string

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatCUE}
}

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatCUE:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ToJSON converts a document in format f to JSON, the encoding read by the
// graph codec. filename is used in error messages.
func ToJSON(data []byte, f Format, filename string) ([]byte, error) {
	switch f {
	case FormatJSON:
		return data, nil
	case FormatCUE:
		return cueutil.ExportJSON(data, cueutil.WithFilename(filename))
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return marshalNormalized(v, filename)
	case FormatTOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return marshalNormalized(v, filename)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Parse decodes the envelope of a document in format f.
func Parse(data []byte, f Format, filename string) (*Document, error) {
	raw, err := ToJSON(data, f, filename)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	doc.checksum = Checksum(data)
	return &doc, nil
}

func marshalNormalized(v any, filename string) ([]byte, error) {
	out, err := json.Marshal(normalize(v))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return out, nil
}

// normalize turns the generic maps produced by YAML decoding into
// string-keyed maps that encoding/json accepts.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range x {
			x[i] = normalize(val)
		}
		return x
	}
	return v
}
