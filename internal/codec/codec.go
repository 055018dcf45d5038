// Package codec reads and writes flat node lists.
//
// Two encodings are supported: JSON, indented by four spaces, and YAML.
// Both encode a list of {id, children, parent} objects in ascending id
// order with a null parent for the root. Decoding is strict: unknown fields
// are rejected.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/treegen/internal/tree"
)

// Encoding names a file format for node lists.
type Encoding string

const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

// ValidEncodings lists the supported encodings.
var ValidEncodings = []Encoding{JSON, YAML}

// ParseEncoding parses an encoding name. The empty string is JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown encoding %q: must be one of %v", s, ValidEncodings)
	}
}

// EncodingFromPath infers the encoding from a file extension.
// Unknown extensions and "-" (stdout) default to JSON.
func EncodingFromPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Encode writes nodes to w.
func Encode(w io.Writer, enc Encoding, nodes []tree.Node) error {
	switch enc {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "    ")
		if err := encoder.Encode(nodes); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(nodes); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown encoding %q", enc)
	}
}

var errTrailingData = errors.New("unexpected data after the node list")

// Decode reads a node list from r. The input must hold exactly one
// document.
func Decode(r io.Reader, enc Encoding) ([]tree.Node, error) {
	var nodes []tree.Node
	switch enc {
	case JSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode json: %w", errTrailingData)
		}
	case YAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(&nodes); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode yaml: empty document")
			}
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		var extra yaml.Node
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", errTrailingData)
		}
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}

	// "children": null and a missing children key both mean no children.
	for i := range nodes {
		if nodes[i].Children == nil {
			nodes[i].Children = []string{}
		}
	}
	return nodes, nil
}

// ReadFile decodes the node list stored at path, inferring the encoding
// from its extension. The raw bytes are returned for schema checking.
func ReadFile(path string) ([]tree.Node, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	nodes, err := Decode(bytes.NewReader(data), EncodingFromPath(path))
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, data, nil
}

// WriteFile encodes nodes to path. The file is written to a temporary
// sibling first and renamed into place, so readers never see a partial
// tree.
func WriteFile(path string, enc Encoding, nodes []tree.Node) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if err := Encode(tmp, enc, nodes); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
