// Package adapter contains codec and filesystem adapters for the gridpatch CLI.
package adapter

import (
	"bytes"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// Codec parses and serializes config documents. Implementations must be
// lossless: key order and comments survive a parse/serialize round trip so
// the domain logic never has to care about formatting.
type Codec interface {
	// Parse decodes document bytes into a Document.
	Parse(data []byte) (m.Document, error)

	// Serialize encodes a Document back to bytes.
	Serialize(doc m.Document) ([]byte, error)

	// Extension is the canonical file extension for the format (with dot).
	Extension() string
}

// YAMLCodec implements Codec on top of the yaml.v3 node API, which keeps
// comments, key order and scalar styles intact.
type YAMLCodec struct{}

// NewYAMLCodec constructs a YAMLCodec ready to be wired into the workflow.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Parse decodes YAML bytes into a Document.
func (c *YAMLCodec) Parse(data []byte) (m.Document, error) {
	var root yaml.Node

	if err := yaml.Unmarshal(data, &root); err != nil {
		return m.Document{}, fmt.Errorf("invalid yaml: %w", err)
	}

	doc, err := m.FromRoot(&root)
	if err != nil {
		return m.Document{}, err
	}

	return doc, nil
}

// Serialize encodes a Document as YAML with two-space indentation.
func (c *YAMLCodec) Serialize(doc m.Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc.Root()); err != nil {
		slog.Error("failed to encode document", "error", err)
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// Extension returns ".yaml".
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}
