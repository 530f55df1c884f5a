package docgen

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes react-docgen output. Both JSON and YAML payloads are accepted.
func Parse(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, errors.New("docgen: document payload is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("docgen: decode document: %w", err)
	}
	if doc.Props == nil {
		doc.Props = make(map[string]PropDescriptor)
	}
	for name, prop := range doc.Props {
		prop.Name = name
		doc.Props[name] = prop
	}
	return doc, nil
}

// LoadFile reads and parses the document stored at path.
func LoadFile(path string) (Document, error) {
	if path == "" {
		return Document{}, errors.New("docgen: document path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("docgen: read document: %w", err)
	}
	return Parse(data)
}
