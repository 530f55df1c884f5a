package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-propedit/pkg/docgen"
)

// ButtonDocument returns the docgen fixture shared by the panel tests. It
// covers a text prop, a boolean prop and a structured prop.
func ButtonDocument() docgen.Document {
	return docgen.Document{
		DisplayName: "Button",
		Description: `A <b>button</b><script>alert(1)</script>`,
		Props: map[string]docgen.PropDescriptor{
			"label":    {Type: docgen.PropType{Name: docgen.TypeString}, Description: "Text shown."},
			"disabled": {Type: docgen.PropType{Name: docgen.TypeBool}},
			"items":    {Type: docgen.PropType{Name: docgen.TypeArray}},
		},
	}
}

// ButtonModel returns initial values matching ButtonDocument.
func ButtonModel() map[string]any {
	return map[string]any{"label": "Go", "items": []any{"a", "b"}}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// MustLoadDocgen reads a docgen fixture from disk.
func MustLoadDocgen(t testing.TB, path string) docgen.Document {
	t.Helper()
	doc, err := docgen.LoadFile(path)
	if err != nil {
		t.Fatalf("load docgen: %v", err)
	}
	return doc
}

// MustDecodeJSON decodes a response body into out.
func MustDecodeJSON(t testing.TB, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decode json: %v\n%s", err, data)
	}
}
