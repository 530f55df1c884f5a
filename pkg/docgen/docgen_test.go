package docgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const buttonDocgen = `{
  "displayName": "Button",
  "description": "A clickable button.",
  "props": {
    "label": { "type": { "name": "string" }, "required": true, "description": "Text shown." },
    "disabled": { "type": { "name": "bool" }, "defaultValue": { "value": "false", "computed": false } },
    "onClick": { "type": { "name": "func" } },
    "items": { "type": { "name": "array" } }
  }
}`

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(buttonDocgen))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Document{
		DisplayName: "Button",
		Description: "A clickable button.",
		Props: map[string]PropDescriptor{
			"label":    {Name: "label", Type: PropType{Name: TypeString}, Required: true, Description: "Text shown."},
			"disabled": {Name: "disabled", Type: PropType{Name: TypeBool}, DefaultValue: &DefaultValue{Value: "false"}},
			"onClick":  {Name: "onClick", Type: PropType{Name: TypeFunc}},
			"items":    {Name: "items", Type: PropType{Name: TypeArray}},
		},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(`
displayName: Toggle
props:
  on:
    type:
      name: bool
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Props["on"].Type.Name; got != TypeBool {
		t.Fatalf("type = %q, want bool", got)
	}
	if got := doc.Props["on"].Name; got != "on" {
		t.Fatalf("name = %q, want on", got)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse([]byte("  \n")); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "button.json")
	if err := os.WriteFile(path, []byte(buttonDocgen), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Props) != 4 {
		t.Fatalf("props = %d, want 4", len(doc.Props))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestStore_GetProp(t *testing.T) {
	doc, err := Parse([]byte(buttonDocgen))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	store := NewStore(doc)

	prop, err := store.GetProp("disabled")
	if err != nil {
		t.Fatalf("get prop: %v", err)
	}
	if prop.Type.Name != TypeBool {
		t.Fatalf("type = %q, want bool", prop.Type.Name)
	}

	_, err = store.GetProp("missing")
	if !errors.Is(err, ErrPropNotFound) {
		t.Fatalf("expected ErrPropNotFound, got %v", err)
	}
}

func TestStore_NamesAndReplace(t *testing.T) {
	store := NewStore(Document{Props: map[string]PropDescriptor{
		"b": {Type: PropType{Name: TypeString}},
		"a": {Type: PropType{Name: TypeBool}},
	}})

	if diff := cmp.Diff([]string{"a", "b"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if prop, _ := store.GetProp("a"); prop.Name != "a" {
		t.Fatalf("expected name normalised from key, got %q", prop.Name)
	}

	store.Replace(Document{Props: map[string]PropDescriptor{"c": {Type: PropType{Name: TypeFunc}}}})
	if diff := cmp.Diff([]string{"c"}, store.Names()); diff != "" {
		t.Fatalf("names after replace (-want +got):\n%s", diff)
	}
}

func TestStore_DocumentIsCopy(t *testing.T) {
	store := NewStore(Document{Props: map[string]PropDescriptor{
		"a": {Type: PropType{Name: TypeBool}, DefaultValue: &DefaultValue{Value: "true"}},
	}})

	doc := store.Document()
	doc.Props["a"].DefaultValue.Value = "false"
	delete(doc.Props, "a")

	prop, err := store.GetProp("a")
	if err != nil {
		t.Fatalf("get prop: %v", err)
	}
	if prop.DefaultValue.Value != "true" {
		t.Fatalf("store mutated through copy: %q", prop.DefaultValue.Value)
	}
}

func TestFromOpenAPI(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Widgets", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "ButtonProps": {
        "type": "object",
        "required": ["label"],
        "properties": {
          "label": { "type": "string", "description": "Text shown." },
          "disabled": { "type": "boolean", "default": false },
          "size": { "type": "integer" },
          "tags": { "type": "array", "items": { "type": "string" } },
          "style": { "type": "object" },
          "anything": {}
        }
      }
    }
  }
}`

	doc, err := FromOpenAPI(context.Background(), []byte(document), "ButtonProps")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	want := map[string]PropDescriptor{
		"label":    {Name: "label", Type: PropType{Name: TypeString}, Required: true, Description: "Text shown."},
		"disabled": {Name: "disabled", Type: PropType{Name: TypeBool}, DefaultValue: &DefaultValue{Value: "false"}},
		"size":     {Name: "size", Type: PropType{Name: TypeNumber}},
		"tags":     {Name: "tags", Type: PropType{Name: TypeArray}},
		"style":    {Name: "style", Type: PropType{Name: TypeObject}},
		"anything": {Name: "anything", Type: PropType{Name: TypeAny}},
	}
	if diff := cmp.Diff(want, doc.Props); diff != "" {
		t.Fatalf("props mismatch (-want +got):\n%s", diff)
	}
	if doc.DisplayName != "ButtonProps" {
		t.Fatalf("display name = %q", doc.DisplayName)
	}

	if _, err := FromOpenAPI(context.Background(), []byte(document), "Missing"); err == nil {
		t.Fatalf("expected error for unknown schema")
	}
}

func TestFromOpenAPI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromOpenAPI(ctx, []byte("{}"), "X"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
