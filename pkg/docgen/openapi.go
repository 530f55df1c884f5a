package docgen

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI builds a Document from the properties of the named component
// schema in an OpenAPI document.
func FromOpenAPI(ctx context.Context, data []byte, schema string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, errors.New("docgen: openapi payload is empty")
	}
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return Document{}, errors.New("docgen: openapi schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Document{}, fmt.Errorf("docgen: load openapi document: %w", err)
	}
	if spec.Components == nil || spec.Components.Schemas == nil {
		return Document{}, fmt.Errorf("docgen: openapi schema %q not found", schema)
	}
	ref, ok := spec.Components.Schemas[schema]
	if !ok || ref == nil || ref.Value == nil {
		return Document{}, fmt.Errorf("docgen: openapi schema %q not found", schema)
	}

	src := ref.Value
	doc := Document{
		DisplayName: schema,
		Description: src.Description,
		Props:       make(map[string]PropDescriptor, len(src.Properties)),
	}
	if src.Title != "" {
		doc.DisplayName = src.Title
	}

	for name, property := range src.Properties {
		prop := PropDescriptor{
			Name:     name,
			Type:     PropType{Name: TypeAny},
			Required: slices.Contains(src.Required, name),
		}
		if property != nil && property.Value != nil {
			prop.Type.Name = tagFromSchemaType(property.Value.Type)
			prop.Description = property.Value.Description
			if property.Value.Default != nil {
				prop.DefaultValue = &DefaultValue{Value: fmt.Sprintf("%v", property.Value.Default)}
			}
		}
		doc.Props[name] = prop
	}
	return doc, nil
}

func tagFromSchemaType(types *openapi3.Types) TypeTag {
	if types == nil {
		return TypeAny
	}
	values := types.Slice()
	if len(values) != 1 {
		return TypeAny
	}
	switch values[0] {
	case openapi3.TypeBoolean:
		return TypeBool
	case openapi3.TypeString:
		return TypeString
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return TypeNumber
	case openapi3.TypeArray:
		return TypeArray
	case openapi3.TypeObject:
		return TypeObject
	default:
		return TypeAny
	}
}
