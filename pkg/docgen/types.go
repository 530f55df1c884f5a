package docgen

// TypeTag is the declared type name of a prop as reported by the
// documentation generator.
type TypeTag string

// Type tags emitted by react-docgen style generators.
const (
	TypeString  TypeTag = "string"
	TypeBool    TypeTag = "bool"
	TypeNumber  TypeTag = "number"
	TypeArray   TypeTag = "array"
	TypeObject  TypeTag = "object"
	TypeFunc    TypeTag = "func"
	TypeNode    TypeTag = "node"
	TypeElement TypeTag = "element"
	TypeEnum    TypeTag = "enum"
	TypeUnion   TypeTag = "union"
	TypeShape   TypeTag = "shape"
	TypeAny     TypeTag = "any"
)

// PropType describes the declared type of a prop. Value carries generator
// specific detail (enum members, union variants) and is never interpreted here.
type PropType struct {
	Name  TypeTag `json:"name" yaml:"name"`
	Value any     `json:"value,omitempty" yaml:"value,omitempty"`
}

// DefaultValue is the documented default expression of a prop.
type DefaultValue struct {
	Value    string `json:"value" yaml:"value"`
	Computed bool   `json:"computed" yaml:"computed"`
}

// PropDescriptor is the documentation for a single prop. Names are unique
// within a Document.
type PropDescriptor struct {
	Name         string        `json:"name" yaml:"name"`
	Type         PropType      `json:"type" yaml:"type"`
	Required     bool          `json:"required" yaml:"required"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	DefaultValue *DefaultValue `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Document is the generator output for one component.
type Document struct {
	DisplayName string                    `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Props       map[string]PropDescriptor `json:"props" yaml:"props"`
}

// Clone returns a copy of the document whose props map can be mutated freely.
func (d Document) Clone() Document {
	out := Document{
		DisplayName: d.DisplayName,
		Description: d.Description,
		Props:       make(map[string]PropDescriptor, len(d.Props)),
	}
	for name, prop := range d.Props {
		if prop.DefaultValue != nil {
			value := *prop.DefaultValue
			prop.DefaultValue = &value
		}
		out.Props[name] = prop
	}
	return out
}
