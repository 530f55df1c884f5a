package propedit

import (
	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/widget"
)

// EditorKind is the control family used to edit a prop.
type EditorKind = widget.Kind

const (
	EditorText     = widget.KindText
	EditorCheckbox = widget.KindCheckbox
)

// ChangeEvent is the raw payload a widget reports on edit.
type ChangeEvent = widget.Event

// ResolveEditorKind maps a type tag to the editor used for it. Only bool props
// get a checkbox; every other tag, including ones this package does not know,
// is edited as text.
func ResolveEditorKind(tag docgen.TypeTag) EditorKind {
	switch tag {
	case docgen.TypeBool:
		return EditorCheckbox
	case docgen.TypeString,
		docgen.TypeNumber,
		docgen.TypeArray,
		docgen.TypeObject,
		docgen.TypeFunc,
		docgen.TypeNode,
		docgen.TypeElement,
		docgen.TypeEnum,
		docgen.TypeUnion,
		docgen.TypeShape,
		docgen.TypeAny:
		return EditorText
	default:
		return EditorText
	}
}

// ExtractValue reads the edited value out of event. Checkboxes yield the
// checked flag, everything else the raw text. Nothing is coerced: array,
// object and func props come back as the string the user typed. A missing
// field yields nil.
func ExtractValue(kind EditorKind, event ChangeEvent) any {
	switch kind {
	case EditorCheckbox:
		if event.Checked == nil {
			return nil
		}
		return *event.Checked
	default:
		if event.Value == nil {
			return nil
		}
		return *event.Value
	}
}
