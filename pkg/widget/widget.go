package widget

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Kind is the native input type the widget renders.
type Kind string

const (
	KindText     Kind = "text"
	KindCheckbox Kind = "checkbox"
)

// Event is the raw change payload reported by the native control. Exactly one
// field is normally set; a nil field means the control did not report it.
type Event struct {
	Value   *string `json:"value,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

// TextEvent builds the payload a text field reports.
func TextEvent(value string) Event {
	return Event{Value: &value}
}

// CheckedEvent builds the payload a checkbox reports.
func CheckedEvent(checked bool) Event {
	return Event{Checked: &checked}
}

// ErrMissingProp is returned by New when a mandatory prop is absent.
var ErrMissingProp = errors.New("widget: missing required prop")

// Props configure an Input. Name, OnChange and Type are mandatory.
type Props struct {
	Style     map[string]string
	ClassName string
	Name      string
	Value     any
	OnChange  func(Event)
	Type      Kind
}

// Input is a controlled form control: it holds no state of its own and
// forwards every change to its caller.
type Input struct {
	props Props
}

// New validates props and fills the optional ones with their defaults.
func New(props Props) (*Input, error) {
	var missing []string
	if strings.TrimSpace(props.Name) == "" {
		missing = append(missing, "name")
	}
	if props.OnChange == nil {
		missing = append(missing, "onChange")
	}
	if strings.TrimSpace(string(props.Type)) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingProp, strings.Join(missing, ", "))
	}

	resolved := Props{
		Style:     map[string]string{},
		ClassName: props.ClassName,
		Name:      props.Name,
		Value:     props.Value,
		OnChange:  props.OnChange,
		Type:      props.Type,
	}
	if len(props.Style) > 0 {
		resolved.Style = maps.Clone(props.Style)
	}
	return &Input{props: resolved}, nil
}

// Props returns a copy of the resolved props.
func (in *Input) Props() Props {
	out := in.props
	out.Style = maps.Clone(in.props.Style)
	return out
}

// Change forwards event to OnChange unchanged.
func (in *Input) Change(event Event) {
	in.props.OnChange(event)
}
