package propedit

import (
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/model"
	"github.com/goliatone/go-propedit/pkg/widget"
)

// DocumentationStore is the read-only source of prop metadata.
type DocumentationStore interface {
	GetProp(name string) (docgen.PropDescriptor, error)
}

// ModelStore holds the live prop values. Dispatch is the only write path.
type ModelStore interface {
	GetValue(name string, tag docgen.TypeTag) any
	model.Dispatcher
}

// View is the resolved state of one prop row.
type View struct {
	Descriptor docgen.PropDescriptor
	Kind       EditorKind
	Value      any
	Props      widget.Props
}

// Binding connects one prop to its editor widget. It keeps no state between
// calls: every Resolve and Change reads both stores afresh.
type Binding struct {
	name   string
	docs   DocumentationStore
	models ModelStore
}

// New binds the prop called name.
func New(name string, docs DocumentationStore, models ModelStore) *Binding {
	return &Binding{name: name, docs: docs, models: models}
}

// Name returns the bound prop name.
func (b *Binding) Name() string {
	return b.name
}

// Resolve looks up the prop, reads its value and builds the widget props.
// Lookup failures are returned unchanged in the error chain.
func (b *Binding) Resolve() (View, error) {
	if err := b.validate(); err != nil {
		return View{}, err
	}
	descriptor, err := b.docs.GetProp(b.name)
	if err != nil {
		return View{}, fmt.Errorf("propedit: resolve %q: %w", b.name, err)
	}

	tag := descriptor.Type.Name
	value := b.models.GetValue(b.name, tag)
	kind := ResolveEditorKind(tag)

	return View{
		Descriptor: descriptor,
		Kind:       kind,
		Value:      value,
		Props: widget.Props{
			Name:  b.name,
			Value: value,
			Type:  kind,
			OnChange: func(event widget.Event) {
				b.dispatch(tag, kind, event)
			},
		},
	}, nil
}

// Change extracts the edited value from event and dispatches exactly one
// update carrying the prop's type tag.
func (b *Binding) Change(event ChangeEvent) error {
	if err := b.validate(); err != nil {
		return err
	}
	descriptor, err := b.docs.GetProp(b.name)
	if err != nil {
		return fmt.Errorf("propedit: change %q: %w", b.name, err)
	}

	tag := descriptor.Type.Name
	b.dispatch(tag, ResolveEditorKind(tag), event)
	return nil
}

func (b *Binding) dispatch(tag docgen.TypeTag, kind EditorKind, event ChangeEvent) {
	b.models.Dispatch(model.UpdateProp(b.name, tag, ExtractValue(kind, event)))
}

// Input resolves the binding into a ready widget.
func (b *Binding) Input() (*widget.Input, View, error) {
	view, err := b.Resolve()
	if err != nil {
		return nil, View{}, err
	}
	in, err := widget.New(view.Props)
	if err != nil {
		return nil, View{}, fmt.Errorf("propedit: build widget %q: %w", b.name, err)
	}
	return in, view, nil
}

// Render resolves the binding and writes the widget markup.
func (b *Binding) Render(w io.Writer, renderer *widget.Renderer) error {
	in, _, err := b.Input()
	if err != nil {
		return err
	}
	return renderer.Render(w, in)
}

func (b *Binding) validate() error {
	if b == nil {
		return errors.New("propedit: binding is nil")
	}
	if b.docs == nil || b.models == nil {
		return fmt.Errorf("propedit: binding %q requires documentation and model stores", b.name)
	}
	return nil
}
