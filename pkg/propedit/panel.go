package propedit

import (
	"fmt"
	"io"

	"github.com/goliatone/go-propedit/pkg/widget"
)

// PropLister enumerates documented props in display order.
type PropLister interface {
	DocumentationStore
	Names() []string
}

// Panel binds every documented prop of a component.
type Panel struct {
	docs   PropLister
	models ModelStore
}

// NewPanel constructs a panel over the two stores.
func NewPanel(docs PropLister, models ModelStore) *Panel {
	return &Panel{docs: docs, models: models}
}

// Bindings returns one binding per documented prop.
func (p *Panel) Bindings() []*Binding {
	names := p.docs.Names()
	out := make([]*Binding, 0, len(names))
	for _, name := range names {
		out = append(out, New(name, p.docs, p.models))
	}
	return out
}

// Binding returns the binding for name, failing when the prop is not
// documented.
func (p *Panel) Binding(name string) (*Binding, error) {
	if _, err := p.docs.GetProp(name); err != nil {
		return nil, fmt.Errorf("propedit: panel binding: %w", err)
	}
	return New(name, p.docs, p.models), nil
}

// Views resolves every row.
func (p *Panel) Views() ([]View, error) {
	bindings := p.Bindings()
	views := make([]View, 0, len(bindings))
	for _, binding := range bindings {
		view, err := binding.Resolve()
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Render writes every row in order.
func (p *Panel) Render(w io.Writer, renderer *widget.Renderer) error {
	for _, binding := range p.Bindings() {
		if err := binding.Render(w, renderer); err != nil {
			return err
		}
	}
	return nil
}
