package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/propedit"
	"github.com/goliatone/go-propedit/pkg/widget"
)

// OutputFormat selects how Serialize encodes edited values.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

type Option func(*Editor)

// WithPromptDriver swaps the terminal implementation.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithOutputFormat sets the Serialize encoding.
func WithOutputFormat(format OutputFormat) Option {
	return func(e *Editor) {
		if format != "" {
			e.outputFormat = format
		}
	}
}

// Editor prompts for every prop of a panel and routes each answer through the
// prop's widget, so terminal edits take the same dispatch path as the browser.
type Editor struct {
	panel        *propedit.Panel
	driver       PromptDriver
	outputFormat OutputFormat
}

// NewEditor constructs an editor with a survey driver and JSON output.
func NewEditor(panel *propedit.Panel, options ...Option) *Editor {
	e := &Editor{
		panel:        panel,
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e
}

// Run prompts once per prop in panel order.
func (e *Editor) Run(ctx context.Context) error {
	if e.panel == nil {
		return fmt.Errorf("tui: panel is nil")
	}
	bindings := e.panel.Bindings()
	if len(bindings) == 0 {
		return e.driver.Info(ctx, "No documented props to edit.")
	}
	if err := e.driver.Info(ctx, fmt.Sprintf("Editing %d props", len(bindings))); err != nil {
		return err
	}

	for _, binding := range bindings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.promptProp(ctx, binding); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) promptProp(ctx context.Context, binding *propedit.Binding) error {
	in, view, err := binding.Input()
	if err != nil {
		return err
	}

	message := displayLabel(view.Descriptor)
	help := view.Descriptor.Description

	// Accepting the shown default is not an edit.
	var event widget.Event
	switch view.Kind {
	case propedit.EditorCheckbox:
		current := widget.Checked(view.Value)
		checked, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current,
			Help:    help,
		})
		if err != nil {
			return fmt.Errorf("tui: prompt %q: %w", binding.Name(), err)
		}
		if checked == current {
			return nil
		}
		event = widget.CheckedEvent(checked)
	default:
		current := widget.DisplayValue(view.Value)
		text, err := e.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current,
			Help:    help,
		})
		if err != nil {
			return fmt.Errorf("tui: prompt %q: %w", binding.Name(), err)
		}
		if text == current {
			return nil
		}
		event = widget.TextEvent(text)
	}

	in.Change(event)
	return nil
}

// Serialize encodes values in the configured output format.
func (e *Editor) Serialize(values map[string]any) ([]byte, error) {
	switch e.outputFormat {
	case OutputFormatYAML:
		out, err := yaml.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode yaml: %w", err)
		}
		return out, nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func displayLabel(prop docgen.PropDescriptor) string {
	label := fmt.Sprintf("%s (%s)", prop.Name, prop.Type.Name)
	if prop.Required {
		label += " *"
	}
	return label
}
