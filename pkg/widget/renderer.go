package widget

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	rendertemplate "github.com/goliatone/go-propedit/pkg/render/template"
	"github.com/goliatone/go-propedit/pkg/render/template/pongo"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const inputTemplate = "templates/input.tmpl"

// TemplatesFS exposes the embedded widget templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/input.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a preconfigured template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer writes Input markup.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// NewRenderer constructs a renderer backed by the embedded templates unless
// options say otherwise.
func NewRenderer(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		if cfg.templateFS == nil {
			cfg.templateFS = TemplatesFS()
		}
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithExtension(".tmpl"))
		if err != nil {
			return nil, fmt.Errorf("widget: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer}, nil
}

// Render writes the label and native control for in.
func (r *Renderer) Render(w io.Writer, in *Input) error {
	if r == nil || r.templates == nil {
		return errors.New("widget: template renderer is nil")
	}
	if in == nil {
		return errors.New("widget: input is nil")
	}

	_, err := r.templates.RenderTemplate(inputTemplate, templateData(in.props), w)
	if err != nil {
		return fmt.Errorf("widget: render %q: %w", in.props.Name, err)
	}
	return nil
}

func templateData(props Props) map[string]any {
	data := map[string]any{
		"name":      props.Name,
		"className": props.ClassName,
		"type":      string(props.Type),
		"style":     props.Style,
	}
	if props.Type == KindCheckbox {
		data["checked"] = Checked(props.Value)
	} else {
		data["value"] = DisplayValue(props.Value)
	}
	return data
}
