package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-propedit/pkg/server"
	"github.com/goliatone/go-propedit/pkg/widget"
)

func newServeCommand() *cobra.Command {
	var (
		src       sourceOptions
		themeID   string
		cssVars   []string
		logLevel  string
		templates string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve assets, the docgen API and the editing panel",
		Long: `Serve the prop editing panel over HTTP.

The port comes from PORT (default 8080). Assets are read from
PROPEDIT_PUBLIC_DIR followed by PROPEDIT_SEARCH_PATHS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}

			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			switch {
			case src.openAPIPath != "":
				cfg.DocgenPath = ""
			case src.docgenPath != "":
				cfg.DocgenPath = src.docgenPath
			default:
				src.docgenPath = cfg.DocgenPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			docs, err := src.loadDocs(ctx)
			if err != nil {
				return err
			}
			models, err := src.loadModel()
			if err != nil {
				return err
			}

			options := []server.Option{server.WithLogger(logger)}
			if templates != "" {
				renderer, err := widgetRenderer(templates)
				if err != nil {
					return err
				}
				options = append(options, server.WithWidgetRenderer(renderer))
			}
			if themeID != "" || len(cssVars) > 0 {
				vars, err := parseCSSVars(cssVars)
				if err != nil {
					return err
				}
				options = append(options, server.WithTheme(&theme.RendererConfig{Theme: themeID, CSSVars: vars}))
			}

			srv, err := server.New(cfg, docs, models, options...)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&src.docgenPath, "docgen", "", "docgen JSON or YAML file (defaults to PROPEDIT_DOCGEN)")
	cmd.Flags().StringVar(&src.openAPIPath, "openapi", "", "OpenAPI document to derive props from")
	cmd.Flags().StringVar(&src.openAPISchema, "openapi-schema", "", "component schema name inside the OpenAPI document")
	cmd.Flags().StringVar(&src.modelPath, "model", "", "initial prop values as JSON or YAML")
	cmd.Flags().StringVar(&themeID, "theme", "", "theme name exposed as data-theme on the panel")
	cmd.Flags().StringArrayVar(&cssVars, "css-var", nil, "CSS variable for the panel as name=value (repeatable)")
	cmd.Flags().StringVar(&templates, "widget-templates", "", "directory holding templates/input.tmpl to override the widget markup")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	return cmd
}

// widgetRenderer loads widget templates from dir, failing early when the input
// template is missing.
func widgetRenderer(dir string) (*widget.Renderer, error) {
	if _, err := os.Stat(filepath.Join(dir, "templates", "input.tmpl")); err != nil {
		return nil, fmt.Errorf("invalid --widget-templates %q: %w", dir, err)
	}
	return widget.NewRenderer(widget.WithTemplatesDir(dir))
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func parseCSSVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --css-var %q, want name=value", pair)
		}
		vars[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return vars, nil
}
