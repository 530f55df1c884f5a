package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-propedit/pkg/propedit"
	"github.com/goliatone/go-propedit/pkg/tui"
)

func newEditCommand() *cobra.Command {
	var (
		src    sourceOptions
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit props interactively and print the resulting values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat := tui.OutputFormat(format)
			if outputFormat != tui.OutputFormatJSON && outputFormat != tui.OutputFormatYAML {
				return fmt.Errorf("invalid --format %q, want json or yaml", format)
			}

			docs, err := src.loadDocs(cmd.Context())
			if err != nil {
				return err
			}
			models, err := src.loadModel()
			if err != nil {
				return err
			}

			editor := tui.NewEditor(
				propedit.NewPanel(docs, models),
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(outputFormat),
			)
			if err := editor.Run(cmd.Context()); err != nil {
				return err
			}

			data, err := editor.Serialize(models.Snapshot())
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Props written to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&src.docgenPath, "docgen", "", "docgen JSON or YAML file")
	cmd.Flags().StringVar(&src.openAPIPath, "openapi", "", "OpenAPI document to derive props from")
	cmd.Flags().StringVar(&src.openAPISchema, "openapi-schema", "", "component schema name inside the OpenAPI document")
	cmd.Flags().StringVar(&src.modelPath, "model", "", "initial prop values as JSON or YAML")
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
