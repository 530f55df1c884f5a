package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/model"
)

type sourceOptions struct {
	docgenPath    string
	openAPIPath   string
	openAPISchema string
	modelPath     string
}

func (o sourceOptions) loadDocs(ctx context.Context) (*docgen.Store, error) {
	switch {
	case o.openAPIPath != "":
		if o.openAPISchema == "" {
			return nil, errors.New("--openapi-schema is required with --openapi")
		}
		data, err := os.ReadFile(o.openAPIPath)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		doc, err := docgen.FromOpenAPI(ctx, data, o.openAPISchema)
		if err != nil {
			return nil, err
		}
		return docgen.NewStore(doc), nil
	case o.docgenPath != "":
		doc, err := docgen.LoadFile(o.docgenPath)
		if err != nil {
			return nil, err
		}
		return docgen.NewStore(doc), nil
	default:
		return nil, errors.New("one of --docgen or --openapi is required")
	}
}

func (o sourceOptions) loadModel() (*model.Store, error) {
	if o.modelPath == "" {
		return model.NewStore(nil), nil
	}
	data, err := os.ReadFile(o.modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var initial map[string]any
	if err := yaml.Unmarshal(data, &initial); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", o.modelPath, err)
	}
	return model.NewStore(initial), nil
}
