package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
)

const (
	// GeneratePath is the operation path every exported form is published on.
	GeneratePath = "/templates/{id}/generate"
	// ImageProperty names the binary part carrying the attached image.
	ImageProperty = "image"

	// ExtensionName keeps the raw token label on each property.
	ExtensionName = "x-ideaminds-name"
	// ExtensionAttachments records how many image placeholders the form has.
	ExtensionAttachments = "x-ideaminds-attachments"
	// ExtensionTemplateID records the source template identifier.
	ExtensionTemplateID = "x-ideaminds-template-id"

	defaultVersion = "1.0.0"
	nonBlank       = `\S`
)

// ExportOption customises the exported document.
type ExportOption func(*exportConfig)

type exportConfig struct {
	title   string
	version string
}

// WithTitle overrides the document title (the form name by default).
func WithTitle(title string) ExportOption {
	return func(cfg *exportConfig) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			cfg.title = trimmed
		}
	}
}

// WithVersion overrides the document version.
func WithVersion(version string) ExportOption {
	return func(cfg *exportConfig) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			cfg.version = trimmed
		}
	}
}

// Export converts form into an OpenAPI document with a single
// POST /templates/{id}/generate operation. The request body has one required
// string property per distinct label, keyed by placeholder.SubstitutionKey.
// Forms that expect an image are exported as multipart/form-data with an
// extra binary "image" part.
func Export(form model.FormModel, options ...ExportOption) (*openapi3.T, error) {
	cfg := exportConfig{title: strings.TrimSpace(form.Name), version: defaultVersion}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.title == "" {
		cfg.title = "Prompt template"
	}

	schema := RequestSchema(form)
	var content openapi3.Content
	if form.RequiresImage() {
		multipart := openapi3.NewObjectSchema().
			WithProperties(copyProperties(schema.Properties)).
			WithProperty(ImageProperty, openapi3.NewStringSchema().WithFormat("binary"))
		multipart.Required = append(append([]string(nil), schema.Required...), ImageProperty)
		multipart.Extensions = schema.Extensions
		content = openapi3.NewContentWithFormDataSchema(multipart)
	} else {
		content = openapi3.NewContentWithJSONSchema(schema)
	}

	op := openapi3.NewOperation()
	op.OperationID = "generate"
	op.Summary = "Generate output from " + cfg.title
	op.AddParameter(openapi3.NewPathParameter("id").WithSchema(openapi3.NewStringSchema()))
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(content),
	}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Generated output").
		WithJSONSchema(openapi3.NewObjectSchema().
			WithProperty("prompt", openapi3.NewStringSchema()).
			WithProperty("output", openapi3.NewStringSchema())))
	op.AddResponse(http.StatusBadRequest, openapi3.NewResponse().WithDescription("Missing field values"))

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: cfg.title, Version: cfg.version},
		Paths:   openapi3.NewPaths(),
	}
	if form.TemplateID != "" {
		doc.Extensions = map[string]any{ExtensionTemplateID: form.TemplateID}
	}
	doc.AddOperation(GeneratePath, http.MethodPost, op)

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi: exported document invalid: %w", err)
	}
	return doc, nil
}

// RequestSchema builds the object schema describing the values form expects.
// Labels that normalise to the same key keep the first occurrence.
func RequestSchema(form model.FormModel) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Required = []string{}
	schema.Extensions = map[string]any{ExtensionAttachments: form.Attachments}

	seen := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		key := placeholder.SubstitutionKey(field.Label)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		property := openapi3.NewStringSchema().WithMinLength(1).WithPattern(nonBlank)
		property.Title = field.Label
		property.Description = field.Hint
		property.Extensions = map[string]any{ExtensionName: field.Name}

		schema.WithProperty(key, property)
		schema.Required = append(schema.Required, key)
	}
	return schema
}

// Load parses and validates an OpenAPI document from raw JSON or YAML.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

func copyProperties(in openapi3.Schemas) map[string]*openapi3.Schema {
	out := make(map[string]*openapi3.Schema, len(in))
	for key, ref := range in {
		if ref != nil && ref.Value != nil {
			out[key] = ref.Value
		}
	}
	return out
}
