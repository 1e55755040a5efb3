package openapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/singampalli/ideaminds/pkg/model"
)

// ErrNoGenerateOperation is returned when a document lacks the generate
// operation produced by Export.
var ErrNoGenerateOperation = errors.New("openapi: document has no generate operation")

// Import rebuilds the FormModel described by a document produced by Export.
// Field order follows the schema's required list.
func Import(doc *openapi3.T) (model.FormModel, error) {
	if doc == nil || doc.Paths == nil {
		return model.FormModel{}, ErrNoGenerateOperation
	}
	item := doc.Paths.Value(GeneratePath)
	if item == nil {
		return model.FormModel{}, ErrNoGenerateOperation
	}
	op := item.GetOperation(http.MethodPost)
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return model.FormModel{}, ErrNoGenerateOperation
	}

	schema, err := requestBodySchema(op.RequestBody.Value)
	if err != nil {
		return model.FormModel{}, err
	}

	form := model.FormModel{Fields: []model.Field{}}
	if doc.Info != nil {
		form.Name = doc.Info.Title
	}
	form.TemplateID = stringExtension(doc.Extensions, ExtensionTemplateID)
	form.Attachments = intExtension(schema.Extensions, ExtensionAttachments)

	for _, key := range schema.Required {
		if key == ImageProperty && form.Attachments > 0 {
			continue
		}
		ref := schema.Properties[key]
		if ref == nil || ref.Value == nil {
			return model.FormModel{}, fmt.Errorf("openapi: required property %q has no schema", key)
		}
		property := ref.Value
		label := property.Title
		if label == "" {
			label = key
		}
		name := stringExtension(property.Extensions, ExtensionName)
		if name == "" {
			name = key
		}
		form.Fields = append(form.Fields, model.Field{
			Name:     name,
			Label:    label,
			Hint:     property.Description,
			Required: true,
		})
	}
	return form, nil
}

func requestBodySchema(body *openapi3.RequestBody) (*openapi3.Schema, error) {
	for _, mediaType := range []string{"application/json", "multipart/form-data"} {
		media := body.GetMediaType(mediaType)
		if media == nil || media.Schema == nil || media.Schema.Value == nil {
			continue
		}
		return media.Schema.Value, nil
	}
	return nil, errors.New("openapi: request body has no json or multipart schema")
}

func stringExtension(extensions map[string]any, key string) string {
	value, _ := extensions[key].(string)
	return value
}

// Extensions decoded from JSON arrive as float64 or json.Number.
func intExtension(extensions map[string]any, key string) int {
	switch v := extensions[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case interface{ Int64() (int64, error) }:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}
