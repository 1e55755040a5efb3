package openapi

import (
	"errors"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
	"github.com/singampalli/ideaminds/pkg/render"
)

// ValidateValues checks values against the request schema exported for form.
// Failures are reported as a *render.ValidationError keyed by field label, in
// field order. Empty values count as missing.
func ValidateValues(form model.FormModel, values model.FormValues) error {
	schema := RequestSchema(form)

	labels := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		key := placeholder.SubstitutionKey(field.Label)
		if _, ok := labels[key]; !ok {
			labels[key] = field.Label
		}
	}

	payload := make(map[string]any, len(values))
	for label, value := range values {
		key := placeholder.SubstitutionKey(label)
		if _, known := labels[key]; !known || value == "" {
			continue
		}
		payload[key] = value
	}

	err := schema.VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return toValidationError(form, labels, err)
}

func toValidationError(form model.FormModel, labels map[string]string, err error) error {
	var schemaErrors []*openapi3.SchemaError
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			var schemaErr *openapi3.SchemaError
			if errors.As(item, &schemaErr) {
				schemaErrors = append(schemaErrors, schemaErr)
			}
		}
	} else {
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErrors = append(schemaErrors, schemaErr)
		}
	}
	if len(schemaErrors) == 0 {
		return err
	}

	fields := make(map[string][]string)
	for _, schemaErr := range schemaErrors {
		pointer := schemaErr.JSONPointer()
		if len(pointer) == 0 {
			continue
		}
		label, ok := labels[pointer[0]]
		if !ok {
			continue
		}
		message := schemaErr.Reason
		switch schemaErr.SchemaField {
		case "required", "minLength", "pattern":
			message = render.RequiredMessage(label)
		}
		fields[label] = render.MergeFormErrors(fields[label], message)
	}
	if len(fields) == 0 {
		return err
	}

	verr := &render.ValidationError{Fields: fields}
	for _, label := range form.Labels() {
		if _, ok := fields[label]; ok && !slices.Contains(verr.Labels, label) {
			verr.Labels = append(verr.Labels, label)
		}
	}
	return verr
}
