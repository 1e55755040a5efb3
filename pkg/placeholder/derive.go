package placeholder

import (
	internalmodel "github.com/singampalli/ideaminds/internal/model"
)

// Derive converts every text token in content into a field definition using
// the default labeler. Image placeholders are skipped without affecting the
// order of the fields that follow them.
func Derive(content string) []internalmodel.Field {
	return DeriveWith(content, internalmodel.DefaultOptions())
}

// DeriveWith derives fields using the supplied options.
func DeriveWith(content string, opts internalmodel.Options) []internalmodel.Field {
	opts = opts.Merge()

	tokens := Scan(content)
	if len(tokens) == 0 {
		return nil
	}

	fields := make([]internalmodel.Field, 0, len(tokens))
	for _, token := range tokens {
		if token.Excluded() {
			continue
		}
		fields = append(fields, FieldFromToken(token, opts.Labeler))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// FieldFromToken builds the field definition for a single token.
func FieldFromToken(token Token, labeler func(string) string) internalmodel.Field {
	if labeler == nil {
		labeler = internalmodel.DefaultLabeler
	}
	return internalmodel.Field{
		Name:     token.Label,
		Label:    labeler(token.Label),
		Hint:     token.Hint,
		Required: true,
	}
}

// InitialValues returns an empty value for every distinct field label.
func InitialValues(fields []internalmodel.Field) internalmodel.FormValues {
	values := make(internalmodel.FormValues, len(fields))
	for _, field := range fields {
		values[field.Label] = ""
	}
	return values
}

// DeriveValues is shorthand for InitialValues(Derive(content)).
func DeriveValues(content string) internalmodel.FormValues {
	return InitialValues(Derive(content))
}

// FormatLabel exposes the default label formatting.
func FormatLabel(raw string) string {
	return internalmodel.DefaultLabeler(raw)
}
