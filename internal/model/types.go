package model

// TokenKind classifies a placeholder token by how its value is supplied.
type TokenKind string

const (
	// TokenKindText marks a placeholder filled through a text field.
	TokenKindText TokenKind = "text"
	// TokenKindImageAttachment marks the "attached image" placeholder. Its
	// value travels out-of-band as an uploaded image, so it never becomes a
	// form field and is never substituted.
	TokenKindImageAttachment TokenKind = "image_attachment"
)

// Template is a user-authored prompt body carrying zero or more placeholder
// tokens. Only Content is read by the placeholder engine.
type Template struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// Field models a single input derived from a placeholder token. Label doubles
// as the key used in FormValues; Name preserves the raw label text found in
// the template.
type Field struct {
	Name     string            `json:"name"`
	Label    string            `json:"label"`
	Hint     string            `json:"hint,omitempty"`
	Required bool              `json:"required"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FormModel is the schema renderers and collectors consume. Fields follow the
// first-occurrence order of their tokens; Attachments counts image
// placeholders that expect an uploaded file instead of a text value.
type FormModel struct {
	TemplateID  string            `json:"templateId,omitempty"`
	Name        string            `json:"name,omitempty"`
	Fields      []Field           `json:"fields"`
	Attachments int               `json:"attachments,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FormValues maps a field label to the value entered by the user.
type FormValues map[string]string

// Labels returns the distinct field labels in field order. Duplicate tokens
// derive duplicate fields but share a single FormValues entry.
func (f FormModel) Labels() []string {
	if len(f.Fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(f.Fields))
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		if _, ok := seen[field.Label]; ok {
			continue
		}
		seen[field.Label] = struct{}{}
		out = append(out, field.Label)
	}
	return out
}

// RequiresImage reports whether the template declared an image placeholder.
func (f FormModel) RequiresImage() bool {
	return f.Attachments > 0
}
