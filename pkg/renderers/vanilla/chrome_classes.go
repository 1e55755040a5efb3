package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm       ChromeClass = "ideaminds-form"
	ClassHeader     ChromeClass = "ideaminds-header"
	ClassField      ChromeClass = "ideaminds-field"
	ClassHint       ChromeClass = "ideaminds-hint"
	ClassAttachment ChromeClass = "ideaminds-attachment"
	ClassActions    ChromeClass = "ideaminds-actions"
	ClassErrors     ChromeClass = "ideaminds-errors"
)

// ChromeClasses overrides the classes applied to the form chrome. Empty
// entries fall back to the Class* defaults.
type ChromeClasses struct {
	Form       string
	Header     string
	Field      string
	Hint       string
	Attachment string
	Actions    string
	Errors     string
}

func (c ChromeClasses) resolve() map[string]string {
	pick := func(value string, fallback ChromeClass) string {
		if cleaned := sanitizeClassList(value); cleaned != "" {
			return cleaned
		}
		return string(fallback)
	}
	return map[string]string{
		"form":       pick(c.Form, ClassForm),
		"header":     pick(c.Header, ClassHeader),
		"field":      pick(c.Field, ClassField),
		"hint":       pick(c.Hint, ClassHint),
		"attachment": pick(c.Attachment, ClassAttachment),
		"actions":    pick(c.Actions, ClassActions),
		"errors":     pick(c.Errors, ClassErrors),
	}
}
