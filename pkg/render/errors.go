package render

import (
	"fmt"
	"strings"

	"github.com/singampalli/ideaminds/pkg/model"
)

// ValidationError reports form fields that failed presence checks. Labels
// keeps the failing labels in field order so messages render predictably.
type ValidationError struct {
	Fields map[string][]string
	Labels []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Labels) == 0 {
		return "render: validation failed"
	}
	messages := make([]string, 0, len(e.Labels))
	for _, label := range e.Labels {
		messages = append(messages, e.Fields[label]...)
	}
	return "render: validation failed: " + strings.Join(messages, "; ")
}

// RequiredMessage is the message reported for an empty field.
func RequiredMessage(label string) string {
	return fmt.Sprintf("%s is required", label)
}

// ValidateRequired checks that every field in form has a non-blank value.
// It returns nil when all fields are filled, otherwise a *ValidationError.
func ValidateRequired(form model.FormModel, values model.FormValues) error {
	var verr *ValidationError
	for _, label := range form.Labels() {
		if strings.TrimSpace(values[label]) != "" {
			continue
		}
		if verr == nil {
			verr = &ValidationError{Fields: make(map[string][]string)}
		}
		verr.Labels = append(verr.Labels, label)
		verr.Fields[label] = []string{RequiredMessage(label)}
	}
	if verr == nil {
		return nil
	}
	return verr
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
