package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTemplate wraps every template boundary validation failure.
	ErrInvalidTemplate = errors.New("model: invalid template")

	errTemplateNameMissing    = fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	errTemplateContentMissing = fmt.Errorf("%w: content is required", ErrInvalidTemplate)
)

// Validate checks the presence of the fields a template must carry when it
// enters the system from an external store.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errTemplateNameMissing
	}
	if strings.TrimSpace(t.Content) == "" {
		return errTemplateContentMissing
	}
	return nil
}
