package render

import (
	"net/url"
	"sort"
	"strings"

	"github.com/singampalli/ideaminds/pkg/model"
)

// HiddenField represents a hidden form input emitted alongside the visible
// fields.
type HiddenField struct {
	Name  string
	Value string
}

// TemplateIDField is the hidden input carrying the template identifier.
const TemplateIDField = "_template_id"

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, dup := clean[key]; !dup {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// DecodeSubmission maps a posted HTML form back onto FormValues. Inputs are
// named after field labels; unknown inputs are ignored and missing ones map
// to an empty string so presence validation can report them.
func DecodeSubmission(form model.FormModel, posted url.Values) model.FormValues {
	values := model.InitialValues(form)
	for label := range values {
		values[label] = posted.Get(label)
	}
	return values
}
