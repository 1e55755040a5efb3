package tui

import (
	"github.com/singampalli/ideaminds/pkg/model"
)

// State tracks collected values and server-provided errors keyed by field
// label.
type State struct {
	values model.FormValues
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]string, errs map[string][]string) *State {
	values := make(model.FormValues, len(prefill))
	for label, value := range prefill {
		values[label] = value
	}
	errors := make(map[string][]string, len(errs))
	for label, messages := range errs {
		errors[label] = append([]string(nil), messages...)
	}
	return &State{values: values, errors: errors}
}

// Values returns a copy of the collected values.
func (s *State) Values() model.FormValues {
	if s == nil {
		return nil
	}
	out := make(model.FormValues, len(s.values))
	for label, value := range s.values {
		out[label] = value
	}
	return out
}

// Value returns the value recorded for label.
func (s *State) Value(label string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s.values[label]
	return value, ok
}

// SetValue records value for label and clears errors attached to it.
func (s *State) SetValue(label, value string) {
	if s == nil {
		return
	}
	s.values[label] = value
	delete(s.errors, label)
}

// ErrorsFor returns the errors attached to label.
func (s *State) ErrorsFor(label string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[label]
}
