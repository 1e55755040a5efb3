// Package persona composes persona-voiced prompts and keeps a chat
// transcript with the generation backend.
package persona

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPersona wraps persona validation failures.
var ErrInvalidPersona = errors.New("persona: invalid persona")

// Persona describes the voice a response is written in.
type Persona struct {
	ID                 string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name               string   `json:"name" yaml:"name"`
	Role               string   `json:"role,omitempty" yaml:"role,omitempty"`
	Tone               string   `json:"tone,omitempty" yaml:"tone,omitempty"`
	Context            string   `json:"context,omitempty" yaml:"context,omitempty"`
	DomainExpertise    []string `json:"domain_expertise,omitempty" yaml:"domain_expertise,omitempty"`
	CommunicationStyle string   `json:"communication_style,omitempty" yaml:"communication_style,omitempty"`
	Values             []string `json:"values,omitempty" yaml:"values,omitempty"`
	DecisionTriggers   []string `json:"decision_triggers,omitempty" yaml:"decision_triggers,omitempty"`
	Constraints        []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	ExamplePhrases     []string `json:"example_phrases,omitempty" yaml:"example_phrases,omitempty"`
}

// Validate requires a name.
func (p Persona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPersona)
	}
	return nil
}

// Find returns the persona with the given id.
func Find(personas []Persona, id string) (Persona, bool) {
	for _, p := range personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
