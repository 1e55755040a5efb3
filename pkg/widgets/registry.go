// Package widgets picks the input control used for each placeholder field.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/singampalli/ideaminds/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetTextArea = "textarea"
	WidgetSecret   = "secret"
)

// Metadata keys written by Decorate and read by the renderers.
const (
	MetadataWidget = "widget"
	MetadataInput  = "input"
	MetadataSecret = "cli.secret"
)

// LongHintLength is the hint length from which a field is treated as free
// text.
const LongHintLength = 80

var (
	textAreaWords = []string{"description", "details", "body", "content", "notes", "story", "summary", "context", "paragraph"}
	secretWords   = []string{"password", "secret", "token", "api key", "apikey"}
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit "widget" metadata
// entry is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Metadata[MetadataWidget]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator. The resolved widget is recorded under
// Metadata["widget"], and the renderer-facing keys ("input" for text areas,
// "cli.secret" for secrets) are filled in unless already set.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	for i := range form.Fields {
		form.Fields[i] = r.decorateField(form.Fields[i])
	}
	return nil
}

func (r *Registry) decorateField(field model.Field) model.Field {
	widget, ok := r.Resolve(field)
	if !ok || widget == "" {
		return field
	}
	if field.Metadata == nil {
		field.Metadata = make(map[string]string)
	}
	setDefault(field.Metadata, MetadataWidget, widget)
	switch widget {
	case WidgetTextArea:
		setDefault(field.Metadata, MetadataInput, WidgetTextArea)
	case WidgetSecret:
		setDefault(field.Metadata, MetadataSecret, "true")
	}
	return field
}

func setDefault(metadata map[string]string, key, value string) {
	if metadata[key] == "" {
		metadata[key] = value
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSecret, 90, func(field model.Field) bool {
		return labelContains(field, secretWords)
	})

	r.Register(WidgetTextArea, 80, func(field model.Field) bool {
		return labelContains(field, textAreaWords)
	})

	r.Register(WidgetTextArea, 70, func(field model.Field) bool {
		return len([]rune(field.Hint)) >= LongHintLength || strings.Contains(field.Hint, "\n")
	})

	r.Register(WidgetText, 0, func(model.Field) bool { return true })
}

func labelContains(field model.Field, words []string) bool {
	label := strings.ToLower(field.Label)
	for _, word := range words {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}
