package model

// Decorator enriches a form model after it has been derived from a template.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// HintPlaceholders copies each field hint into Metadata["placeholder"] so
// HTML renderers can show it inside the empty input.
func HintPlaceholders() Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for i := range form.Fields {
			field := &form.Fields[i]
			if field.Hint == "" {
				continue
			}
			if field.Metadata == nil {
				field.Metadata = make(map[string]string, 1)
			}
			field.Metadata["placeholder"] = field.Hint
		}
		return nil
	})
}
