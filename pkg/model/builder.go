package model

import (
	internalmodel "github.com/singampalli/ideaminds/internal/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
)

// Builder converts templates into form models.
type Builder interface {
	Build(tpl Template) FormModel
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// NewBuilder returns a Builder using the placeholder engine.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	opts := internalmodel.DefaultOptions()
	if cfg.labeler != nil {
		opts.Labeler = cfg.labeler
	}
	return &builder{opts: opts}
}

type builder struct {
	opts internalmodel.Options
}

// Build derives the form model for tpl. Templates without placeholders yield
// a model with no fields.
func (b *builder) Build(tpl Template) FormModel {
	form := FormModel{
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		Fields:      placeholder.DeriveWith(tpl.Content, b.opts),
		Attachments: placeholder.CountAttachments(tpl.Content),
	}
	if form.Fields == nil {
		form.Fields = []Field{}
	}
	return form
}

// InitialValues returns an empty value for every distinct label in form.
func InitialValues(form FormModel) FormValues {
	return placeholder.InitialValues(form.Fields)
}
