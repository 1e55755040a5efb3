package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/render"
)

// Name is the registry identifier of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer and render.Collector for terminal
// sessions. Each distinct field label is prompted once.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	confirmSubmit     bool
}

var (
	_ render.Renderer  = (*Renderer)(nil)
	_ render.Collector = (*Renderer)(nil)
)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{InfoPrefix: defaultInfoPrefix, ErrorPrefix: defaultInfoPrefix},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render collects values interactively and serializes them.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, values)
}

// Collect prompts for every distinct field label and returns the entered
// values. opts.Values seed prompt defaults and opts.Errors are shown before
// the matching prompt. Blank answers are rejected, so a successful result
// always passes render.ValidateRequired.
func (r *Renderer) Collect(ctx context.Context, form model.FormModel, opts render.RenderOptions) (model.FormValues, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	state := NewState(opts.Values, opts.Errors)
	for _, message := range opts.FormErrors {
		r.info(ctx, r.theme.ErrorPrefix, message)
	}
	if form.RequiresImage() {
		r.info(ctx, r.theme.InfoPrefix, "This template expects an attached image.")
	}

	for {
		if err := r.promptFields(ctx, form, state); err != nil {
			return nil, err
		}
		if !r.confirmSubmit {
			break
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit these values?", Default: true})
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return values, nil
}

func (r *Renderer) promptFields(ctx context.Context, form model.FormModel, state *State) error {
	seen := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		if _, ok := seen[field.Label]; ok {
			continue
		}
		seen[field.Label] = struct{}{}

		if err := r.promptField(ctx, field, state); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *State) error {
	for _, message := range state.ErrorsFor(field.Label) {
		r.info(ctx, r.theme.ErrorPrefix, message)
	}

	defaultVal, _ := state.Value(field.Label)
	validator := requiredValidator(field.Label)

	for {
		var (
			response string
			err      error
		)
		switch {
		case strings.EqualFold(field.Metadata[MetadataSecret], "true"):
			response, err = r.driver.Password(ctx, InputConfig{
				Message:   promptMessage(field),
				Help:      field.Hint,
				Validator: validator,
			})
		case field.Metadata[MetadataInput] == InputTextArea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message:   promptMessage(field),
				Default:   defaultVal,
				Help:      field.Hint,
				Validator: validator,
			})
		default:
			response, err = r.driver.Input(ctx, InputConfig{
				Message:   promptMessage(field),
				Default:   defaultVal,
				Help:      field.Hint,
				Validator: validator,
			})
		}
		if err != nil {
			return err
		}

		if err := validator(response); err != nil {
			r.info(ctx, r.theme.ErrorPrefix, fmt.Sprintf("Invalid %s: %v", field.Label, err))
			continue
		}

		state.SetValue(field.Label, response)
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, prefix, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if prefix != "" {
		message = prefix + " " + message
	}
	_ = r.driver.Info(ctx, message)
}

func (r *Renderer) serialize(form model.FormModel, values model.FormValues) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, label := range form.Labels() {
			encoded.Set(label, values[label])
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, label := range form.Labels() {
			fmt.Fprintf(&b, "%s: %s\n", label, values[label])
		}
		return []byte(b.String()), nil
	default:
		payload, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return payload, nil
	}
}

// promptMessage renders "Label (hint)" or just "Label".
func promptMessage(field model.Field) string {
	if hint := strings.TrimSpace(field.Hint); hint != "" {
		return fmt.Sprintf("%s (%s)", field.Label, hint)
	}
	return field.Label
}

func requiredValidator(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(render.RequiredMessage(label))
		}
		return nil
	}
}
