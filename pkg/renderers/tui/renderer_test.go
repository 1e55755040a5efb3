package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/render"
)

type stubDriver struct {
	inputs       []string
	textAreas    []string
	passwords    []string
	confirm      []bool
	messages     []string
	infoMessages []string
	inputPos     int
	textPos      int
	passPos      int
	confirmPos   int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.messages = append(s.messages, cfg.Message)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	s.messages = append(s.messages, cfg.Message)
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	s.messages = append(s.messages, cfg.Message)
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func buildForm(t *testing.T, content string) model.FormModel {
	t.Helper()
	return model.NewBuilder().Build(model.Template{ID: "tpl-1", Name: "Greeting", Content: content})
}

func TestCollect_PromptsOncePerLabel(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ann", "Core"}}
	renderer := New(WithPromptDriver(driver))
	form := buildForm(t, "Hi {name}, {team_name|optional}. Bye {name}")

	values, err := renderer.Collect(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := model.FormValues{"Name": "Ann", "Team Name": "Core"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Name", "Team Name (optional)"}, driver.messages); diff != "" {
		t.Fatalf("prompt messages mismatch (-want +got):\n%s", diff)
	}
	if err := render.ValidateRequired(form, values); err != nil {
		t.Fatalf("collected values should validate: %v", err)
	}
}

func TestCollect_RepromptsBlankAnswers(t *testing.T) {
	driver := &stubDriver{inputs: []string{"   ", "Ann"}}
	renderer := New(WithPromptDriver(driver))

	values, err := renderer.Collect(context.Background(), buildForm(t, "{name}"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["Name"] != "Ann" {
		t.Fatalf("expected Ann, got %q", values["Name"])
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "Name is required") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
}

func TestCollect_AnnouncesImageAndErrors(t *testing.T) {
	driver := &stubDriver{inputs: []string{"sunset"}}
	renderer := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "x", InfoPrefix: "i"}))
	form := buildForm(t, "{attached_image} caption: {caption}")

	_, err := renderer.Collect(context.Background(), form, render.RenderOptions{
		Errors:     map[string][]string{"Caption": {"Caption is required"}},
		FormErrors: []string{"Upstream failed"},
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := []string{
		"x Upstream failed",
		"i This template expects an attached image.",
		"x Caption is required",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_MetadataSelectsPrompt(t *testing.T) {
	driver := &stubDriver{textAreas: []string{"long text"}, passwords: []string{"s3cret"}}
	renderer := New(WithPromptDriver(driver))
	form := model.FormModel{Fields: []model.Field{
		{Label: "Body", Metadata: map[string]string{MetadataInput: InputTextArea}},
		{Label: "Token", Metadata: map[string]string{MetadataSecret: "true"}},
	}}

	values, err := renderer.Collect(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["Body"] != "long text" || values["Token"] != "s3cret" {
		t.Fatalf("unexpected values %+v", values)
	}
}

func TestCollect_ConfirmSubmitRestarts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"first", "second"}, confirm: []bool{false, true}}
	renderer := New(WithPromptDriver(driver), WithConfirmSubmit(true))

	values, err := renderer.Collect(context.Background(), buildForm(t, "{topic}"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["Topic"] != "second" {
		t.Fatalf("expected second answer to win, got %q", values["Topic"])
	}
}

func TestCollect_Abort(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	renderer := New(WithPromptDriver(driver))

	_, err := renderer.Collect(context.Background(), buildForm(t, "{name}"), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithPromptDriver(&stubDriver{})).Collect(ctx, buildForm(t, "{name}"), render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCollect_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{inputs: []string{"  padded  "}}
	renderer := New(WithPromptDriver(driver), WithSubmitTransformer(func(v model.FormValues) (model.FormValues, error) {
		for label, value := range v {
			v[label] = strings.TrimSpace(value)
		}
		return v, nil
	}))

	values, err := renderer.Collect(context.Background(), buildForm(t, "{name}"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values["Name"] != "padded" {
		t.Fatalf("expected trimmed value, got %q", values["Name"])
	}
}

func TestRender_OutputFormats(t *testing.T) {
	tests := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{OutputFormatJSON, "application/json", `{"Name":"Ann","Team Name":"Core"}`},
		{OutputFormatFormURLEncoded, "application/x-www-form-urlencoded", "Name=Ann&Team+Name=Core"},
		{OutputFormatPrettyText, "text/plain", "Name: Ann\nTeam Name: Core\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			driver := &stubDriver{inputs: []string{"Ann", "Core"}}
			renderer := New(WithPromptDriver(driver), WithOutputFormat(tt.format))
			if renderer.ContentType() != tt.contentType {
				t.Fatalf("content type = %q, want %q", renderer.ContentType(), tt.contentType)
			}

			out, err := renderer.Render(context.Background(), buildForm(t, "{name} {team_name}"), render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if string(out) != tt.want {
				t.Fatalf("output = %q, want %q", out, tt.want)
			}
		})
	}
}
