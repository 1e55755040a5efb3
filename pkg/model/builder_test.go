package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/singampalli/ideaminds/pkg/model"
)

func TestBuilder_Build(t *testing.T) {
	tpl := model.Template{
		ID:      "tpl-1",
		Name:    "Caption",
		Content: "{attached_image} Describe for {audience|who reads it} in a {tone} voice. {tone}",
	}

	form := model.NewBuilder().Build(tpl)

	want := model.FormModel{
		TemplateID: "tpl-1",
		Name:       "Caption",
		Fields: []model.Field{
			{Name: "audience", Label: "Audience", Hint: "who reads it", Required: true},
			{Name: "tone", Label: "Tone", Required: true},
			{Name: "tone", Label: "Tone", Required: true},
		},
		Attachments: 1,
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
	if !form.RequiresImage() {
		t.Fatalf("expected image requirement")
	}
	if diff := cmp.Diff([]string{"Audience", "Tone"}, form.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.FormValues{"Audience": "", "Tone": ""}, model.InitialValues(form)); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_EmptyTemplate(t *testing.T) {
	form := model.NewBuilder().Build(model.Template{Name: "empty"})
	if form.Fields == nil || len(form.Fields) != 0 {
		t.Fatalf("expected empty non-nil field list, got %#v", form.Fields)
	}
	if form.RequiresImage() {
		t.Fatalf("did not expect image requirement")
	}
}

func TestBuilder_WithLabeler(t *testing.T) {
	form := model.NewBuilder(model.WithLabeler(strings.ToUpper)).Build(model.Template{Content: "{first_name}"})
	if form.Fields[0].Label != "FIRST_NAME" {
		t.Fatalf("expected custom label, got %q", form.Fields[0].Label)
	}
}

func TestHintPlaceholders(t *testing.T) {
	form := model.NewBuilder().Build(model.Template{Content: "{a|type here} {b}"})
	if err := model.HintPlaceholders().Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if got := form.Fields[0].Metadata["placeholder"]; got != "type here" {
		t.Fatalf("expected placeholder metadata, got %q", got)
	}
	if form.Fields[1].Metadata != nil {
		t.Fatalf("expected no metadata on hintless field, got %v", form.Fields[1].Metadata)
	}
}

func TestTemplateValidate(t *testing.T) {
	cases := []struct {
		name string
		tpl  model.Template
		ok   bool
	}{
		{name: "valid", tpl: model.Template{Name: "a", Content: "b"}, ok: true},
		{name: "missing name", tpl: model.Template{Name: "  ", Content: "b"}},
		{name: "missing content", tpl: model.Template{Name: "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tpl.Validate()
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, model.ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
		})
	}
}
