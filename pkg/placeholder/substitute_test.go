package placeholder_test

import (
	"testing"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  model.FormValues
		want    string
	}{
		{
			name:    "round trip with hint",
			content: "Hello {name}, you work in {team_name|optional}",
			values:  model.FormValues{"Name": "Ann", "Team Name": "Core"},
			want:    "Hello Ann, you work in Core",
		},
		{
			name:    "image token untouched",
			content: "{attached_image} caption: {caption}",
			values:  model.FormValues{"Caption": "sunset"},
			want:    "{attached_image} caption: sunset",
		},
		{
			name:    "image token ignored even when a value is keyed for it",
			content: "{attached image} {caption}",
			values:  model.FormValues{"Attached Image": "nope", "Caption": "ok"},
			want:    "{attached image} ok",
		},
		{
			name:    "only first occurrence of a repeated token",
			content: "{a}-{a}",
			values:  model.FormValues{"A": "x"},
			want:    "x-{a}",
		},
		{
			name:    "missing value keeps token",
			content: "Dear {name}, {greeting}",
			values:  model.FormValues{"Name": "Bo"},
			want:    "Dear Bo, {greeting}",
		},
		{
			name:    "empty value keeps token",
			content: "Dear {name}",
			values:  model.FormValues{"Name": ""},
			want:    "Dear {name}",
		},
		{
			name:    "case insensitive match on raw label",
			content: "{User_Name} / {EMAIL|work}",
			values:  model.FormValues{"User Name": "ann", "EMAIL": "a@b.c"},
			want:    "ann / a@b.c",
		},
		{
			name:    "whitespace runs collapse in keys",
			content: "{first_name}",
			values:  model.FormValues{"First \t  Name": "Ann"},
			want:    "Ann",
		},
		{
			name:    "spaced raw label never matches",
			content: "{user name}",
			values:  model.FormValues{"User name": "Ann"},
			want:    "{user name}",
		},
		{
			name:    "same label different hints are distinct tokens",
			content: "{name|short} and {name|long}",
			values:  model.FormValues{"Name": "Ann"},
			want:    "Ann and Ann",
		},
		{
			name:    "empty token substituted by empty label",
			content: "a{}b",
			values:  model.FormValues{"": "-"},
			want:    "a-b",
		},
		{
			name:    "empty template",
			content: "",
			values:  model.FormValues{"A": "x"},
			want:    "",
		},
		{
			name:    "no values",
			content: "{a}",
			values:  nil,
			want:    "{a}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := placeholder.Substitute(tt.content, tt.values); got != tt.want {
				t.Fatalf("Substitute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubstitute_IdentityWithoutTokens(t *testing.T) {
	for _, content := range []string{"", "plain", "braces } only {", "line\nbreaks"} {
		got := placeholder.Substitute(content, model.FormValues{"Plain": "x"})
		if got != content {
			t.Errorf("Substitute(%q) = %q, want identity", content, got)
		}
	}
}

func TestSubstitute_DerivedRoundTrip(t *testing.T) {
	content := "Write a {tone|e.g. friendly} post about {topic} for {audience_type}."
	values := placeholder.DeriveValues(content)
	values["Tone"] = "witty"
	values["Topic"] = "Go"
	values["Audience Type"] = "gophers"

	want := "Write a witty post about Go for gophers."
	if got := placeholder.Substitute(content, values); got != want {
		t.Fatalf("Substitute() = %q, want %q", got, want)
	}
}

func TestSubstituteAll(t *testing.T) {
	got := placeholder.SubstituteAll("{a}-{a} {attached_image}", model.FormValues{"A": "x"})
	if want := "x-x {attached_image}"; got != want {
		t.Fatalf("SubstituteAll() = %q, want %q", got, want)
	}
}

func TestSubstitutionKey(t *testing.T) {
	cases := map[string]string{
		"User Name":      "user_name",
		"  Lead":         "_lead",
		"A \t\n B":       "a_b",
		"already_normal": "already_normal",
		"":               "",
	}
	for label, want := range cases {
		if got := placeholder.SubstitutionKey(label); got != want {
			t.Errorf("SubstitutionKey(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestMatchKey(t *testing.T) {
	cases := map[string]string{
		"Team_Name|Optional": "team_name",
		"a|b|c":              "a",
		" Spaced ":           " spaced ",
		"":                   "",
	}
	for raw, want := range cases {
		if got := placeholder.MatchKey(raw); got != want {
			t.Errorf("MatchKey(%q) = %q, want %q", raw, got, want)
		}
	}
}
