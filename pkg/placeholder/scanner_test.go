package placeholder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
)

func TestScanRaw(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "no tokens", content: "plain text", want: nil},
		{name: "single", content: "Hello {name}", want: []string{"name"}},
		{name: "hint kept verbatim", content: "{team_name|optional|really}", want: []string{"team_name|optional|really"}},
		{name: "duplicates preserved", content: "{a}-{a}", want: []string{"a", "a"}},
		{name: "empty token", content: "x {} y", want: []string{""}},
		{name: "unmatched open brace", content: "a { b {c}", want: []string{" b {c"}},
		{name: "unmatched close brace", content: "a } b", want: nil},
		{name: "non greedy", content: "{a} and {b}", want: []string{"a", "b"}},
		{name: "nested open is literal", content: "{{a}}", want: []string{"{a"}},
		{name: "no newline inside token", content: "{a\n}{b}", want: []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placeholder.ScanRaw(tt.content)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("raw tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScan_TokenStructure(t *testing.T) {
	tokens := placeholder.Scan("Hi {user_name|first name only} see {Attached Image}")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}

	first := tokens[0]
	if first.Label != "user_name" || first.Hint != "first name only" || !first.HasHint {
		t.Fatalf("unexpected first token: %+v", first)
	}
	if first.Kind != model.TokenKindText || first.Excluded() {
		t.Fatalf("expected text token, got %q", first.Kind)
	}
	if first.Start != 3 || first.Literal() != "{user_name|first name only}" {
		t.Fatalf("unexpected offsets/literal: %d %q", first.Start, first.Literal())
	}

	second := tokens[1]
	if second.Kind != model.TokenKindImageAttachment || !second.Excluded() {
		t.Fatalf("expected image attachment token, got %+v", second)
	}
	if second.HasHint {
		t.Fatalf("expected no hint on %q", second.Raw)
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]model.TokenKind{
		"attached image":     model.TokenKindImageAttachment,
		"ATTACHED_IMAGE":     model.TokenKindImageAttachment,
		"  Attached Image  ": model.TokenKindImageAttachment,
		"attached-image":     model.TokenKindText,
		"image":              model.TokenKindText,
		"":                   model.TokenKindText,
	}
	for label, want := range cases {
		if got := placeholder.KindOf(label); got != want {
			t.Errorf("KindOf(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestCountAttachments(t *testing.T) {
	content := "{attached_image} and {attached image|upload} then {caption}"
	if got := placeholder.CountAttachments(content); got != 2 {
		t.Fatalf("expected 2 attachments, got %d", got)
	}
}
