package testsuite_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	"github.com/singampalli/ideaminds/pkg/kv"
	"github.com/singampalli/ideaminds/pkg/testsuite"
)

var ignoreID = cmpopts.IgnoreFields(testsuite.TestCase{}, "ID")

func TestParseMarkdown(t *testing.T) {
	md := strings.Join([]string{
		"Intro text is ignored",
		"Priority: High",
		"# Login",
		"- Valid credentials",
		"  Expected Result: Dashboard shown: with greeting",
		"  Priority: P0",
		"  Sample Data: user=ann",
		"  Preconditions: account exists",
		"  Locators: #login-button",
		"  Platforms: Android, iOS ,Web",
		"* Empty password",
		"### Accessibility",
		"- Screen reader labels",
		"  Priority",
		"#### not a heading",
	}, "\r\n")

	got := testsuite.ParseMarkdown(md)
	want := []testsuite.TestCase{
		{
			Category:      "Login",
			Title:         "Valid credentials",
			Expected:      "Dashboard shown",
			Priority:      "P0",
			SampleData:    "user=ann",
			Preconditions: "account exists",
			Locators:      []testsuite.Locator{{Element: "Valid credentials", Locator: "#login-button"}},
			Platforms:     []string{"Android", "iOS", "Web"},
		},
		{
			Category:  "Login",
			Title:     "Empty password",
			Priority:  "Medium",
			Locators:  []testsuite.Locator{{Element: "Empty password"}},
			Platforms: []string{"Android"},
		},
		{
			Category:  "Accessibility",
			Title:     "Screen reader labels",
			Priority:  "Medium",
			Locators:  []testsuite.Locator{{Element: "Screen reader labels"}},
			Platforms: []string{"Android"},
		},
	}
	if diff := cmp.Diff(want, got, ignoreID); diff != "" {
		t.Fatalf("cases mismatch (-want +got):\n%s", diff)
	}
	for _, tc := range got {
		if tc.ID == "" {
			t.Fatalf("expected generated id for %q", tc.Title)
		}
	}
}

func TestParseMarkdown_Empty(t *testing.T) {
	got := testsuite.ParseMarkdown("")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseLLMJSON(t *testing.T) {
	raw := "```json\n" + `[
  {
    "id": "TC-1",
    "category": "Checkout",
    "title": "Pay with card",
    "expectedResult": "Receipt shown",
    "priority": "P1",
    "sampleData": {"card": "4242", "cvv": "123"},
    "platforms": ["iOS"],
    "preconditions": "cart has items",
    "locators": {"id": "pay-btn", "accessibilityLabel": "Pay"},
    "deviceMatrix": ["iPhone 15"]
  },
  {
    "category": "Checkout",
    "title": "Empty cart",
    "sampleData": "none",
    "locators": "cart-empty"
  }
]` + "\n```"

	got, err := testsuite.ParseLLMJSON(raw)
	if err != nil {
		t.Fatalf("ParseLLMJSON: %v", err)
	}
	want := []testsuite.TestCase{
		{
			ID:            "TC-1",
			Category:      "Checkout",
			Title:         "Pay with card",
			Expected:      "Receipt shown",
			Priority:      "P1",
			SampleData:    `{"card":"4242","cvv":"123"}`,
			Preconditions: "cart has items",
			Locators: []testsuite.Locator{
				{Element: "id", Locator: "pay-btn"},
				{Element: "accessibilityLabel", Locator: "Pay"},
			},
			Platforms:    []string{"iOS"},
			DeviceMatrix: []string{"iPhone 15"},
		},
		{
			Category:   "Checkout",
			Title:      "Empty cart",
			Priority:   "Medium",
			SampleData: "none",
			Locators:   []testsuite.Locator{{Element: "Empty cart", Locator: "cart-empty"}},
			Platforms:  []string{"Android"},
		},
	}
	if diff := cmp.Diff(want, got, ignoreID); diff != "" {
		t.Fatalf("cases mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got[1].ID, "checkout-") {
		t.Fatalf("expected category-prefixed id, got %q", got[1].ID)
	}
}

func TestParseLLMJSON_WrappedString(t *testing.T) {
	inner := `[{"title":"A","category":"X"}]`
	encoded, _ := json.Marshal(inner)

	got, err := testsuite.ParseLLMJSON(string(encoded))
	if err != nil {
		t.Fatalf("ParseLLMJSON: %v", err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("unexpected cases: %+v", got)
	}
}

func TestParseLLMJSON_Failures(t *testing.T) {
	got, err := testsuite.ParseLLMJSON(`{"title":"not an array"}`)
	if !errors.Is(err, testsuite.ErrNotArray) {
		t.Fatalf("expected ErrNotArray, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}

	got, err = testsuite.ParseLLMJSON("the model refused")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func seeded() *testsuite.Suite {
	return testsuite.NewSuite(
		testsuite.TestCase{ID: "1", Category: "Layout", Title: "Header aligns", Expected: "Logo left", Priority: "P2 - Medium"},
		testsuite.TestCase{ID: "2", Category: "Security & Privacy", Title: "Token expiry", Expected: "Session ends", Priority: "P0 - Critical", SampleData: "ttl=15m"},
		testsuite.TestCase{ID: "3", Category: "Layout", Title: "Footer", Expected: "Links shown", Priority: "P0 - Critical"},
	)
}

func TestSuite_AddPrependsWithDefaults(t *testing.T) {
	suite := seeded()

	added, err := suite.Add(testsuite.TestCase{Title: "Login button"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.HasPrefix(added.ID, "functionality-") {
		t.Fatalf("unexpected id %q", added.ID)
	}
	if added.Priority != "P2 - Medium" || added.Category != "Functionality" {
		t.Fatalf("defaults not applied: %+v", added)
	}
	if diff := cmp.Diff([]string{"Android"}, added.Platforms); diff != "" {
		t.Fatalf("platforms mismatch (-want +got):\n%s", diff)
	}
	if first := suite.Cases()[0]; first.ID != added.ID {
		t.Fatalf("expected new case first, got %q", first.ID)
	}

	if _, err := suite.Add(testsuite.TestCase{Title: "  "}); !errors.Is(err, testsuite.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if suite.Len() != 4 {
		t.Fatalf("expected 4 cases, got %d", suite.Len())
	}
}

func TestSuite_UpdateDelete(t *testing.T) {
	suite := seeded()

	tc, err := suite.Get("2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	tc.Priority = "P1 - High"
	if err := suite.Update(tc); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := suite.Get("2"); got.Priority != "P1 - High" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := suite.Update(testsuite.TestCase{ID: "missing", Title: "x"}); !errors.Is(err, testsuite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := suite.Delete("1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := suite.Delete("1"); !errors.Is(err, testsuite.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if suite.Len() != 2 {
		t.Fatalf("expected 2 cases, got %d", suite.Len())
	}
}

func TestSuite_Filter(t *testing.T) {
	suite := seeded()
	ids := func(cases []testsuite.TestCase) []string {
		out := make([]string, 0, len(cases))
		for _, tc := range cases {
			out = append(out, tc.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter testsuite.Filter
		want   []string
	}{
		{name: "all", filter: testsuite.Filter{Category: "All", Priority: "All"}, want: []string{"1", "2", "3"}},
		{name: "category", filter: testsuite.Filter{Category: "Layout"}, want: []string{"1", "3"}},
		{name: "priority", filter: testsuite.Filter{Priority: "P0 - Critical"}, want: []string{"2", "3"}},
		{name: "both", filter: testsuite.Filter{Category: "Layout", Priority: "P0 - Critical"}, want: []string{"3"}},
		{name: "search title", filter: testsuite.Filter{Search: "HEADER"}, want: []string{"1"}},
		{name: "search expected", filter: testsuite.Filter{Search: "links"}, want: []string{"3"}},
		{name: "search sample data", filter: testsuite.Filter{Search: "ttl="}, want: []string{"2"}},
		{name: "no match", filter: testsuite.Filter{Search: "nothing"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(suite.Filter(tt.filter))); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuite_CategoriesAndPriorities(t *testing.T) {
	suite := seeded()
	if diff := cmp.Diff([]string{"All", "Layout", "Security & Privacy"}, suite.Categories()); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"All", "P2 - Medium", "P0 - Critical"}, suite.Priorities()); diff != "" {
		t.Fatalf("priorities mismatch (-want +got):\n%s", diff)
	}
}

func TestSuite_ExportImport(t *testing.T) {
	suite := seeded()

	data, err := suite.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"1\"") {
		t.Fatalf("expected two-space indent, got:\n%s", data)
	}

	restored := testsuite.NewSuite()
	if err := restored.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if diff := cmp.Diff(suite.Cases(), restored.Cases()); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}

	if err := restored.Import([]byte("{")); err == nil {
		t.Fatal("expected import error")
	}

	out, err := suite.ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	var decoded []testsuite.TestCase
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if len(decoded) != 3 || decoded[1].SampleData != "ttl=15m" {
		t.Fatalf("unexpected yaml export: %s", out)
	}
}

func TestSuite_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	empty, err := testsuite.Load(ctx, store)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("expected empty suite, got %d", empty.Len())
	}

	if err := seeded().Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := testsuite.Load(ctx, store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(seeded().Cases(), loaded.Cases()); diff != "" {
		t.Fatalf("loaded mismatch (-want +got):\n%s", diff)
	}
}

func TestSuite_CasesAreCopies(t *testing.T) {
	suite := testsuite.NewSuite(testsuite.TestCase{ID: "1", Title: "A", Platforms: []string{"Web"}})
	cases := suite.Cases()
	cases[0].Platforms[0] = "mutated"

	if got, _ := suite.Get("1"); got.Platforms[0] != "Web" {
		t.Fatalf("suite state leaked through Cases(): %+v", got)
	}
}
