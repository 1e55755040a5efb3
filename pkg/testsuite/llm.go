package testsuite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// llmCase is the loose shape generation backends emit. Field names follow
// the generator prompt; sampleData and locators arrive as strings, objects or
// arrays depending on the model.
type llmCase struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	Title          string          `json:"title"`
	Expected       string          `json:"expected"`
	ExpectedResult string          `json:"expectedResult"`
	Priority       string          `json:"priority"`
	SampleData     json.RawMessage `json:"sampleData"`
	Preconditions  string          `json:"preconditions"`
	Locators       json.RawMessage `json:"locators"`
	Platforms      []string        `json:"platforms"`
	DeviceMatrix   []string        `json:"deviceMatrix"`
}

type locatorObject struct {
	ID                 string `json:"id"`
	AccessibilityLabel string `json:"accessibilityLabel"`
	XPath              string `json:"xpath"`
}

// ParseLLMJSON decodes a JSON array of test cases from generated output.
// Markdown code fences are stripped and a JSON-encoded string wrapping the
// array is unwrapped first. On failure it returns an empty slice and the
// error.
func ParseLLMJSON(raw string) ([]TestCase, error) {
	cleaned := clean(raw)

	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return []TestCase{}, fmt.Errorf("testsuite: parse generated cases: %w", err)
	}
	if _, ok := probe.([]any); !ok {
		return []TestCase{}, ErrNotArray
	}

	var cases []llmCase
	if err := json.Unmarshal([]byte(cleaned), &cases); err != nil {
		return []TestCase{}, fmt.Errorf("testsuite: decode generated cases: %w", err)
	}

	out := make([]TestCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, c.normalize())
	}
	return out, nil
}

func clean(raw string) string {
	cleaned := stripFences(raw)
	if strings.HasPrefix(cleaned, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(cleaned), &inner); err == nil {
			return stripFences(inner)
		}
		cleaned = strings.Trim(cleaned, `"`)
		cleaned = strings.NewReplacer(`\"`, `"`, `\n`, "", `\t`, "").Replace(cleaned)
	}
	return strings.TrimSpace(cleaned)
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (c llmCase) normalize() TestCase {
	tc := TestCase{
		ID:            c.ID,
		Category:      c.Category,
		Title:         c.Title,
		Expected:      c.Expected,
		Priority:      c.Priority,
		SampleData:    flatten(c.SampleData),
		Preconditions: c.Preconditions,
		Locators:      locators(c.Locators, c.Title),
		Platforms:     c.Platforms,
		DeviceMatrix:  c.DeviceMatrix,
	}
	if tc.Expected == "" {
		tc.Expected = c.ExpectedResult
	}
	if tc.ID == "" {
		tc.ID = newID(tc.Category)
	}
	if tc.Priority == "" {
		tc.Priority = DefaultPriority
	}
	if len(tc.Platforms) == 0 {
		tc.Platforms = []string{DefaultPlatform}
	}
	return tc
}

// flatten renders a JSON value as a string: strings verbatim, null as empty
// and anything else as compact JSON.
func flatten(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func locators(raw json.RawMessage, title string) []Locator {
	fallback := []Locator{{Element: title}}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fallback
	}

	switch raw[0] {
	case '[':
		var list []Locator
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return list
		}
	case '{':
		var obj locatorObject
		if err := json.Unmarshal(raw, &obj); err == nil {
			var out []Locator
			for _, pair := range [][2]string{
				{"id", obj.ID},
				{"accessibilityLabel", obj.AccessibilityLabel},
				{"xpath", obj.XPath},
			} {
				if pair[1] != "" {
					out = append(out, Locator{Element: pair[0], Locator: pair[1]})
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	case '"':
		if s := flatten(raw); s != "" {
			return []Locator{{Element: title, Locator: s}}
		}
	}
	return fallback
}
