package testsuite

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	headingPattern  = regexp.MustCompile(`^#{1,3}\s+(.*)`)
	bulletPattern   = regexp.MustCompile(`^[-*]\s+(.+)`)
	expectedPattern = regexp.MustCompile(`(?i)^Expected\s*Result:`)
	priorityPattern = regexp.MustCompile(`(?i)^Priority`)
	samplePattern   = regexp.MustCompile(`(?i)^Sample\s*Data`)
	precondPattern  = regexp.MustCompile(`(?i)^Preconditions`)
	locatorsPattern = regexp.MustCompile(`(?i)^Locators`)
	platformPattern = regexp.MustCompile(`(?i)^Platforms`)
	lineBreak       = regexp.MustCompile(`\r?\n`)
)

// ParseMarkdown converts a markdown test outline into test cases.
//
// Headings of up to three '#' set the category of the cases below them. Each
// '-' or '*' bullet starts a case titled by the bullet text. Attribute lines
// (Expected Result, Priority, Sample Data, Preconditions, Locators,
// Platforms) apply to the current case; their value is the text between the
// first and second ':' of the line. Lines before the first bullet are
// ignored.
func ParseMarkdown(markdown string) []TestCase {
	var (
		tests    []TestCase
		category string
		current  *TestCase
	)

	flush := func() {
		if current == nil {
			return
		}
		tc := *current
		tc.ID = uuid.NewString()
		if tc.Priority == "" {
			tc.Priority = DefaultPriority
		}
		if tc.Locators == nil {
			tc.Locators = []Locator{{Element: tc.Title}}
		}
		if len(tc.Platforms) == 0 {
			tc.Platforms = []string{DefaultPlatform}
		}
		tests = append(tests, tc)
		current = nil
	}

	for _, line := range lineBreak.Split(markdown, -1) {
		trimmed := strings.TrimSpace(line)

		if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			category = strings.TrimSpace(m[1])
			continue
		}
		if m := bulletPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &TestCase{Title: strings.TrimSpace(m[1]), Category: category}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case expectedPattern.MatchString(trimmed):
			current.Expected = attribute(trimmed)
		case priorityPattern.MatchString(trimmed):
			current.Priority = attribute(trimmed)
		case samplePattern.MatchString(trimmed):
			current.SampleData = attribute(trimmed)
		case precondPattern.MatchString(trimmed):
			current.Preconditions = attribute(trimmed)
		case locatorsPattern.MatchString(trimmed):
			current.Locators = []Locator{{Element: current.Title, Locator: attribute(trimmed)}}
		case platformPattern.MatchString(trimmed):
			current.Platforms = platforms(trimmed)
		}
	}
	flush()

	if tests == nil {
		return []TestCase{}
	}
	return tests
}

// attribute returns the trimmed text between the first and second ':'.
func attribute(line string) string {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func platforms(line string) []string {
	var out []string
	for _, p := range strings.Split(attribute(line), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
