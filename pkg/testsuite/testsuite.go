// Package testsuite parses generated test cases and manages an editable,
// filterable suite of them.
package testsuite

import (
	"errors"
	"strings"
)

const (
	// DefaultPriority is assigned to parsed cases without a priority line.
	DefaultPriority = "Medium"
	// DefaultCategory is assigned to added cases without a category.
	DefaultCategory = "Functionality"
	// DefaultAddPriority is assigned to added cases without a priority.
	DefaultAddPriority = "P2 - Medium"
	// DefaultPlatform is used when a case names no platform.
	DefaultPlatform = "Android"
	// All disables a filter dimension.
	All = "All"
)

var (
	// ErrTitleRequired is returned when a case without a title is added.
	ErrTitleRequired = errors.New("testsuite: title is required")
	// ErrNotFound is returned when no case carries the requested id.
	ErrNotFound = errors.New("testsuite: test case not found")
	// ErrNotArray is returned when generated output is not a JSON array.
	ErrNotArray = errors.New("testsuite: parsed data is not an array")
)

// Locator pins a UI element for automation.
type Locator struct {
	Element string `json:"element" yaml:"element"`
	Locator string `json:"locator" yaml:"locator"`
}

// TestCase is a single manual or automated test.
type TestCase struct {
	ID            string    `json:"id" yaml:"id"`
	Category      string    `json:"category" yaml:"category"`
	Title         string    `json:"title" yaml:"title"`
	Expected      string    `json:"expected" yaml:"expected"`
	Priority      string    `json:"priority" yaml:"priority"`
	SampleData    string    `json:"sampleData" yaml:"sample_data"`
	Preconditions string    `json:"preconditions" yaml:"preconditions"`
	Locators      []Locator `json:"locators" yaml:"locators"`
	Platforms     []string  `json:"platforms" yaml:"platforms"`
	DeviceMatrix  []string  `json:"deviceMatrix,omitempty" yaml:"device_matrix,omitempty"`
}

// Matches reports whether the case passes filter.
func (tc TestCase) Matches(filter Filter) bool {
	if filter.Category != "" && filter.Category != All && tc.Category != filter.Category {
		return false
	}
	if filter.Priority != "" && filter.Priority != All && tc.Priority != filter.Priority {
		return false
	}
	if filter.Search != "" {
		haystack := strings.ToLower(tc.Title + " " + tc.Expected + " " + tc.SampleData)
		if !strings.Contains(haystack, strings.ToLower(filter.Search)) {
			return false
		}
	}
	return true
}

// Filter narrows the visible cases. Empty or "All" dimensions match
// everything; Search is a case-insensitive substring over title, expected
// result and sample data.
type Filter struct {
	Category string
	Priority string
	Search   string
}

func clone(tc TestCase) TestCase {
	out := tc
	if tc.Locators != nil {
		out.Locators = append([]Locator(nil), tc.Locators...)
	}
	if tc.Platforms != nil {
		out.Platforms = append([]string(nil), tc.Platforms...)
	}
	if tc.DeviceMatrix != nil {
		out.DeviceMatrix = append([]string(nil), tc.DeviceMatrix...)
	}
	return out
}
