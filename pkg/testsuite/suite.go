package testsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/singampalli/ideaminds/pkg/kv"
)

// StorageKey is the kv key a suite is persisted under.
const StorageKey = "test-suite.v1"

// Suite is an ordered, concurrency-safe collection of test cases. New cases
// are prepended.
type Suite struct {
	mu    sync.RWMutex
	cases []TestCase
}

// NewSuite builds a suite seeded with cases.
func NewSuite(cases ...TestCase) *Suite {
	s := &Suite{}
	for _, tc := range cases {
		s.cases = append(s.cases, clone(tc))
	}
	return s
}

// Len returns the number of cases.
func (s *Suite) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cases)
}

// Cases returns a copy of every case in order.
func (s *Suite) Cases() []TestCase {
	return s.Filter(Filter{})
}

// Get returns the case with id.
func (s *Suite) Get(id string) (TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return clone(s.cases[i]), nil
	}
	return TestCase{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add assigns a fresh id of the form "<category>-<uuid>", fills defaults and
// prepends the case.
func (s *Suite) Add(tc TestCase) (TestCase, error) {
	if strings.TrimSpace(tc.Title) == "" {
		return TestCase{}, ErrTitleRequired
	}
	if tc.Category == "" {
		tc.Category = DefaultCategory
	}
	if tc.Priority == "" {
		tc.Priority = DefaultAddPriority
	}
	if len(tc.Platforms) == 0 {
		tc.Platforms = []string{DefaultPlatform}
	}
	tc.ID = newID(tc.Category)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases = append([]TestCase{clone(tc)}, s.cases...)
	return clone(tc), nil
}

// Update replaces the case sharing tc.ID.
func (s *Suite) Update(tc TestCase) error {
	if strings.TrimSpace(tc.Title) == "" {
		return ErrTitleRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(tc.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, tc.ID)
	}
	s.cases[i] = clone(tc)
	return nil
}

// Delete removes the case with id.
func (s *Suite) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.cases = append(s.cases[:i], s.cases[i+1:]...)
	return nil
}

// Filter returns copies of the cases matching filter.
func (s *Suite) Filter(filter Filter) []TestCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestCase, 0, len(s.cases))
	for _, tc := range s.cases {
		if tc.Matches(filter) {
			out = append(out, clone(tc))
		}
	}
	return out
}

// Categories returns "All" followed by the distinct categories in order.
func (s *Suite) Categories() []string {
	return s.distinct(func(tc TestCase) string { return tc.Category })
}

// Priorities returns "All" followed by the distinct priorities in order.
func (s *Suite) Priorities() []string {
	return s.distinct(func(tc TestCase) string { return tc.Priority })
}

// ExportJSON renders the suite as a two-space indented JSON array.
func (s *Suite) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Cases(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("testsuite: export json: %w", err)
	}
	return data, nil
}

// ExportYAML renders the suite as a YAML sequence.
func (s *Suite) ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(s.Cases())
	if err != nil {
		return nil, fmt.Errorf("testsuite: export yaml: %w", err)
	}
	return data, nil
}

// Import replaces the suite with the cases in a JSON array.
func (s *Suite) Import(data []byte) error {
	var cases []TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return fmt.Errorf("testsuite: import: %w", err)
	}
	s.Replace(cases)
	return nil
}

// Replace swaps the suite contents for cases.
func (s *Suite) Replace(cases []TestCase) {
	next := make([]TestCase, 0, len(cases))
	for _, tc := range cases {
		next = append(next, clone(tc))
	}
	s.mu.Lock()
	s.cases = next
	s.mu.Unlock()
}

// Save persists the suite under StorageKey.
func (s *Suite) Save(ctx context.Context, store kv.Store) error {
	data, err := s.ExportJSON()
	if err != nil {
		return err
	}
	if err := store.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("testsuite: save: %w", err)
	}
	return nil
}

// Load reads a suite persisted with Save. A missing key yields an empty
// suite.
func Load(ctx context.Context, store kv.Store) (*Suite, error) {
	data, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("testsuite: load: %w", err)
	}
	suite := NewSuite()
	if !ok || strings.TrimSpace(data) == "" {
		return suite, nil
	}
	if err := suite.Import([]byte(data)); err != nil {
		return nil, err
	}
	return suite, nil
}

func (s *Suite) distinct(key func(TestCase) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{All}
	seen := map[string]struct{}{}
	for _, tc := range s.cases {
		k := key(tc)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func (s *Suite) index(id string) int {
	for i, tc := range s.cases {
		if tc.ID == id {
			return i
		}
	}
	return -1
}

func newID(category string) string {
	return strings.ToLower(category) + "-" + uuid.NewString()
}
