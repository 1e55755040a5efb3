package orchestrator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/singampalli/ideaminds/pkg/inference"
)

// BackendRegistry stores inference clients by name.
type BackendRegistry struct {
	mu       sync.RWMutex
	backends map[string]inference.Client
}

// NewBackendRegistry creates an empty backend registry.
func NewBackendRegistry() *BackendRegistry {
	return &BackendRegistry{
		backends: make(map[string]inference.Client),
	}
}

// Register adds a client under name. Duplicate names return an error.
func (r *BackendRegistry) Register(name string, client inference.Client) error {
	if client == nil {
		return fmt.Errorf("orchestrator: backend client is required")
	}
	key := normalizeBackendName(name)
	if key == "" {
		return fmt.Errorf("orchestrator: backend name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[key]; exists {
		return fmt.Errorf("orchestrator: backend %q already registered", key)
	}
	r.backends[key] = client
	return nil
}

// MustRegister panics on registration failure.
func (r *BackendRegistry) MustRegister(name string, client inference.Client) {
	if err := r.Register(name, client); err != nil {
		panic(err)
	}
}

// Get retrieves a client by name.
func (r *BackendRegistry) Get(name string) (inference.Client, error) {
	key := normalizeBackendName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: backend name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.backends[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: backend %q not found", key)
	}
	return client, nil
}

// List returns a sorted list of backend names.
func (r *BackendRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a backend is registered.
func (r *BackendRegistry) Has(name string) bool {
	key := normalizeBackendName(name)
	if key == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.backends[key]
	return ok
}

func normalizeBackendName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
