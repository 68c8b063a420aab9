package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
)

// Entry binds a service's metadata to the way it is reached: a Decision for
// nodes that run in-process, or a ServiceClient for remote workers.
// Exactly one of the two is set.
type Entry struct {
	Service  domain.Service
	Decision ports.Decision
	Client   ports.ServiceClient
}

// Registry maps logical service names to entries. It is resolved once at
// startup and read-only afterwards, but lookups are lock-protected so a
// future hot-reload path stays safe.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a service entry. Registering the same name twice is a
// configuration defect and returns an error.
func (r *Registry) Register(e Entry) error {
	if e.Service.Name == "" {
		return fmt.Errorf("registry: service name is required")
	}
	if (e.Decision == nil) == (e.Client == nil) {
		return fmt.Errorf("registry: service %q must have exactly one of decision or client", e.Service.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[e.Service.Name]; exists {
		return fmt.Errorf("registry: service %q already registered", e.Service.Name)
	}
	r.entries[e.Service.Name] = e
	return nil
}

// Lookup returns the entry for a logical service name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// FromProvenance matches a fragment against the registered provenance tags
// and returns the originating service name, if any. This is how service
// replies are told apart from end-user input.
func (r *Registry) FromProvenance(fragment string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, e := range r.entries {
		if e.Service.Tag != "" && strings.HasPrefix(fragment, e.Service.Tag) {
			return name, true
		}
	}
	return "", false
}

// Tag returns the provenance tag of a service, or "" if unknown.
func (r *Registry) Tag(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[name].Service.Tag
}

// Names lists the registered service names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}
