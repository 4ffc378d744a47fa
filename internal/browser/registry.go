// Package browser resolves browser automation engines by name.
package browser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/journeyman/internal/domain/journey"
	"github.com/alexisbeaulieu97/journeyman/internal/ports"
)

// Registry maps browser type names to launchers.
type Registry struct {
	mu        sync.RWMutex
	launchers map[string]ports.BrowserLauncher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{launchers: make(map[string]ports.BrowserLauncher)}
}

// Register stores a launcher under name.
func (r *Registry) Register(name string, launcher ports.BrowserLauncher) error {
	if name == "" {
		return fmt.Errorf("browser type is required")
	}
	if launcher == nil {
		return fmt.Errorf("launcher is nil for browser type %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.launchers[name]; exists {
		return journey.NewDuplicateError("browser type", name)
	}
	r.launchers[name] = launcher
	return nil
}

// RegisterFactory constructs a launcher and registers it under each name.
func (r *Registry) RegisterFactory(factory func() (ports.BrowserLauncher, error), names ...string) error {
	if factory == nil {
		return fmt.Errorf("launcher factory is nil")
	}
	launcher, err := factory()
	if err != nil {
		return fmt.Errorf("construct launcher %v: %w", names, err)
	}
	for _, name := range names {
		if err := r.Register(name, launcher); err != nil {
			return err
		}
	}
	return nil
}

// Get resolves the launcher for name.
func (r *Registry) Get(name string) (ports.BrowserLauncher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	launcher, ok := r.launchers[name]
	if !ok {
		return nil, journey.NewNotFoundError("browser type", name).WithContext(map[string]interface{}{
			"known": r.namesLocked(),
		})
	}
	return launcher, nil
}

// Names lists the registered browser types in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.launchers))
	for name := range r.launchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
