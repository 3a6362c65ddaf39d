package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned by Get when no renderer matches.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry indexes renderers by name. Names are matched case-insensitively so
// command-line values like "HTML" resolve.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Renderer)}
}

// Register adds renderer under its Name. A name can be registered once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	key := registryKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byKey[key]; taken {
		return fmt.Errorf("render: %q registered twice", key)
	}
	r.byKey[key] = renderer
	return nil
}

// MustRegister is Register for wiring code where a failure is a bug.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byKey[registryKey(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// List returns the registered names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		names = append(names, key)
	}
	slices.Sort(names)
	return names
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
