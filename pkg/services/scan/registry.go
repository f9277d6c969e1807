package scan

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/predicate"
)

// TargetFactory opens a target of one kind from a reference.
type TargetFactory func(ref string) (predicate.Target, error)

// Registry manages target loader factories.
type Registry interface {
	// Register adds a new target kind factory
	Register(kind string, factory TargetFactory) error
	// Create opens a target of the given kind
	Create(kind, ref string) (predicate.Target, error)
	// Open resolves the kind from the reference and opens it.
	// A missing or unreadable reference yields domain.ErrTargetNotFound.
	Open(ref string) (predicate.Target, error)
	// ListKinds returns the registered target kinds
	ListKinds() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]TargetFactory
}

// NewRegistry creates a registry pre-loaded with the dir and zip
// loaders. Extra ignore patterns extend DefaultIgnorePatterns for
// both loaders.
func NewRegistry(extraIgnores ...string) Registry {
	r := &registry{factories: map[string]TargetFactory{}}
	_ = r.Register("dir", func(ref string) (predicate.Target, error) {
		return NewDirTarget(ref, extraIgnores...)
	})
	_ = r.Register("zip", func(ref string) (predicate.Target, error) {
		return NewZipTarget(ref, extraIgnores...)
	})
	return r
}

func (r *registry) Register(kind string, factory TargetFactory) error {
	if kind == "" {
		return fmt.Errorf("target kind cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("target kind %q is already registered", kind)
	}

	r.factories[kind] = factory
	return nil
}

func (r *registry) Create(kind, ref string) (predicate.Target, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("target kind %q is not registered", kind)
	}
	return factory(ref)
}

func (r *registry) Open(ref string) (predicate.Target, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, ref)
	}

	kind := "dir"
	if !info.IsDir() {
		if !strings.HasSuffix(ref, ".zip") {
			return nil, fmt.Errorf("unsupported target %s: not a directory or zip archive", ref)
		}
		kind = "zip"
	}

	target, err := r.Create(kind, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTargetNotFound, ref, err)
	}
	return target, nil
}

func (r *registry) ListKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}
