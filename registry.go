package mycounter

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor creates an element instance from options.
type Constructor func(opts ...Option) *Counter

// Registry maps element names to constructors, the way a document's
// custom element registry does.
//
//	reg := mycounter.NewRegistry()
//	reg.Define("my-counter", mycounter.New)
//	c, err := reg.Create("my-counter", mycounter.WithAttributes(attrs))
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the shared registry with TagName defined.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Define(TagName, New)
	})
	return defaultRegistry
}

// Define registers a constructor under name.
// Panics if name is not a valid custom element name or is already defined;
// both are programming errors that should surface at startup.
func (reg *Registry) Define(name string, ctor Constructor) {
	if !validElementName(name) {
		panic(fmt.Sprintf("mycounter: invalid element name %q", name))
	}
	if ctor == nil {
		panic(fmt.Sprintf("mycounter: nil constructor for %q", name))
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.constructors[name]; exists {
		panic(fmt.Sprintf("mycounter: element %q already defined", name))
	}
	reg.constructors[name] = ctor
}

// Defined reports whether name has a constructor.
func (reg *Registry) Defined(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.constructors[name]
	return ok
}

// Names returns the defined element names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.constructors))
	for name := range reg.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates the element defined under name.
func (reg *Registry) Create(name string, opts ...Option) (*Counter, error) {
	reg.mu.RLock()
	ctor, ok := reg.constructors[name]
	reg.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElement, name)
	}
	return ctor(opts...), nil
}

// validElementName reports whether name is usable as a custom element
// name: it starts with a lowercase ASCII letter, contains a hyphen and has
// no uppercase letters, whitespace or markup characters.
func validElementName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}

	hyphen := false
	for _, r := range name {
		switch {
		case r == '-':
			hyphen = true
		case r >= 'A' && r <= 'Z':
			return false
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f',
			r == '<', r == '>', r == '/', r == '=', r == '"', r == '\'':
			return false
		}
	}
	return hyphen
}
