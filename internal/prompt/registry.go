package prompt

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned when a template name is not registered
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Registry holds the compiled templates. It is built once at start-up and is
// read-only afterwards, so it can be shared across requests.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry compiles the given specs. Duplicate names are rejected.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(specs))}
	for _, s := range specs {
		t, err := Compile(s)
		if err != nil {
			return nil, err
		}
		if _, exists := r.templates[t.Name]; exists {
			return nil, fmt.Errorf("duplicate prompt template %q", t.Name)
		}
		r.templates[t.Name] = t
	}
	return r, nil
}

// Get returns the compiled template registered under name
func (r *Registry) Get(name string) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownTemplate)
	}
	return t, nil
}

// Render fills the named template
func (r *Registry) Render(name string, in Input) (*Rendered, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Render(in)
}

// Names returns the registered template names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
