// Package thing maps models declared with attribute schemas onto relational tables.
package thing

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thingorm/thing/builder"
)

// Registry registered models of an application, and the executor they run on
type Registry struct {
	*Config
	exec builder.Executor

	mu     sync.RWMutex
	models map[string]*Model
}

// New registry over an executor
func New(exec builder.Executor, opts ...Option) *Registry {
	return &Registry{
		Config: (&Config{}).apply(opts...),
		exec:   exec,
		models: map[string]*Model{},
	}
}

// Executor the registry runs statements on
func (r *Registry) Executor() builder.Executor {
	return r.exec
}

// Make declare and register a model
func (r *Registry) Make(name string, init func(*Assembler)) (*Model, error) {
	return r.make(name, nil, init)
}

func (r *Registry) make(name string, parent *Model, init func(*Assembler)) (*Model, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: model name required", ErrInvalidData)
	}

	r.mu.RLock()
	_, exists := r.models[name]
	r.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrRegistered, name)
	}

	a := newAssembler(r, name, parent)
	if init != nil {
		init(a)
	}

	m, err := a.build()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRegistered, name)
	}
	r.models[name] = m
	r.Logger.Info(context.Background(), "model %s registered, table %s", name, m.table)
	return m, nil
}

// Model registered model by name
func (r *Registry) Model(name string) (*Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.models[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
}

// Models registered model names, sorted
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// modelByTable first registered model, by name order, mapped to table
func (r *Registry) modelByTable(table string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Model
	for name, m := range r.models {
		if m.table == table && (found == nil || name < found.name) {
			found = m
		}
	}
	return found, found != nil
}
