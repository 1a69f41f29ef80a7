package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
)

// Phase when a hook runs relative to its event
type Phase string

const (
	Before Phase = "before"
	After  Phase = "after"
)

// Event lifecycle event hooks are registered for
type Event string

const (
	EventSave     Event = "save"
	EventFind     Event = "find"
	EventValidate Event = "validate"
	EventInit     Event = "init"
	EventRemove   Event = "remove"
)

// Scope what a hook sees of the running operation
type Scope struct {
	Model *Model
	// Instance being saved, validated, removed or initialized
	Instance *Instance
	// Instances hydrated by a find, set for after:find
	Instances []*Instance
	// Statement built but not executed yet, set for before:find
	Statement *builder.Statement
	// Conn connection of the operation, the transaction inside save and remove
	Conn builder.Conn
}

// HookFunc lifecycle hook, returning an error aborts the operation
type HookFunc func(ctx context.Context, scope *Scope) error

type hookKey struct {
	phase Phase
	event Event
}

// Hooks ordered hooks per phase and event
type Hooks struct {
	hooks map[hookKey][]HookFunc
}

func newHooks() *Hooks {
	return &Hooks{hooks: map[hookKey][]HookFunc{}}
}

func validHook(phase Phase, event Event) error {
	switch phase {
	case Before, After:
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidHook, phase)
	}

	switch event {
	case EventSave, EventFind, EventValidate, EventInit, EventRemove:
	default:
		return fmt.Errorf("%w: unknown event %q", ErrInvalidHook, event)
	}
	return nil
}

// Register append a hook
func (h *Hooks) Register(phase Phase, event Event, fn HookFunc) error {
	if err := validHook(phase, event); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: nil hook for %s:%s", ErrInvalidHook, phase, event)
	}

	key := hookKey{phase, event}
	h.hooks[key] = append(h.hooks[key], fn)
	return nil
}

// Len number of hooks registered
func (h *Hooks) Len(phase Phase, event Event) int {
	return len(h.hooks[hookKey{phase, event}])
}

// Run hooks one after another, the first error stops the chain and is returned as is
func (h *Hooks) Run(ctx context.Context, phase Phase, event Event, scope *Scope) error {
	for _, fn := range h.hooks[hookKey{phase, event}] {
		if err := fn(ctx, scope); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hooks) clone() *Hooks {
	clone := newHooks()
	for key, fns := range h.hooks {
		clone.hooks[key] = append([]HookFunc(nil), fns...)
	}
	return clone
}
