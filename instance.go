package thing

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/thingorm/thing/schema"
	"github.com/thingorm/thing/utils"
)

// Instance a model instance
type Instance struct {
	model  *Model
	values map[string]interface{}
	// attributes names supplied or defaulted at construction, and transient extras
	attributes []string
	snapshot   map[string]interface{}
	relations  map[string]interface{}
	built      bool
}

var _ schema.Values = (*Instance)(nil)

func newInstance(m *Model) *Instance {
	return &Instance{
		model:     m,
		values:    map[string]interface{}{},
		relations: map[string]interface{}{},
	}
}

// Model model of the instance
func (inst *Instance) Model() *Model {
	return inst.model
}

// Kind model name of the instance
func (inst *Instance) Kind() string {
	return inst.model.name
}

// ID primary key value, nil until persisted
func (inst *Instance) ID() interface{} {
	return inst.values[inst.model.primaryKey]
}

// IsNew instance has no primary key, saving it inserts
func (inst *Instance) IsNew() bool {
	return inst.ID() == nil
}

// Attributes names supplied or defaulted at construction, plus extra columns
func (inst *Instance) Attributes() []string {
	return append([]string(nil), inst.attributes...)
}

// Has value present on the instance
func (inst *Instance) Has(name string) bool {
	_, ok := inst.values[name]
	return ok
}

func (inst *Instance) track(name string) {
	if !utils.Contains(inst.attributes, name) {
		inst.attributes = append(inst.attributes, name)
	}
}

// Get attribute value, virtual attributes are computed, relations read from cache
func (inst *Instance) Get(name string) interface{} {
	if attr, ok := inst.model.schema.Lookup(name); ok {
		switch {
		case attr.IsVirtual():
			if getter := attr.GetterFunc(); getter != nil {
				return getter(inst)
			}
			return nil
		case attr.IsRelated():
			return inst.relations[name]
		}
	} else if _, ok := inst.model.relations.Get(name); ok {
		return inst.relations[name]
	}
	return inst.values[name]
}

// Set assign attribute value
func (inst *Instance) Set(name string, value interface{}) error {
	attr, ok := inst.model.schema.Lookup(name)
	if !ok {
		if _, isRelation := inst.model.relations.Get(name); isRelation {
			return inst.setRelation(name, value)
		}
		inst.values[name] = value
		inst.track(name)
		return nil
	}

	switch {
	case attr.IsVirtual():
		setter := attr.SetterFunc()
		if setter == nil {
			return &ValidationError{Attribute: name, Err: ErrNoSetter}
		}
		return setter(inst, value)
	case attr.IsRelated():
		return inst.setRelation(name, value)
	}

	if attr.IsReadonly() && inst.built {
		return &ValidationError{Attribute: name, Err: ErrReadonlyAttribute}
	}

	v, err := inst.model.registry.Cast(value, attr.DataType())
	if err != nil {
		return &ValidationError{Attribute: name, Err: err}
	}
	inst.values[name] = v
	inst.track(name)
	return nil
}

func (inst *Instance) setRelation(name string, value interface{}) error {
	rel, err := inst.model.Relation(name)
	if err != nil {
		return err
	}

	v, err := inst.model.forgeRelated(rel, value)
	if err != nil {
		return err
	}
	inst.relations[name] = v
	return nil
}

// Relation loaded relation value, *Instance or []*Instance
func (inst *Instance) Relation(name string) (interface{}, bool) {
	v, ok := inst.relations[name]
	return v, ok
}

// Call instance method
func (inst *Instance) Call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	fn, ok := inst.model.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s#%s", ErrMethodNotFound, inst.model.name, name)
	}
	return fn(ctx, inst, args...)
}

func (inst *Instance) takeSnapshot() {
	inst.snapshot = make(map[string]interface{}, len(inst.values))
	for k, v := range inst.values {
		inst.snapshot[k] = v
	}
}

// ModifiedAttributes attributes changed since construction or the last save
func (inst *Instance) ModifiedAttributes() []string {
	var names []string
	for _, name := range inst.attributes {
		old, existed := inst.snapshot[name]
		if !existed || !reflect.DeepEqual(old, inst.values[name]) {
			names = append(names, name)
		}
	}
	return names
}

// IsModified any of names changed, any attribute when names is empty
func (inst *Instance) IsModified(names ...string) bool {
	modified := inst.ModifiedAttributes()
	if len(names) == 0 {
		return len(modified) > 0
	}
	for _, name := range names {
		if utils.Contains(modified, name) {
			return true
		}
	}
	return false
}

// ToMap all values, hidden included, with loaded relations
func (inst *Instance) ToMap() map[string]interface{} {
	results := make(map[string]interface{}, len(inst.values)+len(inst.relations))
	for k, v := range inst.values {
		results[k] = v
	}
	for k, v := range inst.relations {
		switch r := v.(type) {
		case *Instance:
			results[k] = r.ToMap()
		case []*Instance:
			items := make([]map[string]interface{}, len(r))
			for idx, item := range r {
				items[idx] = item.ToMap()
			}
			results[k] = items
		default:
			results[k] = nil
		}
	}
	return results
}

// String inspect format
//
//	User(1) {
//		name: 'Ann'
//	}
func (inst *Instance) String() string {
	var b strings.Builder
	b.WriteString(inst.model.name)
	if id := inst.ID(); id != nil {
		fmt.Fprintf(&b, "(%v)", id)
	}
	b.WriteString(" {\n")
	inst.each(func(name string, value interface{}) {
		b.WriteString("\t")
		b.WriteString(name)
		b.WriteString(": ")
		switch v := value.(type) {
		case string:
			b.WriteString("'" + v + "'")
		case *Instance:
			b.WriteString(strings.ReplaceAll(v.String(), "\n", "\n\t"))
		case []*Instance:
			fmt.Fprintf(&b, "[%d items]", len(v))
		default:
			fmt.Fprint(&b, v)
		}
		b.WriteString("\n")
	})
	b.WriteString("}")
	return b.String()
}
