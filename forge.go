package thing

import (
	"context"
	"fmt"
	"sort"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/schema"
)

// Forge construct an instance from a data record
func (m *Model) Forge(data map[string]interface{}) (*Instance, error) {
	return m.ForgeContext(context.Background(), data)
}

// ForgeContext construct an instance from a data record, running init hooks
//
// Absent attributes get their default, primitive values are cast to their
// declared type and virtual attributes go through their setter. Fields unknown
// to the schema are kept and listed in Attributes.
func (m *Model) ForgeContext(ctx context.Context, data map[string]interface{}) (*Instance, error) {
	inst := newInstance(m)
	scope := &Scope{Model: m, Instance: inst, Conn: m.registry.exec}

	if err := m.hooks.Run(ctx, Before, EventInit, scope); err != nil {
		return nil, err
	}
	if err := m.construct(inst, data); err != nil {
		return nil, err
	}
	if err := m.hooks.Run(ctx, After, EventInit, scope); err != nil {
		return nil, err
	}
	return inst, nil
}

func (m *Model) construct(inst *Instance, data map[string]interface{}) error {
	type assignment struct {
		step  fieldPlan
		value interface{}
	}
	var virtuals []assignment

	for _, step := range m.plan {
		raw, present := data[step.name]

		switch step.kind {
		case columnField:
			if !present {
				if !step.attr.HasDefault() {
					continue
				}
				raw = step.attr.DefaultValue()
			}

			value, err := m.registry.Cast(raw, step.attr.DataType())
			if err != nil {
				return &ValidationError{Attribute: step.name, Err: err}
			}
			inst.values[step.name] = value
			inst.track(step.name)
		case virtualField:
			if present && step.attr.SetterFunc() != nil {
				virtuals = append(virtuals, assignment{step, raw})
			}
		case relatedField:
			if present {
				if err := inst.setRelation(step.name, raw); err != nil {
					return err
				}
			}
		}
	}

	extras := make([]string, 0, len(data))
	for key := range data {
		if _, ok := m.schema.Lookup(key); !ok {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)

	for _, key := range extras {
		if _, ok := m.relations.Get(key); ok {
			if err := inst.setRelation(key, data[key]); err != nil {
				return err
			}
			continue
		}
		inst.values[key] = data[key]
		inst.track(key)
	}

	for _, v := range virtuals {
		if err := v.step.attr.SetterFunc()(inst, v.value); err != nil {
			return &ValidationError{Attribute: v.step.name, Err: err}
		}
	}

	inst.built = true
	inst.takeSnapshot()
	return nil
}

// forgeRelated convert a relation value into instances of the target model
func (m *Model) forgeRelated(rel *schema.Relation, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	target, err := m.relatedModel(rel)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *Instance, []*Instance:
		return v, nil
	case map[string]interface{}:
		return target.Forge(v)
	case builder.Row:
		return target.Forge(v)
	case []map[string]interface{}:
		return forgeAll(target, len(v), func(i int) interface{} { return v[i] })
	case []builder.Row:
		return forgeAll(target, len(v), func(i int) interface{} { return map[string]interface{}(v[i]) })
	case []interface{}:
		return forgeAll(target, len(v), func(i int) interface{} { return v[i] })
	}
	return nil, &ValidationError{Attribute: rel.Name, Err: fmt.Errorf("%w: %T", ErrInvalidData, value)}
}

func forgeAll(target *Model, n int, item func(int) interface{}) ([]*Instance, error) {
	results := make([]*Instance, 0, n)
	for i := 0; i < n; i++ {
		switch v := item(i).(type) {
		case *Instance:
			results = append(results, v)
		case map[string]interface{}:
			inst, err := target.Forge(v)
			if err != nil {
				return nil, err
			}
			results = append(results, inst)
		case builder.Row:
			inst, err := target.Forge(v)
			if err != nil {
				return nil, err
			}
			results = append(results, inst)
		default:
			return nil, fmt.Errorf("%w: %T", ErrInvalidData, v)
		}
	}
	return results, nil
}

// relatedModel target of a relation, a model built from the nested schema
// when nothing is registered for it
func (m *Model) relatedModel(rel *schema.Relation) (*Model, error) {
	target, err := m.target(rel)
	if err != nil {
		return nil, err
	}

	if target.schemaless && rel.Schema != nil {
		nested := newSchemaless(m.registry, target.table)
		if err := rel.Schema.Compile(); err != nil {
			return nil, err
		}
		nested.schema = rel.Schema
		nested.plan = compilePlan(rel.Schema)
		nested.schemaless = false
		return nested, nil
	}
	return target, nil
}
