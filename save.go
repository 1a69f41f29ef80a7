package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/schema"
)

// transaction run fn in a transaction, committed when fn succeeds and rolled
// back otherwise, panics included. A connection given with Using is used as
// is, its owner commits.
func (m *Model) transaction(ctx context.Context, o *callOptions, fn func(conn builder.Conn) error) (err error) {
	if o.conn != nil {
		return fn(o.conn)
	}

	tx, err := m.registry.exec.Begin(ctx)
	if err != nil {
		return err
	}

	committing := false
	defer func() {
		if committing {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			m.registry.Logger.Error(ctx, "rollback %s: %v", m.name, rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	committing = true
	return tx.Commit()
}

// Validate run validate hooks
func (inst *Instance) Validate(ctx context.Context, opts ...CallOption) error {
	o := newCallOptions(opts)
	return inst.validate(ctx, inst.model.conn(o))
}

func (inst *Instance) validate(ctx context.Context, conn builder.Conn) error {
	scope := &Scope{Model: inst.model, Instance: inst, Conn: conn}
	if err := inst.model.hooks.Run(ctx, Before, EventValidate, scope); err != nil {
		return err
	}
	return inst.model.hooks.Run(ctx, After, EventValidate, scope)
}

// Save insert a new instance or update a persisted one, with its cascaded
// relations, in one transaction
//
// The returned instance is fetched again after commit unless NoRefetch is
// given. Errors of hooks and of the executor are returned unchanged.
func (inst *Instance) Save(ctx context.Context, opts ...CallOption) (*Instance, error) {
	m := inst.model
	o := newCallOptions(opts)

	states := inst.saveStates()
	var saved []*Instance
	err := m.transaction(ctx, o, func(conn builder.Conn) error {
		var err error
		saved, err = inst.save(ctx, conn, o)
		return err
	})
	if err != nil {
		for _, state := range states {
			state.restore()
		}
		return nil, err
	}

	for _, s := range saved {
		s.takeSnapshot()
	}

	if o.noRefetch {
		return inst, nil
	}

	var findOpts []CallOption
	if o.conn != nil {
		findOpts = append(findOpts, Using(o.conn))
	}
	fresh, err := m.Find(ctx, Where{m.primaryKey: inst.ID()}, findOpts...)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return inst, nil
	}
	return fresh, nil
}

// save the pipeline run inside the transaction, returns the instances written
func (inst *Instance) save(ctx context.Context, conn builder.Conn, o *callOptions) ([]*Instance, error) {
	m := inst.model
	scope := &Scope{Model: m, Instance: inst, Conn: conn}

	if err := inst.validate(ctx, conn); err != nil {
		return nil, err
	}
	if err := m.hooks.Run(ctx, Before, EventSave, scope); err != nil {
		return nil, err
	}

	wasNew := inst.IsNew()
	record := inst.persistable(o)
	if wasNew {
		id, err := conn.Insert(ctx, m.table, record, m.primaryKey)
		if err != nil {
			return nil, err
		}
		if err := inst.setKey(id); err != nil {
			return nil, err
		}
	} else if len(record) > 0 {
		if _, err := conn.Update(ctx, m.table, record, byKey(m.primaryKey, inst.ID())); err != nil {
			return nil, err
		}
	}

	saved := []*Instance{inst}
	children, err := inst.cascade(ctx, conn, wasNew, o)
	if err != nil {
		return nil, err
	}
	saved = append(saved, children...)

	if err := m.hooks.Run(ctx, After, EventSave, scope); err != nil {
		return nil, err
	}
	return saved, nil
}

// instanceState values of an instance before a save, restored when the save
// fails so keys of rolled back inserts don't stay on the instance
type instanceState struct {
	inst       *Instance
	values     map[string]interface{}
	attributes []string
}

func (inst *Instance) state() instanceState {
	values := make(map[string]interface{}, len(inst.values))
	for k, v := range inst.values {
		values[k] = v
	}
	return instanceState{inst: inst, values: values, attributes: inst.Attributes()}
}

func (state instanceState) restore() {
	state.inst.values = state.values
	state.inst.attributes = state.attributes
}

// saveStates state of the instance and of the loaded relations a cascade may write
func (inst *Instance) saveStates() []instanceState {
	states := []instanceState{inst.state()}
	for _, v := range inst.relations {
		switch r := v.(type) {
		case *Instance:
			if r != nil {
				states = append(states, r.state())
			}
		case []*Instance:
			for _, child := range r {
				states = append(states, child.state())
			}
		}
	}
	return states
}

// persistable column values to write: present column attributes without the
// primary key, limited to the allow-list or the modified attributes
func (inst *Instance) persistable(o *callOptions) builder.Row {
	m := inst.model
	names := inst.attributes
	switch {
	case len(o.attributes) > 0:
		names = o.attributes
	case o.onlyModified:
		names = inst.ModifiedAttributes()
	}

	record := builder.Row{}
	for _, name := range names {
		if name == m.primaryKey {
			continue
		}
		if attr, ok := m.schema.Lookup(name); ok {
			if !attr.IsColumn() {
				continue
			}
		} else if !m.schemaless {
			continue
		} else if _, isRelation := m.relations.Get(name); isRelation {
			continue
		}

		if v, ok := inst.values[name]; ok {
			record[name] = v
		}
	}
	return record
}

// setKey store the generated primary key
func (inst *Instance) setKey(id interface{}) error {
	if id == nil {
		return nil
	}

	m := inst.model
	if attr, ok := m.schema.Lookup(m.primaryKey); ok && attr.IsColumn() {
		v, err := m.registry.Cast(id, attr.DataType())
		if err != nil {
			return &ValidationError{Attribute: m.primaryKey, Err: err}
		}
		id = v
	}
	inst.values[m.primaryKey] = id
	inst.track(m.primaryKey)
	return nil
}

// cascade save related sub-records: the loaded hasOne relations, or the ones
// named with Cascade
func (inst *Instance) cascade(ctx context.Context, conn builder.Conn, parentWasNew bool, o *callOptions) ([]*Instance, error) {
	m := inst.model
	names := o.cascade
	if !o.cascadeSet {
		names = nil
		m.relations.Each(func(rel *schema.Relation) {
			if rel.Type == schema.HasOne {
				if v, ok := inst.relations[rel.Name]; ok && v != nil {
					names = append(names, rel.Name)
				}
			}
		})
	}

	var saved []*Instance
	for _, name := range names {
		rel, err := m.Relation(name)
		if err != nil {
			return nil, err
		}
		if rel.Type == schema.BelongsTo {
			return nil, errRelation(m, rel, fmt.Errorf("%w: %s can't be cascaded", ErrUnsupportedRelation, rel.Type))
		}

		value := inst.relations[name]
		if value == nil {
			continue
		}

		target, err := m.relatedModel(rel)
		if err != nil {
			return nil, errRelation(m, rel, err)
		}
		ownerKey, targetKey := m.relationKeys(rel, target)
		key := inst.Get(ownerKey)
		if key == nil {
			return nil, errRelation(m, rel, ErrPrimaryKeyRequired)
		}

		switch v := value.(type) {
		case *Instance:
			if err := saveHasOne(ctx, conn, v, targetKey, key, parentWasNew); err != nil {
				return nil, err
			}
			saved = append(saved, v)
		case []*Instance:
			for _, child := range v {
				if err := saveHasMany(ctx, conn, child, targetKey, key); err != nil {
					return nil, err
				}
				saved = append(saved, child)
			}
		}
	}
	return saved, nil
}

// saveHasOne insert the child of a new parent, update it by foreign key otherwise
func saveHasOne(ctx context.Context, conn builder.Conn, child *Instance, foreignKey string, key interface{}, parentWasNew bool) error {
	cm := child.model
	child.values[foreignKey] = key
	child.track(foreignKey)
	record := child.persistable(&callOptions{})
	record[foreignKey] = key

	if !parentWasNew {
		n, err := conn.Update(ctx, cm.table, record, byKey(foreignKey, key))
		if err != nil || n > 0 || !child.IsNew() {
			return err
		}
	}

	id, err := conn.Insert(ctx, cm.table, record, cm.primaryKey)
	if err != nil {
		return err
	}
	return child.setKey(id)
}

// saveHasMany insert new children, update the others by their own key
func saveHasMany(ctx context.Context, conn builder.Conn, child *Instance, foreignKey string, key interface{}) error {
	cm := child.model
	child.values[foreignKey] = key
	child.track(foreignKey)
	record := child.persistable(&callOptions{})
	record[foreignKey] = key

	if !child.IsNew() {
		_, err := conn.Update(ctx, cm.table, record, byKey(cm.primaryKey, child.ID()))
		return err
	}

	id, err := conn.Insert(ctx, cm.table, record, cm.primaryKey)
	if err != nil {
		return err
	}
	return child.setKey(id)
}
