package thing

import (
	"context"
	"fmt"
)

// Related load a relation with one query and cache it on the instance
//
// The result is an *Instance (nil when nothing matches) for hasOne and
// belongsTo, a []*Instance for hasMany.
func (inst *Instance) Related(ctx context.Context, name string, opts ...CallOption) (interface{}, error) {
	m := inst.model
	rel, err := m.Relation(name)
	if err != nil {
		return nil, err
	}

	target, err := m.relatedModel(rel)
	if err != nil {
		return nil, errRelation(m, rel, err)
	}
	ownerKey, targetKey := m.relationKeys(rel, target)

	key := inst.Get(ownerKey)
	if key == nil {
		if ownerKey == m.primaryKey {
			return nil, errRelation(m, rel, ErrPrimaryKeyRequired)
		}
		inst.relations[name] = relationValue(rel, nil)
		return inst.relations[name], nil
	}

	columns, err := relationColumns(rel, target, targetKey)
	if err != nil {
		return nil, err
	}

	o := newCallOptions(opts)
	o.selects = columns
	o.related, o.relatedSet = nil, true
	if !rel.Type.IsToMany() {
		one := 1
		o.limit = &one
	}

	children, err := target.find(ctx, Where{qualify(target.table, targetKey): key}, o)
	if err != nil {
		return nil, err
	}

	inst.relations[name] = relationValue(rel, children)
	return inst.relations[name], nil
}

// RelatedOne Related for hasOne and belongsTo relations
func (inst *Instance) RelatedOne(ctx context.Context, name string, opts ...CallOption) (*Instance, error) {
	rel, err := inst.model.Relation(name)
	if err != nil {
		return nil, err
	}
	if rel.Type.IsToMany() {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedRelation, name, rel.Type)
	}

	v, err := inst.Related(ctx, name, opts...)
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// RelatedMany Related for hasMany relations
func (inst *Instance) RelatedMany(ctx context.Context, name string, opts ...CallOption) ([]*Instance, error) {
	rel, err := inst.model.Relation(name)
	if err != nil {
		return nil, err
	}
	if !rel.Type.IsToMany() {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedRelation, name, rel.Type)
	}

	v, err := inst.Related(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	return v.([]*Instance), nil
}
