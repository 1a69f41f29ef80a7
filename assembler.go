package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/schema"
)

// MethodFunc instance method
type MethodFunc func(ctx context.Context, inst *Instance, args ...interface{}) (interface{}, error)

// StaticFunc model level function
type StaticFunc func(ctx context.Context, m *Model, args ...interface{}) (interface{}, error)

// Assembler declares a model, handed to the initializer of Registry.Make and Model.Extend
type Assembler struct {
	registry *Registry
	name     string

	schema       *schema.Schema
	relations    *schema.Relationships
	methods      map[string]MethodFunc
	statics      map[string]StaticFunc
	constants    map[string]interface{}
	hooks        *Hooks
	table        string
	primaryKey   string
	hidden       []string
	defaultWhere Where

	err error
}

func newAssembler(r *Registry, name string, parent *Model) *Assembler {
	a := &Assembler{
		registry:   r,
		name:       name,
		schema:     schema.New(),
		relations:  schema.NewRelationships(),
		methods:    map[string]MethodFunc{},
		statics:    map[string]StaticFunc{},
		constants:  map[string]interface{}{},
		hooks:      newHooks(),
		table:      r.NamingStrategy.TableName(name),
		primaryKey: "id",
	}

	if parent != nil {
		a.schema = parent.schema.Clone()
		a.relations = parent.declared.Clone()
		a.hooks = parent.hooks.clone()
		a.primaryKey = parent.primaryKey
		a.hidden = append([]string(nil), parent.hidden...)
		a.defaultWhere = parent.defaultWhere.clone()
		for k, v := range parent.methods {
			a.methods[k] = v
		}
		for k, v := range parent.statics {
			a.statics[k] = v
		}
		for k, v := range parent.constants {
			a.constants[k] = v
		}
	}
	return a
}

// Name model name
func (a *Assembler) Name() string {
	return a.name
}

// AddError record the first error, it fails the declaration
func (a *Assembler) AddError(err error) error {
	if a.err == nil {
		a.err = err
	}
	return a.err
}

// Error the first error recorded
func (a *Assembler) Error() error {
	return a.err
}

// Executor executor of the registry
func (a *Assembler) Executor() builder.Executor {
	return a.registry.exec
}

// Schema declare attributes with a schema descriptor
func (a *Assembler) Schema(descriptor interface{}) *Assembler {
	if err := a.schema.Parse(descriptor); err != nil {
		a.AddError(err)
	}
	return a
}

// Attribute declare or return an attribute
func (a *Assembler) Attribute(name string, descriptor ...interface{}) *schema.Attribute {
	attr, err := a.schema.Attribute(name, descriptor...)
	if err != nil {
		a.AddError(err)
	}
	return attr
}

// Method attach an instance method
func (a *Assembler) Method(name string, fn MethodFunc) *Assembler {
	a.methods[name] = fn
	return a
}

// Static attach a model function
func (a *Assembler) Static(name string, fn StaticFunc) *Assembler {
	a.statics[name] = fn
	return a
}

// Constant attach a model constant
func (a *Assembler) Constant(name string, value interface{}) *Assembler {
	a.constants[name] = value
	return a
}

// Before append a hook running before event
func (a *Assembler) Before(event Event, fn HookFunc) *Assembler {
	if err := a.hooks.Register(Before, event, fn); err != nil {
		a.AddError(err)
	}
	return a
}

// After append a hook running after event
func (a *Assembler) After(event Event, fn HookFunc) *Assembler {
	if err := a.hooks.Register(After, event, fn); err != nil {
		a.AddError(err)
	}
	return a
}

// Table table name
func (a *Assembler) Table() string {
	return a.table
}

// SetTable set table name
func (a *Assembler) SetTable(table string) *Assembler {
	a.table = table
	return a
}

// Hidden columns never serialized, in addition to hidden attributes
func (a *Assembler) Hidden() []string {
	return append([]string(nil), a.hidden...)
}

// SetHidden set hidden columns
func (a *Assembler) SetHidden(columns ...string) *Assembler {
	a.hidden = append([]string(nil), columns...)
	return a
}

// PrimaryKey primary key column
func (a *Assembler) PrimaryKey() string {
	return a.primaryKey
}

// SetPrimaryKey set primary key column
func (a *Assembler) SetPrimaryKey(column string) *Assembler {
	a.primaryKey = column
	return a
}

// DefaultWhere conditions merged into every find
func (a *Assembler) DefaultWhere() Where {
	return a.defaultWhere.clone()
}

// SetDefaultWhere set conditions merged into every find
func (a *Assembler) SetDefaultWhere(where Where) *Assembler {
	a.defaultWhere = where.clone()
	return a
}

// HasOne declare a to-one relation whose foreign key is on the target table
func (a *Assembler) HasOne(name string, rel schema.Relation) *Assembler {
	return a.relate(name, schema.HasOne, rel)
}

// HasMany declare a to-many relation whose foreign key is on the target table
func (a *Assembler) HasMany(name string, rel schema.Relation) *Assembler {
	return a.relate(name, schema.HasMany, rel)
}

// BelongsTo declare a to-one relation whose foreign key is on this model
func (a *Assembler) BelongsTo(name string, rel schema.Relation) *Assembler {
	return a.relate(name, schema.BelongsTo, rel)
}

// relate relations declared on the assembler are eager unless Lazy is set
func (a *Assembler) relate(name string, kind schema.RelationshipType, rel schema.Relation) *Assembler {
	r := rel.Clone()
	r.Name = name
	r.Type = kind
	r.Eager = !r.Lazy
	if err := a.relations.Add(r); err != nil {
		a.AddError(err)
	}
	return a
}

// Behavior compose a reusable declaration
func (a *Assembler) Behavior(fn func(a *Assembler, exec builder.Executor)) *Assembler {
	fn(a, a.registry.exec)
	return a
}

func (a *Assembler) build() (*Model, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.table == "" {
		return nil, fmt.Errorf("%w: model %s has no table", ErrInvalidData, a.name)
	}
	if a.primaryKey == "" {
		return nil, fmt.Errorf("%w: model %s", ErrPrimaryKeyRequired, a.name)
	}
	if err := a.schema.Compile(); err != nil {
		return nil, err
	}

	relations := a.relations.Clone()
	related, err := a.schema.Related()
	if err != nil {
		return nil, err
	}
	for _, name := range related {
		attr, _ := a.schema.Lookup(name)
		if err := relations.Add(attr.Relation()); err != nil {
			return nil, err
		}
	}

	m := &Model{
		registry:     a.registry,
		name:         a.name,
		table:        a.table,
		primaryKey:   a.primaryKey,
		hidden:       a.hidden,
		defaultWhere: a.defaultWhere,
		schema:       a.schema,
		declared:     a.relations,
		relations:    relations,
		hooks:        a.hooks,
		methods:      a.methods,
		statics:      a.statics,
		constants:    a.constants,
	}
	m.plan = compilePlan(m.schema)
	return m, nil
}
