package thing

import (
	"context"
	"fmt"
	"strings"

	"github.com/thingorm/thing/schema"
	"github.com/thingorm/thing/utils"
)

// Model a registered entity type, immutable once made
type Model struct {
	registry     *Registry
	name         string
	table        string
	primaryKey   string
	hidden       []string
	defaultWhere Where

	schema *schema.Schema
	// declared relations declared on the assembler, inherited by Extend
	declared  *schema.Relationships
	relations *schema.Relationships
	hooks     *Hooks
	methods   map[string]MethodFunc
	statics   map[string]StaticFunc
	constants map[string]interface{}
	plan      []fieldPlan

	// schemaless model over a table without a registered model
	schemaless bool
}

type fieldKind int

const (
	columnField fieldKind = iota
	virtualField
	relatedField
)

// fieldPlan one step of instance construction
type fieldPlan struct {
	name string
	kind fieldKind
	attr *schema.Attribute
}

func compilePlan(s *schema.Schema) []fieldPlan {
	plan := make([]fieldPlan, 0, s.Len())
	s.EachAttribute(func(attr *schema.Attribute) {
		step := fieldPlan{name: attr.Name(), kind: columnField, attr: attr}
		switch {
		case attr.IsVirtual():
			step.kind = virtualField
		case attr.IsRelated():
			step.kind = relatedField
		}
		plan = append(plan, step)
	})
	return plan
}

func newSchemaless(r *Registry, table string) *Model {
	s := schema.New()
	_ = s.Compile()
	return &Model{
		registry:   r,
		name:       table,
		table:      table,
		primaryKey: "id",
		schema:     s,
		declared:   schema.NewRelationships(),
		relations:  schema.NewRelationships(),
		hooks:      newHooks(),
		schemaless: true,
	}
}

// Name model name
func (m *Model) Name() string { return m.name }

// Table table name
func (m *Model) Table() string { return m.table }

// PrimaryKey primary key column
func (m *Model) PrimaryKey() string { return m.primaryKey }

// Schema compiled schema
func (m *Model) Schema() *schema.Schema { return m.schema }

// Relations relations of the model, declared and from related attributes
func (m *Model) Relations() *schema.Relationships { return m.relations }

// Hidden columns never serialized
func (m *Model) Hidden() []string { return append([]string(nil), m.hidden...) }

// DefaultWhere conditions merged into every find
func (m *Model) DefaultWhere() Where { return m.defaultWhere.clone() }

// Hooks hooks of the model
func (m *Model) Hooks() *Hooks { return m.hooks }

// Registry registry the model belongs to
func (m *Model) Registry() *Registry { return m.registry }

// Schemaless model without attributes, all columns are selected
func (m *Model) Schemaless() bool { return m.schemaless }

// Extend make a new model inheriting this one's declarations
func (m *Model) Extend(name string, init func(*Assembler)) (*Model, error) {
	return m.registry.make(name, m, init)
}

// Constant model constant
func (m *Model) Constant(name string) (interface{}, bool) {
	v, ok := m.constants[name]
	return v, ok
}

// Call static function
func (m *Model) Call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	fn, ok := m.statics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, m.name, name)
	}
	return fn(ctx, m, args...)
}

// Relation relation by name
func (m *Model) Relation(name string) (*schema.Relation, error) {
	if rel, ok := m.relations.Get(name); ok {
		return rel, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrRelationNotFound, m.name, name)
}

func (m *Model) isHidden(name string) bool {
	if utils.Contains(m.hidden, name) {
		return true
	}
	if attr, ok := m.schema.Lookup(name); ok {
		return attr.IsHidden()
	}
	return strings.HasPrefix(name, "_")
}

// target model of a relation: its declared model, the model mapped to the
// link table, or a schemaless model over the link table
func (m *Model) target(rel *schema.Relation) (*Model, error) {
	if rel.Model != "" {
		return m.registry.Model(rel.Model)
	}

	table := rel.ParsedLink().Table
	if target, ok := m.registry.modelByTable(table); ok {
		return target, nil
	}
	return newSchemaless(m.registry, table), nil
}

// relationKeys resolved columns of a relation
//
// ownerKey is the column read on the owner, targetKey the column matched on
// the target. For hasOne/hasMany targetKey is the foreign key, for belongsTo
// ownerKey is.
func (m *Model) relationKeys(rel *schema.Relation, target *Model) (ownerKey, targetKey string) {
	link := rel.ParsedLink()
	if rel.Type == schema.BelongsTo {
		return rel.LocalKey, link.Column
	}

	ownerKey = rel.LocalKey
	if ownerKey == "" {
		ownerKey = m.primaryKey
	}
	targetKey = link.Column
	if targetKey == "" {
		targetKey = m.registry.NamingStrategy.ForeignKey(m.name, m.primaryKey)
	}
	return ownerKey, targetKey
}
