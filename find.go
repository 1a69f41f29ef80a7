package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/schema"
)

// Find first instance matching where, nil when nothing matches
//
// where is nil, a Where or map of conditions, a clause.Expression, or a
// func(*builder.Statement) with direct access to the statement.
func (m *Model) Find(ctx context.Context, where interface{}, opts ...CallOption) (*Instance, error) {
	o := newCallOptions(opts)
	o.selects = m.withKeys(o.selects)
	one := 1
	o.limit = &one

	instances, err := m.find(ctx, where, o)
	if err != nil || len(instances) == 0 {
		return nil, err
	}
	return instances[0], nil
}

// FindMany instances matching where, empty when nothing matches
func (m *Model) FindMany(ctx context.Context, where interface{}, opts ...CallOption) ([]*Instance, error) {
	o := newCallOptions(opts)
	o.selects = m.withKeys(o.selects)
	return m.find(ctx, where, o)
}

// FindLean first row matching where, without hydration nor relations
func (m *Model) FindLean(ctx context.Context, where interface{}, opts ...CallOption) (builder.Row, error) {
	o := newCallOptions(opts)
	one := 1
	o.limit = &one

	rows, err := m.findRows(ctx, where, o, nil)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// FindManyLean rows matching where, without hydration nor relations
func (m *Model) FindManyLean(ctx context.Context, where interface{}, opts ...CallOption) ([]builder.Row, error) {
	return m.findRows(ctx, where, newCallOptions(opts), nil)
}

// Exists a row with primary key id exists
func (m *Model) Exists(ctx context.Context, id interface{}, opts ...CallOption) (bool, error) {
	opts = append(opts, Select(m.primaryKey))
	row, err := m.FindLean(ctx, Where{m.primaryKey: id}, opts...)
	return row != nil, err
}

// Query hydrate the rows of a custom query like FindMany does
func (m *Model) Query(ctx context.Context, fn func(ctx context.Context, conn builder.Conn) ([]builder.Row, error), opts ...CallOption) ([]*Instance, error) {
	o := newCallOptions(opts)
	conn := m.conn(o)

	rows, err := fn(ctx, conn)
	if err != nil {
		return nil, err
	}

	_, batches, err := m.eagerRelations(o)
	if err != nil {
		return nil, err
	}
	return m.hydrate(ctx, conn, rows, nil, batches)
}

func (m *Model) conn(o *callOptions) builder.Conn {
	if o.conn != nil {
		return o.conn
	}
	return m.registry.exec
}

func (m *Model) find(ctx context.Context, where interface{}, o *callOptions) ([]*Instance, error) {
	joins, batches, err := m.eagerRelations(o)
	if err != nil {
		return nil, err
	}

	plans := make([]joinPlan, 0, len(joins))
	for _, rel := range joins {
		plan, err := m.joinPlan(rel)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	rows, err := m.findRows(ctx, where, o, plans)
	if err != nil {
		return nil, err
	}
	return m.hydrate(ctx, m.conn(o), rows, plans, batches)
}

func (m *Model) findRows(ctx context.Context, where interface{}, o *callOptions, joins []joinPlan) ([]builder.Row, error) {
	conn := m.conn(o)
	stmt, err := m.statement(conn, where, o, joins)
	if err != nil {
		return nil, err
	}

	if !o.skipBeforeFind {
		scope := &Scope{Model: m, Statement: stmt, Conn: conn}
		if err := m.hooks.Run(ctx, Before, EventFind, scope); err != nil {
			return nil, err
		}
	}

	rows, err := conn.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	if o.limit != nil && *o.limit >= 0 && len(rows) > *o.limit {
		rows = rows[:*o.limit]
	}
	if rows == nil {
		rows = []builder.Row{}
	}
	return rows, nil
}

// statement select statement of a find, default where first
func (m *Model) statement(conn builder.Conn, where interface{}, o *callOptions, joins []joinPlan) (*builder.Statement, error) {
	columns := m.projection()
	if len(o.selects) > 0 {
		columns = make([]string, len(o.selects))
		for idx, c := range o.selects {
			columns[idx] = qualify(m.table, c)
		}
	}

	stmt := conn.Select(columns...).From(m.table)
	if m.defaultWhere != nil {
		if err := applyWhere(stmt, m.table, m.defaultWhere); err != nil {
			return nil, err
		}
	}
	if err := applyWhere(stmt, m.table, where); err != nil {
		return nil, err
	}

	for _, join := range joins {
		join.apply(stmt, m.table)
	}

	if o.limit != nil {
		stmt.Limit(*o.limit)
	}
	if o.offset > 0 {
		stmt.Offset(o.offset)
	}
	return stmt, stmt.Err()
}

// columns selected by default, unqualified: column attributes, the primary
// key and the keys relations read on this model. nil for schemaless models.
func (m *Model) columns() []string {
	if m.schemaless {
		return nil
	}

	return m.keyColumns(m.schema.Columns())
}

// withKeys selected columns plus the keys instances need, so hydrated
// instances keep their identity and relations can be loaded. Empty when
// nothing is selected.
func (m *Model) withKeys(selects []string) []string {
	if len(selects) == 0 {
		return selects
	}
	return m.keyColumns(append([]string(nil), selects...))
}

// keyColumns columns plus the primary key and the local keys relations read
func (m *Model) keyColumns(columns []string) []string {
	add := func(column string) {
		if column == "" {
			return
		}
		for _, c := range columns {
			if c == column || c == m.table+"."+column {
				return
			}
		}
		columns = append(columns, column)
	}

	add(m.primaryKey)
	m.relations.Each(func(rel *schema.Relation) {
		add(rel.LocalKey)
	})
	return columns
}

func (m *Model) projection() []string {
	columns := m.columns()
	if columns == nil {
		return []string{m.table + ".*"}
	}

	for idx, c := range columns {
		columns[idx] = qualify(m.table, c)
	}
	return columns
}

// eagerRelations relations loaded by a find, split into joined and batched
func (m *Model) eagerRelations(o *callOptions) (joins, batches []*schema.Relation, err error) {
	add := func(rel *schema.Relation) {
		if rel.Join != schema.NoJoin && !rel.Type.IsToMany() {
			joins = append(joins, rel)
		} else {
			batches = append(batches, rel)
		}
	}

	if o.relatedSet {
		for _, name := range o.related {
			rel, err := m.Relation(name)
			if err != nil {
				return nil, nil, err
			}
			add(rel)
		}
		return joins, batches, nil
	}

	m.relations.Each(func(rel *schema.Relation) {
		if rel.Eager {
			add(rel)
		}
	})
	return joins, batches, nil
}

// hydrate rows into instances, then load batched relations and run after:find
func (m *Model) hydrate(ctx context.Context, conn builder.Conn, rows []builder.Row, joins []joinPlan, batches []*schema.Relation) ([]*Instance, error) {
	instances := make([]*Instance, 0, len(rows))
	for _, row := range rows {
		nested := make([]builder.Row, len(joins))
		for idx, join := range joins {
			nested[idx] = join.split(row)
		}

		inst, err := m.ForgeContext(ctx, row)
		if err != nil {
			return nil, err
		}

		for idx, join := range joins {
			if err := join.assign(ctx, inst, nested[idx]); err != nil {
				return nil, err
			}
		}
		instances = append(instances, inst)
	}

	for _, rel := range batches {
		if err := m.loadBatch(ctx, conn, instances, rel); err != nil {
			return nil, err
		}
	}

	if m.hooks.Len(After, EventFind) > 0 {
		scope := &Scope{Model: m, Instances: instances, Conn: conn}
		if err := m.hooks.Run(ctx, After, EventFind, scope); err != nil {
			return nil, err
		}
	}
	return instances, nil
}

// byKey single column condition
func byKey(column string, value interface{}) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func relationColumns(rel *schema.Relation, target *Model, required string) ([]string, error) {
	columns := rel.Columns
	if len(columns) == 0 {
		columns = target.columns()
	}
	if columns == nil {
		return nil, nil
	}

	columns = append([]string(nil), columns...)
	for _, c := range columns {
		if c == required {
			return columns, nil
		}
	}
	if required == "" {
		return columns, nil
	}
	return append(columns, required), nil
}

func errRelation(m *Model, rel *schema.Relation, err error) error {
	return fmt.Errorf("%s.%s: %w", m.name, rel.Name, err)
}
