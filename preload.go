package thing

import (
	"context"
	"fmt"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/schema"
	"github.com/thingorm/thing/utils"
)

// relationSeparator separates the relation name from the column in joined projections
const relationSeparator = "__"

// joinPlan a to-one relation resolved in the primary statement
type joinPlan struct {
	rel       *schema.Relation
	target    *Model
	ownerKey  string
	targetKey string
	columns   []string
}

func (m *Model) joinPlan(rel *schema.Relation) (joinPlan, error) {
	target, err := m.relatedModel(rel)
	if err != nil {
		return joinPlan{}, errRelation(m, rel, err)
	}

	ownerKey, targetKey := m.relationKeys(rel, target)
	columns, err := relationColumns(rel, target, "")
	if err != nil {
		return joinPlan{}, err
	}
	if len(columns) == 0 {
		return joinPlan{}, errRelation(m, rel, fmt.Errorf("%w: joined relation needs columns", ErrInvalidData))
	}

	return joinPlan{rel: rel, target: target, ownerKey: ownerKey, targetKey: targetKey, columns: columns}, nil
}

// apply add the join and the prefixed projection, the joined table is aliased by the relation name
//
//	LEFT JOIN "profiles" "profile" ON "profile"."user_id" = "users"."id"
//	SELECT "profile"."bio" AS "profile__bio"
func (j joinPlan) apply(stmt *builder.Statement, table string) {
	alias := j.rel.Name
	joined := j.target.table + " AS " + alias
	left, right := alias+"."+j.targetKey, table+"."+j.ownerKey

	if j.rel.Join == schema.InnerJoin {
		stmt.InnerJoin(joined, left, right)
	} else {
		stmt.LeftJoin(joined, left, right)
	}

	columns := make([]clause.Column, len(j.columns))
	for idx, c := range j.columns {
		columns[idx] = clause.Column{Table: alias, Name: c, Alias: alias + relationSeparator + c}
	}
	stmt.AddSelect(columns...)
}

// split move the prefixed columns of the relation out of row
func (j joinPlan) split(row builder.Row) builder.Row {
	nested := make(builder.Row, len(j.columns))
	prefix := j.rel.Name + relationSeparator
	for _, c := range j.columns {
		if v, ok := row[prefix+c]; ok {
			nested[c] = v
			delete(row, prefix+c)
		}
	}
	return nested
}

// assign nested row to inst, nil when every joined column is NULL
func (j joinPlan) assign(ctx context.Context, inst *Instance, nested builder.Row) error {
	empty := true
	for _, v := range nested {
		if v != nil {
			empty = false
			break
		}
	}

	if empty {
		inst.relations[j.rel.Name] = nil
		return nil
	}

	related, err := j.target.ForgeContext(ctx, nested)
	if err != nil {
		return err
	}
	inst.relations[j.rel.Name] = related
	return nil
}

// loadBatch load a relation of all parents with one query, grouping children
// by the key they reference
func (m *Model) loadBatch(ctx context.Context, conn builder.Conn, parents []*Instance, rel *schema.Relation) error {
	if len(parents) == 0 {
		return nil
	}

	target, err := m.relatedModel(rel)
	if err != nil {
		return errRelation(m, rel, err)
	}
	ownerKey, targetKey := m.relationKeys(rel, target)

	var (
		keys []interface{}
		seen = map[string]bool{}
	)
	for _, parent := range parents {
		if v := parent.Get(ownerKey); v != nil {
			if k := utils.ToStringKey(v); !seen[k] {
				seen[k] = true
				keys = append(keys, v)
			}
		}
	}

	groups := map[string][]*Instance{}
	if len(keys) > 0 {
		columns, err := relationColumns(rel, target, targetKey)
		if err != nil {
			return err
		}

		o := &callOptions{selects: columns, relatedSet: true, conn: conn}
		children, err := target.find(ctx, Where{qualify(target.table, targetKey): keys}, o)
		if err != nil {
			return err
		}

		for _, child := range children {
			k := utils.ToStringKey(child.Get(targetKey))
			groups[k] = append(groups[k], child)
		}
	}

	for _, parent := range parents {
		var children []*Instance
		if v := parent.Get(ownerKey); v != nil {
			children = groups[utils.ToStringKey(v)]
		}
		parent.relations[rel.Name] = relationValue(rel, children)
	}
	return nil
}

// relationValue a to-many relation is always a slice, a to-one relation the first match or nil
func relationValue(rel *schema.Relation, children []*Instance) interface{} {
	if rel.Type.IsToMany() {
		if children == nil {
			children = []*Instance{}
		}
		return children
	}
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
