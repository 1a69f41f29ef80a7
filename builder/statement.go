package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/utils"
)

// BuildClauses clauses of a select statement, in build order
var BuildClauses = []string{"SELECT", "FROM", "WHERE", "ORDER BY", "LIMIT"}

// Statement select statement builder
type Statement struct {
	Table   string
	Clauses map[string]clause.Clause
	Error   error
}

// New statement selecting columns, all columns when empty
func New(columns ...string) *Statement {
	stmt := &Statement{Clauses: map[string]clause.Clause{}}
	if len(columns) > 0 {
		stmt.Select(columns...)
	}
	return stmt
}

// AddError add error to statement, the first one is kept
func (stmt *Statement) AddError(err error) error {
	if stmt.Error == nil {
		stmt.Error = err
	} else if err != nil {
		stmt.Error = fmt.Errorf("%v; %w", stmt.Error, err)
	}
	return stmt.Error
}

// Err error recorded while building
func (stmt *Statement) Err() error {
	return stmt.Error
}

// AddClause add clause
func (stmt *Statement) AddClause(v clause.Interface) *Statement {
	c, ok := stmt.Clauses[v.Name()]
	if !ok {
		c.Name = v.Name()
	}
	v.MergeClause(&c)
	stmt.Clauses[v.Name()] = c
	return stmt
}

// Select columns, "table.column", "column AS alias" and "table.*" are understood
func (stmt *Statement) Select(columns ...string) *Statement {
	selects := clause.Select{Columns: make([]clause.Column, 0, len(columns))}
	for _, c := range columns {
		selects.Columns = append(selects.Columns, ParseColumn(c))
	}
	stmt.Clauses["SELECT"] = clause.Clause{Name: "SELECT", Expression: selects}
	return stmt
}

// AddSelect append columns to the projection
func (stmt *Statement) AddSelect(columns ...clause.Column) *Statement {
	var selects clause.Select
	if c, ok := stmt.Clauses["SELECT"]; ok {
		selects, _ = c.Expression.(clause.Select)
	}
	selects.Columns = append(append([]clause.Column(nil), selects.Columns...), columns...)
	stmt.Clauses["SELECT"] = clause.Clause{Name: "SELECT", Expression: selects}
	return stmt
}

// Selects columns of the projection
func (stmt *Statement) Selects() []clause.Column {
	if c, ok := stmt.Clauses["SELECT"]; ok {
		if s, ok := c.Expression.(clause.Select); ok {
			return append([]clause.Column(nil), s.Columns...)
		}
	}
	return nil
}

// From set table
func (stmt *Statement) From(table string) *Statement {
	stmt.Table = table
	return stmt
}

// Where add a condition
//
//	Where("name", "ann")              name = 'ann'
//	Where("age", ">", 18)             age > 18
//	Where("id", []int{1, 2})          id IN (1,2)
//	Where("deleted_at", nil)          deleted_at IS NULL
//	Where(clause.Expression)
//	Where(map[string]interface{})     equality for every key
func (stmt *Statement) Where(query interface{}, args ...interface{}) *Statement {
	if conds := stmt.BuildCondition(query, args...); len(conds) > 0 {
		stmt.AddClause(clause.Where{Exprs: conds})
	}
	return stmt
}

// WhereNot add a negated condition
func (stmt *Statement) WhereNot(query interface{}, args ...interface{}) *Statement {
	if conds := stmt.BuildCondition(query, args...); len(conds) > 0 {
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Not(conds...)}})
	}
	return stmt
}

// OrWhere add a condition joined with OR
func (stmt *Statement) OrWhere(query interface{}, args ...interface{}) *Statement {
	if conds := stmt.BuildCondition(query, args...); len(conds) > 0 {
		stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Or(clause.And(conds...))}})
	}
	return stmt
}

// WhereIn column IN values, no values matches nothing
func (stmt *Statement) WhereIn(column string, values ...interface{}) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.IN{Column: ParseColumn(column), Values: flatten(values)},
	}})
}

// WhereNotIn column NOT IN values
func (stmt *Statement) WhereNotIn(column string, values ...interface{}) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Not(clause.IN{Column: ParseColumn(column), Values: flatten(values)}),
	}})
}

// WhereNull column IS NULL
func (stmt *Statement) WhereNull(column string) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Eq{Column: ParseColumn(column)}}})
}

// WhereNotNull column IS NOT NULL
func (stmt *Statement) WhereNotNull(column string) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Neq{Column: ParseColumn(column)}}})
}

// WhereBetween column BETWEEN low AND high
func (stmt *Statement) WhereBetween(column string, low, high interface{}) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Between{Column: ParseColumn(column), Low: low, High: high},
	}})
}

// WhereLike column LIKE pattern
func (stmt *Statement) WhereLike(column string, pattern interface{}) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Like{Column: ParseColumn(column), Value: pattern}}})
}

// WhereRaw raw sql condition with ? placeholders
func (stmt *Statement) WhereRaw(sql string, vars ...interface{}) *Statement {
	return stmt.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: sql, Vars: vars}}})
}

// Join inner join table on left op right, the operator is optional
func (stmt *Statement) Join(table, left string, args ...string) *Statement {
	return stmt.join(clause.InnerJoin, table, left, args...)
}

// InnerJoin inner join table on left op right
func (stmt *Statement) InnerJoin(table, left string, args ...string) *Statement {
	return stmt.join(clause.InnerJoin, table, left, args...)
}

// LeftJoin left join table on left op right
func (stmt *Statement) LeftJoin(table, left string, args ...string) *Statement {
	return stmt.join(clause.LeftJoin, table, left, args...)
}

func (stmt *Statement) join(joinType clause.JoinType, table, left string, args ...string) *Statement {
	var op, right string
	switch len(args) {
	case 1:
		op, right = "=", args[0]
	case 2:
		op, right = args[0], args[1]
	default:
		stmt.AddError(fmt.Errorf("%w: join %v requires a right column", ErrInvalidArguments, table))
		return stmt
	}

	cond, err := Compare(ParseColumn(left), op, ParseColumn(right))
	if err != nil {
		stmt.AddError(err)
		return stmt
	}

	return stmt.AddClause(clause.From{Joins: []clause.Join{{
		Type:  joinType,
		Table: ParseTable(table),
		ON:    clause.Where{Exprs: []clause.Expression{cond}},
	}}})
}

// OrderBy order by column, direction is asc or desc
func (stmt *Statement) OrderBy(column string, direction ...string) *Statement {
	var desc bool
	if len(direction) > 0 {
		switch strings.ToLower(direction[0]) {
		case "desc":
			desc = true
		case "asc", "":
		default:
			stmt.AddError(fmt.Errorf("%w: order direction %q", ErrInvalidArguments, direction[0]))
			return stmt
		}
	}
	return stmt.AddClause(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: ParseColumn(column), Desc: desc}}})
}

// Limit max number of rows, negative removes the limit
func (stmt *Statement) Limit(limit int) *Statement {
	return stmt.AddClause(clause.Limit{Limit: &limit})
}

// Offset rows to skip
func (stmt *Statement) Offset(offset int) *Statement {
	return stmt.AddClause(clause.Limit{Offset: &offset})
}

// Clone copy statement, the copy can be changed without affecting the original
func (stmt *Statement) Clone() *Statement {
	clone := &Statement{
		Table:   stmt.Table,
		Clauses: make(map[string]clause.Clause, len(stmt.Clauses)),
		Error:   stmt.Error,
	}
	for k, c := range stmt.Clauses {
		clone.Clauses[k] = c
	}
	return clone
}

// Build write the select statement
func (stmt *Statement) Build(builder clause.Builder) {
	if stmt.Table == "" {
		builder.AddError(ErrMissingTable)
		return
	}

	if _, ok := stmt.Clauses["SELECT"]; !ok {
		stmt.Clauses["SELECT"] = clause.Clause{Name: "SELECT", Expression: clause.Select{}}
	}
	if _, ok := stmt.Clauses["FROM"]; !ok {
		stmt.Clauses["FROM"] = clause.Clause{Name: "FROM", Expression: clause.From{}}
	}

	var firstClauseWritten bool
	for _, name := range BuildClauses {
		if c, ok := stmt.Clauses[name]; ok && !emptyLimit(c) {
			if firstClauseWritten {
				builder.WriteByte(' ')
			}

			firstClauseWritten = true
			c.Build(builder)
		}
	}
}

func emptyLimit(c clause.Clause) bool {
	l, ok := c.Expression.(clause.Limit)
	return ok && l.Empty()
}

// BuildCondition build condition
func (stmt *Statement) BuildCondition(query interface{}, args ...interface{}) []clause.Expression {
	switch v := query.(type) {
	case clause.Expression:
		conds := []clause.Expression{v}
		for _, arg := range args {
			if e, ok := arg.(clause.Expression); ok {
				conds = append(conds, e)
			} else {
				stmt.AddError(fmt.Errorf("%w: %T is not an expression", ErrInvalidArguments, arg))
				return nil
			}
		}
		return conds
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		conds := make([]clause.Expression, 0, len(keys))
		for _, key := range keys {
			conds = append(conds, clause.Eq{Column: ParseColumn(key), Value: v[key]})
		}
		return conds
	case string:
		column := ParseColumn(v)
		switch len(args) {
		case 1:
			return []clause.Expression{clause.Eq{Column: column, Value: normalize(args[0])}}
		case 2:
			op, ok := args[0].(string)
			if !ok {
				stmt.AddError(fmt.Errorf("%w: operator must be a string, got %T", ErrInvalidArguments, args[0]))
				return nil
			}
			cond, err := Compare(column, op, normalize(args[1]))
			if err != nil {
				stmt.AddError(err)
				return nil
			}
			return []clause.Expression{cond}
		}
		stmt.AddError(fmt.Errorf("%w: where %v expects a value or an operator and a value", ErrInvalidArguments, v))
		return nil
	}

	stmt.AddError(fmt.Errorf("%w: unsupported condition %T", ErrInvalidArguments, query))
	return nil
}

// Compare build column op value
func Compare(column clause.Column, op string, value interface{}) (clause.Expression, error) {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "=", "==", "is":
		return clause.Eq{Column: column, Value: value}, nil
	case "!=", "<>", "is not":
		return clause.Neq{Column: column, Value: value}, nil
	case ">":
		return clause.Gt{Column: column, Value: value}, nil
	case ">=":
		return clause.Gte{Column: column, Value: value}, nil
	case "<":
		return clause.Lt{Column: column, Value: value}, nil
	case "<=":
		return clause.Lte{Column: column, Value: value}, nil
	case "like":
		return clause.Like{Column: column, Value: value}, nil
	case "not like":
		return clause.Not(clause.Like{Column: column, Value: value}), nil
	case "in":
		values, _ := utils.ToInterfaceSlice(value)
		return clause.IN{Column: column, Values: values}, nil
	case "not in":
		values, _ := utils.ToInterfaceSlice(value)
		return clause.Not(clause.IN{Column: column, Values: values}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
}

// ParseColumn parse "table.column AS alias"
func ParseColumn(s string) clause.Column {
	s = strings.TrimSpace(s)
	var column clause.Column

	if idx := strings.Index(strings.ToLower(s), " as "); idx > 0 {
		column.Alias = strings.TrimSpace(s[idx+4:])
		s = strings.TrimSpace(s[:idx])
	}

	if strings.ContainsAny(s, " ()+-*/,'\"`") && !strings.HasSuffix(s, ".*") && s != "*" {
		column.Name = s
		column.Raw = true
		return column
	}

	if idx := strings.LastIndexByte(s, '.'); idx > 0 {
		column.Table, s = s[:idx], s[idx+1:]
	}
	column.Name = s
	column.Raw = s == "*"
	return column
}

// ParseTable parse "table AS alias" or "table alias"
func ParseTable(s string) clause.Table {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 3 && strings.EqualFold(fields[1], "as"):
		return clause.Table{Name: fields[0], Alias: fields[2]}
	case len(fields) == 2:
		return clause.Table{Name: fields[0], Alias: fields[1]}
	}
	return clause.Table{Name: strings.TrimSpace(s)}
}

// flatten values given as a single slice or as variadic arguments
func flatten(values []interface{}) []interface{} {
	if len(values) == 1 {
		if vs, ok := utils.ToInterfaceSlice(values[0]); ok {
			return vs
		}
	}
	return values
}

// normalize slices into []interface{} so they render as IN lists
func normalize(value interface{}) interface{} {
	if vs, ok := utils.ToInterfaceSlice(value); ok {
		return vs
	}
	return value
}
