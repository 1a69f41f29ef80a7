package thing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/clause"
	"github.com/thingorm/thing/utils"
)

// Where column to value conditions
//
//	Where{"name": "ann"}                          name = 'ann'
//	Where{"id": []int{1, 2}}                      id IN (1,2)
//	Where{"deleted_at": nil}                      deleted_at IS NULL
//	Where{"$whereNotNull": "email"}               email IS NOT NULL
//	Where{"$where": [][]interface{}{{"age", ">", 18}, {"age", "<", 65}}}
//	Where{"$limit": 10, "$offset": 20}
//
// Keys are applied in sorted order. Keys starting with $ call the statement
// method of the same name; a value whose first element is itself a slice calls
// it once per element.
type Where map[string]interface{}

func (w Where) clone() Where {
	if w == nil {
		return nil
	}
	clone := make(Where, len(w))
	for k, v := range w {
		clone[k] = v
	}
	return clone
}

// applyWhere add conditions to stmt, unqualified columns are qualified with table
func applyWhere(stmt *builder.Statement, table string, where interface{}) error {
	switch v := where.(type) {
	case nil:
		return nil
	case func(*builder.Statement):
		v(stmt)
		return nil
	case func(*builder.Statement) error:
		return v(stmt)
	case clause.Expression:
		stmt.Where(v)
		return nil
	case Where:
		return applyConditions(stmt, table, v)
	case map[string]interface{}:
		return applyConditions(stmt, table, v)
	}
	return fmt.Errorf("%w: where %T", ErrInvalidData, where)
}

func applyConditions(stmt *builder.Statement, table string, conds map[string]interface{}) error {
	keys := make([]string, 0, len(conds))
	for key := range conds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := conds[key]
		if !strings.HasPrefix(key, "$") {
			stmt.Where(qualify(table, key), value)
			continue
		}

		for _, args := range methodCalls(value) {
			stmt.Call(key, args...)
		}
	}
	return stmt.Err()
}

// methodCalls argument lists of a $method value
func methodCalls(value interface{}) [][]interface{} {
	args, ok := utils.ToInterfaceSlice(value)
	if !ok {
		return [][]interface{}{{value}}
	}
	if len(args) == 0 {
		return [][]interface{}{args}
	}

	if _, nested := utils.ToInterfaceSlice(args[0]); !nested {
		return [][]interface{}{args}
	}

	calls := make([][]interface{}, 0, len(args))
	for _, arg := range args {
		call, ok := utils.ToInterfaceSlice(arg)
		if !ok {
			call = []interface{}{arg}
		}
		calls = append(calls, call)
	}
	return calls
}

func qualify(table, column string) string {
	if table == "" || strings.ContainsAny(column, ". ()") {
		return column
	}
	return table + "." + column
}
