package builder

import (
	"fmt"
	"strings"

	"github.com/thingorm/thing/utils"
)

// Method statement method callable by name, see Call
type Method func(stmt *Statement, args ...interface{}) error

// Methods statement methods callable by name, keys are lower case
var Methods = map[string]Method{
	"where": func(stmt *Statement, args ...interface{}) error {
		if len(args) == 0 {
			return errArgs("where", args)
		}
		stmt.Where(args[0], args[1:]...)
		return nil
	},
	"wherenot": func(stmt *Statement, args ...interface{}) error {
		if len(args) == 0 {
			return errArgs("whereNot", args)
		}
		stmt.WhereNot(args[0], args[1:]...)
		return nil
	},
	"orwhere": func(stmt *Statement, args ...interface{}) error {
		if len(args) == 0 {
			return errArgs("orWhere", args)
		}
		stmt.OrWhere(args[0], args[1:]...)
		return nil
	},
	"wherein": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) < 2 {
			return errArgs("whereIn", args)
		}
		stmt.WhereIn(column, args[1:]...)
		return nil
	},
	"wherenotin": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) < 2 {
			return errArgs("whereNotIn", args)
		}
		stmt.WhereNotIn(column, args[1:]...)
		return nil
	},
	"wherenull": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) != 1 {
			return errArgs("whereNull", args)
		}
		stmt.WhereNull(column)
		return nil
	},
	"wherenotnull": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) != 1 {
			return errArgs("whereNotNull", args)
		}
		stmt.WhereNotNull(column)
		return nil
	},
	"wherebetween": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok {
			return errArgs("whereBetween", args)
		}
		switch len(args) {
		case 2:
			if bounds, ok := utils.ToInterfaceSlice(args[1]); ok && len(bounds) == 2 {
				stmt.WhereBetween(column, bounds[0], bounds[1])
				return nil
			}
		case 3:
			stmt.WhereBetween(column, args[1], args[2])
			return nil
		}
		return errArgs("whereBetween", args)
	},
	"wherelike": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) != 2 {
			return errArgs("whereLike", args)
		}
		stmt.WhereLike(column, args[1])
		return nil
	},
	"whereraw": func(stmt *Statement, args ...interface{}) error {
		sql, ok := columnArg(args)
		if !ok {
			return errArgs("whereRaw", args)
		}
		vars := args[1:]
		if len(vars) == 1 {
			if vs, ok := vars[0].([]interface{}); ok {
				vars = vs
			}
		}
		stmt.WhereRaw(sql, vars...)
		return nil
	},
	"orderby": func(stmt *Statement, args ...interface{}) error {
		column, ok := columnArg(args)
		if !ok || len(args) > 2 {
			return errArgs("orderBy", args)
		}
		if len(args) == 2 {
			direction, ok := args[1].(string)
			if !ok {
				return errArgs("orderBy", args)
			}
			stmt.OrderBy(column, direction)
			return nil
		}
		stmt.OrderBy(column)
		return nil
	},
	"limit": func(stmt *Statement, args ...interface{}) error {
		n, ok := intArg(args)
		if !ok {
			return errArgs("limit", args)
		}
		stmt.Limit(n)
		return nil
	},
	"offset": func(stmt *Statement, args ...interface{}) error {
		n, ok := intArg(args)
		if !ok {
			return errArgs("offset", args)
		}
		stmt.Offset(n)
		return nil
	},
}

// Call statement method by name, a leading $ is ignored
//
//	stmt.Call("$whereIn", "id", []int{1, 2})
func (stmt *Statement) Call(method string, args ...interface{}) *Statement {
	name := strings.ToLower(strings.TrimPrefix(method, "$"))
	fn, ok := Methods[name]
	if !ok {
		stmt.AddError(fmt.Errorf("%w: %v", ErrUnknownMethod, method))
		return stmt
	}

	if err := fn(stmt, args...); err != nil {
		stmt.AddError(err)
	}
	return stmt
}

func errArgs(method string, args []interface{}) error {
	return fmt.Errorf("%w: %v%v", ErrInvalidArguments, method, args)
}

func columnArg(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	column, ok := args[0].(string)
	return column, ok && column != ""
}

func intArg(args []interface{}) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	switch v := args[0].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
